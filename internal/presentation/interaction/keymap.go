package interaction

// Action is what a key press asks the monitor to do.
type Action int

const (
	ActionNone Action = iota
	ActionToggleTracking
	ActionClear
	ActionLockReference
	ActionToggleAutoLock
	ActionIncreaseReference
	ActionDecreaseReference
	ActionTogglePause
	ActionToggleLayout
	ActionToggleHelp
	ActionConfirm
	ActionCancel
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:              "none",
	ActionToggleTracking:    "toggle-tracking",
	ActionClear:             "clear",
	ActionLockReference:     "lock-reference",
	ActionToggleAutoLock:    "toggle-auto-lock",
	ActionIncreaseReference: "increase-reference",
	ActionDecreaseReference: "decrease-reference",
	ActionTogglePause:       "toggle-pause",
	ActionToggleLayout:      "toggle-layout",
	ActionToggleHelp:        "toggle-help",
	ActionConfirm:           "confirm",
	ActionCancel:            "cancel",
	ActionQuit:              "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// KeyBinding documents one entry of the key map for the help screen.
type KeyBinding struct {
	Keys        string
	Description string
}

// Bindings lists the dashboard keys in help order.
var Bindings = []KeyBinding{
	{"s", "Start or stop tracking"},
	{"c", "Clear all recorded data (asks for confirmation)"},
	{"g", "Lock reference to ground (highest pressure seen)"},
	{"a", "Toggle automatic reference lock"},
	{"+ / -", "Adjust reference pressure while idle"},
	{"p", "Pause or resume the display"},
	{"t", "Switch layout (Full / Minimal)"},
	{"h", "Show or hide this help"},
	{"q / Esc / Ctrl+C", "Quit"},
}

// MapKey translates a key event. While a confirm dialog is open only the
// dialog answers and Ctrl+C are recognised.
func MapKey(ev KeyEvent, dialogOpen bool) Action {
	if ev.Type == KeyChar && ev.Key == keyCtrlC {
		return ActionQuit
	}

	if dialogOpen {
		switch {
		case ev.Type == KeyEscape:
			return ActionCancel
		case ev.Key == 'y' || ev.Key == 'Y' || ev.Key == '\r' || ev.Key == '\n':
			return ActionConfirm
		case ev.Key == 'n' || ev.Key == 'N':
			return ActionCancel
		}
		return ActionNone
	}

	if ev.Type == KeyEscape {
		return ActionQuit
	}

	switch ev.Key {
	case 's', 'S', ' ':
		return ActionToggleTracking
	case 'c', 'C':
		return ActionClear
	case 'g', 'G':
		return ActionLockReference
	case 'a', 'A':
		return ActionToggleAutoLock
	case '+', '=':
		return ActionIncreaseReference
	case '-', '_':
		return ActionDecreaseReference
	case 'p', 'P':
		return ActionTogglePause
	case 't', 'T':
		return ActionToggleLayout
	case 'h', 'H', '?':
		return ActionToggleHelp
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}
