//go:build darwin || linux

package interaction

import "golang.org/x/sys/unix"

// setRaw switches fd to raw input and returns a function restoring the
// previous state. ISIG stays enabled so Ctrl+C still reaches the process.
func setRaw(fd int, getReq, setReq uint) (func() error, error) {
	oldState, err := unix.IoctlGetTermios(fd, getReq)
	if err != nil {
		return nil, err
	}

	newState := *oldState
	newState.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	newState.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	newState.Cflag |= unix.CS8
	newState.Cc[unix.VMIN] = 1
	newState.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, setReq, &newState); err != nil {
		return nil, err
	}
	return func() error {
		return unix.IoctlSetTermios(fd, setReq, oldState)
	}, nil
}
