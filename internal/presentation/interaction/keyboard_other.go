//go:build !darwin && !linux

package interaction

import "errors"

func enableRawMode(int) (func() error, error) {
	return nil, errors.New("raw keyboard mode is not supported on this platform")
}
