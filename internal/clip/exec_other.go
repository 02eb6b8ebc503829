//go:build !linux && !darwin && !windows

package clip

import "errors"

func platformTools() ([]tool, error) {
	return nil, errors.New("no clipboard support on this platform")
}
