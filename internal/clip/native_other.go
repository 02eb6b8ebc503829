//go:build !linux && !darwin && !windows

package clip

import "errors"

func newNativeAccessor() (Accessor, error) {
	return nil, errors.New("native clipboard backend not available on this platform")
}
