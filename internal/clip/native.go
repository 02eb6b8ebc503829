//go:build linux || darwin || windows

package clip

import (
	"fmt"

	"golang.design/x/clipboard"
)

// nativeAccessor talks to the clipboard in-process via
// golang.design/x/clipboard. Faster than shelling out, but needs a
// display environment; Init failing is fatal for this backend.
type nativeAccessor struct{}

func newNativeAccessor() (Accessor, error) {
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("native clipboard unavailable: %w", err)
	}
	return nativeAccessor{}, nil
}

func (nativeAccessor) Name() string { return "native" }

func (nativeAccessor) Read() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}

func (nativeAccessor) Write(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
