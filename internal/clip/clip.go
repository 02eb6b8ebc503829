// Package clip provides access to the OS clipboard behind a small
// interface so the sync engine never talks to a platform directly.
//
// Backends:
//
//	exec     — shell out to the platform clipboard utilities with a
//	           short timeout (wl-paste/wl-copy, xclip, xsel, pbpaste/
//	           pbcopy, powershell Get-/Set-Clipboard). The default.
//	native   — golang.design/x/clipboard (in-process, needs a display)
//	portable — github.com/atotto/clipboard
//	none     — discard writes, read empty (relay-only servers)
//
// An unsupported platform is a constructor error, not a runtime
// surprise: there is no sensible fallback for a machine with no
// clipboard at all.
package clip

import (
	"fmt"
	"sync"
)

// Accessor reads and writes the OS clipboard. Implementations return
// errors instead of panicking; callers treat failures as transient.
type Accessor interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// Read returns the current clipboard text.
	Read() (string, error)

	// Write sets the clipboard to text.
	Write(text string) error
}

// Backend names a clipboard implementation.
type Backend string

const (
	BackendExec     Backend = "exec"
	BackendNative   Backend = "native"
	BackendPortable Backend = "portable"
	BackendNone     Backend = "none"
)

// New constructs the named backend. BackendExec and BackendNative fail
// on platforms they cannot serve.
func New(b Backend) (Accessor, error) {
	switch b {
	case BackendExec, "":
		return newExecAccessor()
	case BackendNative:
		return newNativeAccessor()
	case BackendPortable:
		return &portableAccessor{}, nil
	case BackendNone:
		return noopAccessor{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q", b)
	}
}

// Serialized wraps an Accessor with a mutex so that concurrent engine
// tasks (monitor loop, connection handlers) never overlap their
// platform clipboard calls.
type Serialized struct {
	mu    sync.Mutex
	inner Accessor
}

// Serialize wraps a so that Read and Write are mutually exclusive.
func Serialize(a Accessor) *Serialized {
	return &Serialized{inner: a}
}

func (s *Serialized) Name() string { return s.inner.Name() }

func (s *Serialized) Read() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Read()
}

func (s *Serialized) Write(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Write(text)
}

// noopAccessor discards writes and reads empty. Used for relay-only
// servers that track peers without touching a local clipboard.
type noopAccessor struct{}

func (noopAccessor) Name() string          { return "none (no-op)" }
func (noopAccessor) Read() (string, error) { return "", nil }
func (noopAccessor) Write(string) error    { return nil }
