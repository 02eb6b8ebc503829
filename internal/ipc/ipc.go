// Package ipc provides the local Unix-socket channel used by CLI tools
// (status, clear) to talk to a running clipshare serve daemon instead of
// touching the network. The daemon listens on the socket; sub-commands
// probe for it and fail with a clear message if it is absent.
package ipc

import (
	"net"
	"os"
	"path/filepath"
	"runtime"
)

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - Linux: $XDG_RUNTIME_DIR/clipshare.sock, falling back to $TMPDIR
//   - macOS: $TMPDIR/clipshare.sock
//   - Windows: \\.\pipe\clipshare (named pipe — not yet implemented)
//
// Override with $CLIPSHARE_SOCKET.
func SocketPath() string {
	if s := os.Getenv("CLIPSHARE_SOCKET"); s != "" {
		return s
	}
	if runtime.GOOS == "windows" {
		return `\\.\pipe\clipshare`
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "clipshare.sock")
	}
	return filepath.Join(os.TempDir(), "clipshare.sock")
}

// IsRunning reports whether a clipshare daemon appears to be listening
// on the IPC socket. It does a cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := net.Dial("unix", SocketPath())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates and returns a net.Listener on the IPC socket path,
// removing any stale socket file from a previous (crashed) run first.
func Listen() (net.Listener, error) {
	path := SocketPath()
	_ = os.Remove(path)
	return net.Listen("unix", path)
}

// Dial connects to the IPC socket.
func Dial() (net.Conn, error) {
	return net.Dial("unix", SocketPath())
}
