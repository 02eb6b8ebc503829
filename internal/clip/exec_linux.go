//go:build linux

package clip

// platformTools lists Linux clipboard utilities in preference order:
// Wayland first, then the X11 tools.
func platformTools() ([]tool, error) {
	return []tool{
		{
			read:  command{name: "wl-paste", args: []string{"-n"}},
			write: command{name: "wl-copy"},
		},
		{
			read:  command{name: "xclip", args: []string{"-selection", "clipboard", "-o"}},
			write: command{name: "xclip", args: []string{"-selection", "clipboard"}},
		},
		{
			read:  command{name: "xsel", args: []string{"--clipboard", "--output"}},
			write: command{name: "xsel", args: []string{"--clipboard", "--input"}},
		},
	}, nil
}
