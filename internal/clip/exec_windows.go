//go:build windows

package clip

func platformTools() ([]tool, error) {
	return []tool{
		{
			read:  command{name: "powershell", args: []string{"-NoProfile", "-Command", "Get-Clipboard"}},
			write: command{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		},
	}, nil
}
