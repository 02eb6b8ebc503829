//go:build darwin

package clip

func platformTools() ([]tool, error) {
	return []tool{
		{
			read:  command{name: "pbpaste"},
			write: command{name: "pbcopy"},
		},
	}, nil
}
