// clipshare: synchronise a text clipboard across machines over TCP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clipwire/clipshare/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "clipshare",
		Short: "Share clipboard contents over the network",
		Long: `clipshare keeps a text clipboard synchronized across machines: it
polls the local clipboard and pushes changes to a peer, and it accepts
pushed updates and applies them locally.

Run "clipshare serve --listen PORT" to receive, "clipshare serve --peer
HOST:PORT" to push, or both at once for two-way sync between a pair of
machines.

Config file search order (first found wins):
  /etc/clipshare/clipshare.toml
  $HOME/.config/clipshare/clipshare.toml
  path supplied via --config

All flags can be set via CLIPSHARE_<FLAG> env vars or config-file keys.
See "clipshare serve --help" for the full flag reference.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newSendCmd(),
		newStatusCmd(),
		newClearCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipshare %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
