package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clipwire/clipshare/internal/monitor"
)

func newSendCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "send [TEXT]",
		Short: "Push text to a peer's clipboard once",
		Long: `Sends TEXT (or stdin when no argument is given) to the peer's
clipboard as a single sync frame, then exits. Useful from scripts and for
testing a peer without running the daemon:

  echo "hello" | clipshare send --peer 10.0.0.2:9000`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, args []string) error { return runSend(v, args) },
	}

	f := cmd.Flags()
	f.String("peer", "", "destination peer (HOST:PORT), required")
	addConfigFlag(cmd)

	return cmd
}

func runSend(v *viper.Viper, args []string) error {
	peerAddr := v.GetString("peer")
	if peerAddr == "" {
		return fmt.Errorf("--peer is required")
	}
	peerAddr, err := parsePeer(peerAddr)
	if err != nil {
		return err
	}

	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	n, err := monitor.Send(peerAddr, text, monitor.DialTimeout)
	if err != nil {
		return err
	}
	slog.Info("sent", "peer", peerAddr, "bytes", n)
	return nil
}
