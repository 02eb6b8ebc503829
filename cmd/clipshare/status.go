package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clipwire/clipshare/internal/ctrl"
	"github.com/clipwire/clipshare/internal/ipc"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running daemon's configuration and connected peers",
		Long: `Queries the clipshare daemon on this machine over its local IPC
socket and prints its configuration and the peers it is tracking.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	resp, err := ipcRequest(&ctrl.Message{Type: ctrl.TypeStatus})
	if err != nil {
		return err
	}
	if resp.Type != ctrl.TypeStatusResponse {
		return fmt.Errorf("unexpected response %q: %s", resp.Type, resp.Error)
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	printStatus(resp)
	return nil
}

func printStatus(resp *ctrl.Message) {
	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Transport:\tipc (%s)\n", ipc.SocketPath())
	if resp.ListenAddr != "" {
		fmt.Fprintf(w, "Listening:\t%s\n", resp.ListenAddr)
	}
	if resp.PeerAddr != "" {
		fmt.Fprintf(w, "Pushing to:\t%s\n", resp.PeerAddr)
	}
	fmt.Fprintf(w, "Clipboard:\t%s\n", resp.Backend)
	fmt.Fprintf(w, "Consume:\t%v\n", resp.Consume)
	fmt.Fprintf(w, "Uptime:\t%s\n", resp.Uptime)
	fmt.Fprintln(w)
	_ = w.Flush()

	if len(resp.Peers) == 0 {
		fmt.Println("No peers connected.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ADDR\tCONNECTED\tLAST SEEN\tCONTENT\n")
	_, _ = fmt.Fprintf(tw, "----\t---------\t---------\t-------\n")
	for _, p := range resp.Peers {
		content := p.Content
		if len(content) > 48 {
			content = content[:48] + "…"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%q\n",
			p.Addr, fmtAge(p.ConnectedAt), fmtAge(p.LastSeen), content,
		)
	}
	_ = tw.Flush()
}

// ipcRequest sends one control message to the local daemon and reads
// the reply.
func ipcRequest(msg *ctrl.Message) (*ctrl.Message, error) {
	if !ipc.IsRunning() {
		return nil, fmt.Errorf("no clipshare daemon running (socket %s)", ipc.SocketPath())
	}
	conn, err := ipc.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}
	defer conn.Close()

	cc := ctrl.NewConn(conn)
	if err := cc.WriteMsg(msg); err != nil {
		return nil, fmt.Errorf("control send: %w", err)
	}
	resp, err := cc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("control read: %w", err)
	}
	return resp, nil
}
