package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/soheilhy/cmux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clipwire/clipshare/internal/clip"
	"github.com/clipwire/clipshare/internal/ctrl"
	"github.com/clipwire/clipshare/internal/event"
	"github.com/clipwire/clipshare/internal/ipc"
	"github.com/clipwire/clipshare/internal/monitor"
	"github.com/clipwire/clipshare/internal/registry"
	"github.com/clipwire/clipshare/internal/server"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the sync daemon (receive on --listen, push to --peer)",
		Long: `Starts the clipboard sync daemon. With --listen it accepts pushed
updates and applies them to the local clipboard; with --peer it polls the
local clipboard and pushes changes to that peer. Both may be given for
two-way sync. At least one is required.

Config file search order:
  /etc/clipshare/clipshare.toml
  $HOME/.config/clipshare/clipshare.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPSHARE_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runServe(v) },
	}

	f := cmd.Flags()
	f.Int("listen", 0, "port to listen on for incoming updates")
	f.String("peer", "", "push clipboard changes to this peer (HOST:PORT)")
	f.Float64("interval", 1.0, "poll interval in seconds for --peer monitoring")
	f.Bool("consume", true, "write received content to the local clipboard")
	f.String("clipboard", string(clip.BackendExec), "clipboard backend: exec|native|portable|none")
	f.Bool("http", false, "serve an HTTP status endpoint on the listen port")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

// serveState is what the IPC and HTTP control surfaces report on.
type serveState struct {
	reg       *registry.Registry
	listen    string
	peer      string
	backend   string
	consume   bool
	startedAt time.Time
}

func runServe(v *viper.Viper) error {
	setupLogging(v)

	listenPort := v.GetInt("listen")
	peerAddr := v.GetString("peer")
	consume := v.GetBool("consume")
	backend := clip.Backend(v.GetString("clipboard"))
	withHTTP := v.GetBool("http")

	if listenPort == 0 && peerAddr == "" {
		return errors.New("must specify --listen and/or --peer")
	}
	if listenPort != 0 {
		if err := parseListenPort(listenPort); err != nil {
			return err
		}
	}
	if peerAddr != "" {
		var err error
		if peerAddr, err = parsePeer(peerAddr); err != nil {
			return err
		}
	}
	interval, err := intervalDuration(v.GetFloat64("interval"))
	if err != nil {
		return err
	}

	accessor, err := clip.New(backend)
	if err != nil {
		return fmt.Errorf("clipboard backend: %w", err)
	}
	// One mutex over the OS clipboard: the monitor loop and every
	// connection handler share it.
	shared := clip.Serialize(accessor)

	slog.Info("clipshare starting",
		"version", Version,
		"listen", listenPort,
		"peer", peerAddr,
		"consume", consume,
		"clipboard", shared.Name(),
	)

	reg := registry.New()
	relay := event.NewRelay()
	go event.Log(relay.Subscribe(64))

	state := &serveState{
		reg:       reg,
		peer:      peerAddr,
		backend:   shared.Name(),
		consume:   consume,
		startedAt: time.Now(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	if listenPort != 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", listenPort))
		if err != nil {
			return fmt.Errorf("listen port %d: %w", listenPort, err)
		}
		state.listen = ln.Addr().String()

		srv := server.New(reg, relay, shared, consume)
		if withHTTP {
			go serveMuxed(ctx, ln, srv, state, serveErr)
		} else {
			go func() { serveErr <- srv.Serve(ctx, ln) }()
		}
	}

	if peerAddr != "" {
		mon := monitor.New(shared, relay, peerAddr, interval)
		go func() { serveErr <- mon.Run(ctx) }()
	}

	// IPC socket for status/clear CLI tools, started once state is
	// fully populated.
	if ipcLn, err := ipc.Listen(); err != nil {
		slog.Warn("IPC socket unavailable", "err", err)
	} else {
		slog.Info("IPC socket listening", "path", ipc.SocketPath())
		go serveIPC(ipcLn, state)
		defer ipcLn.Close()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		return nil
	case err := <-serveErr:
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
}

// serveMuxed shares one TCP port between the binary frame protocol and
// an HTTP/1.1 status endpoint. HTTP requests start with an ASCII method
// name, which no realistic frame header matches (it would declare a
// payload of hundreds of megabytes), so cmux can split the two by
// sniffing the first bytes.
func serveMuxed(ctx context.Context, ln net.Listener, srv *server.Server, state *serveState, serveErr chan<- error) {
	m := cmux.New(ln)
	httpLn := m.Match(cmux.HTTP1Fast())
	frameLn := m.Match(cmux.Any())

	httpSrv := &http.Server{Handler: statusHandler(state)}
	go func() { _ = httpSrv.Serve(httpLn) }()
	go func() { serveErr <- srv.Serve(ctx, frameLn) }()

	context.AfterFunc(ctx, func() { _ = httpSrv.Close() })
	if err := m.Serve(); err != nil && ctx.Err() == nil {
		slog.Error("listener mux failed", "err", err)
	}
}

// serveIPC answers control requests from CLI tools on the local socket.
func serveIPC(ln net.Listener, state *serveState) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go handleIPCConn(conn, state)
	}
}

func handleIPCConn(conn net.Conn, state *serveState) {
	defer conn.Close()
	cc := ctrl.NewConn(conn)

	msg, err := cc.ReadMsg()
	if err != nil {
		return
	}

	switch msg.Type {
	case ctrl.TypeStatus:
		_ = cc.WriteMsg(statusResponse(state))

	case ctrl.TypeClear:
		state.reg.Clear()
		slog.Info("registry cleared via ipc")
		_ = cc.WriteMsg(&ctrl.Message{Type: ctrl.TypeOK})

	default:
		_ = cc.WriteMsg(&ctrl.Message{
			Type:  ctrl.TypeError,
			Error: fmt.Sprintf("unknown control message %q", msg.Type),
		})
	}
}

func statusResponse(state *serveState) *ctrl.Message {
	sessions := state.reg.Snapshot()
	peers := make([]ctrl.Peer, len(sessions))
	for i, s := range sessions {
		peers[i] = ctrl.Peer{
			Addr:        s.Addr,
			Content:     s.Content,
			ConnectedAt: s.ConnectedAt,
			LastSeen:    s.LastSeen,
		}
	}
	return &ctrl.Message{
		Type:       ctrl.TypeStatusResponse,
		ListenAddr: state.listen,
		PeerAddr:   state.peer,
		Backend:    state.backend,
		Consume:    state.consume,
		Uptime:     time.Since(state.startedAt).Round(time.Second).String(),
		Peers:      peers,
	}
}
