// Command coordinator hosts a scripted match for one agent, for local play-testing.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"skirmish.ai/internal/config"
	"skirmish.ai/internal/coordinator"
	"skirmish.ai/internal/logging"
	"skirmish.ai/internal/session"
	"skirmish.ai/internal/transport/tcp"
	"skirmish.ai/internal/transport/ws"
)

var (
	port         int
	scenarioPath string
	turns        int
	wsAddr       string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:          "coordinator",
	Short:        "Play a YAML scenario against the first agent that connects",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&port, "port", 8080, "tcp port to listen on")
	f.StringVar(&scenarioPath, "scenario", "", "scenario YAML (required)")
	f.IntVar(&turns, "turns", 0, "turns to play (0: the scenario's max_turns)")
	f.StringVar(&wsAddr, "ws-addr", "", "also accept agents over websocket on this address, e.g. :8081")
	f.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	_ = rootCmd.MarkFlagRequired("scenario")
}

func run(cmd *cobra.Command, args []string) error {
	log, err := logging.New(logging.Options{Level: logLevel, Console: true})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sc, err := config.LoadScenario(scenarioPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, ok := tcp.Listen(port, log)
	if !ok {
		return fmt.Errorf("cannot listen on port %d", port)
	}
	defer l.Stop()

	// The first agent to connect on either transport gets the match.
	agents := make(chan session.Transport, 1)
	offer := func(t session.Transport) {
		select {
		case agents <- t:
		default:
			t.Close()
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if c := l.Accept(); c != nil {
			offer(c)
		}
		return nil
	})

	var srv *http.Server
	if wsAddr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if c, ok := ws.Accept(w, r, ws.WithLogger(log)); ok {
				offer(c)
			}
		})
		srv = &http.Server{Addr: wsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			log.Info("websocket listening", zap.String("addr", wsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	var (
		out     coordinator.Outcome
		playErr error
	)
	g.Go(func() error {
		defer func() {
			l.Stop()
			if srv != nil {
				_ = srv.Close()
			}
		}()
		var t session.Transport
		select {
		case t = <-agents:
		case <-gctx.Done():
			return nil
		}
		defer t.Close()
		m := &coordinator.Match{Scenario: sc, Turns: turns, Log: log}
		out, playErr = m.Play(gctx, t)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if playErr != nil {
		return playErr
	}

	winner := out.Winner
	if winner == "" {
		winner = "none"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "agent=%s turns=%d winner=%s rejected=%d\n", out.AgentID, out.Turns, winner, out.Rejected)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
