package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"skirmish.ai/internal/agent"
	"skirmish.ai/internal/config"
	"skirmish.ai/internal/persistence/indexdb"
	"skirmish.ai/internal/persistence/journal"
	"skirmish.ai/internal/session"
	"skirmish.ai/internal/transport/tcp"
	"skirmish.ai/internal/transport/ws"
)

var runCmd = &cobra.Command{
	Use:   "run [host] [port] [agent_id]",
	Short: "Connect to a coordinator and play",
	Long: `Connect to a coordinator, register, and answer intel and turn requests until the
coordinator ends the game or closes the stream.

Positional arguments default to 127.0.0.1, 8080 and backup_agent_id, or to the values
in --config.`,
	Args: cobra.MaximumNArgs(3),
	RunE: runAgent,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&cfg.CallID, "call-id", cfg.CallID, "id of the register call")
	f.StringVar(&cfg.Transport, "transport", cfg.Transport, "tcp or ws")
	f.StringVar(&cfg.URL, "url", cfg.URL, "websocket url for --transport ws")
	f.StringVar(&cfg.JournalDir, "journal-dir", cfg.JournalDir, "directory for the turn journal (optional)")
	f.DurationVar(&cfg.ReadTimeout, "read-timeout", cfg.ReadTimeout, "per-message read timeout (0: none)")
}

func applyArgs(c config.Config, args []string) (config.Config, error) {
	if len(args) > 0 {
		c.Host = args[0]
	}
	if len(args) > 1 {
		port, err := strconv.Atoi(args[1])
		if err != nil {
			return c, fmt.Errorf("port %q: %w", args[1], err)
		}
		c.Port = port
	}
	if len(args) > 2 {
		c.AgentID = args[2]
	}
	return c, c.Validate()
}

func dial(ctx context.Context, c config.Config) (session.Transport, string, bool) {
	if c.Transport == config.TransportWS {
		conn, ok := ws.Dial(ctx, c.URL, ws.WithLogger(logger), ws.WithReadTimeout(c.ReadTimeout))
		return conn, c.URL, ok
	}
	conn, ok := tcp.Dial(ctx, c.Host, c.Port, tcp.WithLogger(logger), tcp.WithReadTimeout(c.ReadTimeout))
	if !ok {
		return nil, "", false
	}
	return conn, conn.RemoteAddr(), true
}

func runAgent(cmd *cobra.Command, args []string) error {
	c, err := applyArgs(cfg, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionID := uuid.NewString()
	log := logger.With(zap.String("session_id", sessionID))

	var recorders []session.Recorder
	if c.JournalDir != "" {
		jw := journal.NewWriter(c.JournalDir, journal.DefaultPrefix)
		defer func() {
			if err := jw.Close(); err != nil {
				log.Warn("close journal", zap.Error(err))
			}
		}()
		recorders = append(recorders, jw)
	}
	var idx *indexdb.SQLiteIndex
	if c.DB != "" {
		idx, err = indexdb.OpenSQLite(c.DB)
		if err != nil {
			return fmt.Errorf("open index: %w", err)
		}
		defer func() {
			if st := idx.Stats(); st.DropTotal > 0 {
				log.Warn("index dropped rows", zap.Uint64("dropped", st.DropTotal))
			}
			_ = idx.Close()
		}()
		recorders = append(recorders, idx)
	}

	t, remote, ok := dial(ctx, c)
	if !ok {
		return fmt.Errorf("failed to connect to coordinator (%s)", c.Transport)
	}
	defer t.Close()
	log.Info("connected", zap.String("transport", c.Transport), zap.String("remote", remote), zap.String("agent_id", c.AgentID))
	idx.StartSession(indexdb.SessionStart{SessionID: sessionID, AgentID: c.AgentID, Transport: c.Transport, Remote: remote})

	res, err := session.Run(ctx, t, agent.New(c.AgentID), session.Options{
		SessionID: sessionID,
		AgentID:   c.AgentID,
		CallID:    c.CallID,
		Logger:    log,
		Recorders: recorders,
	})
	idx.EndSession(sessionID, res)
	if err != nil && res.Reason != session.ReasonCanceled {
		return err
	}
	log.Info("session finished",
		zap.String("reason", res.Reason),
		zap.String("winner", res.Winner),
		zap.Int("turns", res.TurnsPlayed),
		zap.Int("intel", res.IntelCount))
	return nil
}
