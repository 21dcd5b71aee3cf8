// Package session runs the synchronous turn loop between one agent and a coordinator.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"skirmish.ai/internal/agent"
	"skirmish.ai/internal/game"
	"skirmish.ai/internal/logging"
	"skirmish.ai/internal/protocol"
)

// Transport is a framed, blocking, bidirectional message stream. tcp.Conn and ws.Conn
// both satisfy it.
type Transport interface {
	Send(msg string) bool
	Receive() string
	Connected() bool
	Close()
}

// TurnRecord describes one decided turn.
type TurnRecord struct {
	SessionID string        `json:"session_id"`
	AgentID   string        `json:"agent_id"`
	Team      string        `json:"team"`
	CallID    string        `json:"call_id"`
	Turn      int           `json:"turn"`
	Rule      string        `json:"rule"`
	Action    string        `json:"action"`
	Self      game.Position `json:"self"`
	Health    int           `json:"health"`
	Enemies   int           `json:"enemies"`
	Allies    int           `json:"allies"`
	Snapshot  string        `json:"snapshot"`
	At        time.Time     `json:"at"`
}

// Recorder observes decided turns. Errors are logged and never stop the loop.
type Recorder interface {
	RecordTurn(TurnRecord) error
}

type Options struct {
	SessionID string
	AgentID   string
	CallID    string
	Logger    *zap.Logger
	Recorders []Recorder
}

const (
	ReasonGameOver     = "game_over"
	ReasonDisconnected = "disconnected"
	ReasonCanceled     = "canceled"
)

type Result struct {
	Reason      string
	Winner      string
	TurnsPlayed int
	LastTurn    int
	IntelCount  int
}

var (
	ErrRegisterFailed = errors.New("register failed")
	ErrSendFailed     = errors.New("send failed")
)

// Run registers the agent and then answers coordinator messages until the game ends,
// the stream closes, or ctx is canceled. Canceling ctx closes the transport.
func Run(ctx context.Context, t Transport, eng *agent.Engine, opts Options) (Result, error) {
	log := logging.OrNop(opts.Logger).With(zap.String("agent_id", opts.AgentID))
	var res Result

	stop := context.AfterFunc(ctx, t.Close)
	defer stop()

	if !t.Send(protocol.RegisterMessage(opts.CallID, opts.AgentID)) {
		return res, fmt.Errorf("agent %s: %w", opts.AgentID, ErrRegisterFailed)
	}
	log.Info("registered", zap.String("call_id", opts.CallID))

	for {
		msg := t.Receive()
		if msg == "" && !t.Connected() {
			if ctx.Err() != nil {
				res.Reason = ReasonCanceled
				return res, ctx.Err()
			}
			res.Reason = ReasonDisconnected
			log.Info("stream closed", zap.Int("turns", res.TurnsPlayed))
			return res, nil
		}

		id := protocol.MessageID(msg)
		switch typ := protocol.MessageType(msg); typ {
		case protocol.TypeRecieveIntel:
			if text := protocol.ExtractString(msg, protocol.KeyMessage); text != "" {
				if eng.ReceiveMessage(text) {
					res.IntelCount++
				}
				log.Debug("intel", zap.String("text", text))
			}
			if !t.Send(protocol.VoidResponse(id)) {
				return res, fmt.Errorf("intel reply %s: %w", id, ErrSendFailed)
			}

		case protocol.TypePlayTurn:
			state := protocol.DecodeGameState(msg)
			eng.Observe(state)
			d := eng.Decide(state)
			action := protocol.EncodeAction(d.Action)
			if !t.Send(protocol.TurnResponse(id, action)) {
				return res, fmt.Errorf("turn %d reply: %w", state.CurrentTurn, ErrSendFailed)
			}
			res.TurnsPlayed++
			res.LastTurn = state.CurrentTurn
			log.Debug("turn",
				zap.Int("turn", state.CurrentTurn),
				zap.String("rule", d.Rule),
				zap.String("action", action),
				zap.Int("hp", eng.Health()))
			record(log, opts, TurnRecord{
				SessionID: opts.SessionID,
				AgentID:   eng.ID(),
				Team:      eng.Team(),
				CallID:    id,
				Turn:      state.CurrentTurn,
				Rule:      d.Rule,
				Action:    action,
				Self:      eng.Position(),
				Health:    eng.Health(),
				Enemies:   len(eng.KnownEnemies()),
				Allies:    len(eng.KnownAllies()),
				Snapshot:  protocol.EncodeGameState(state),
				At:        time.Now().UTC(),
			})

		case protocol.TypeNotifyGameOver:
			res.Reason = ReasonGameOver
			res.Winner = protocol.ExtractString(msg, protocol.KeyWinner)
			log.Info("game over", zap.String("winner", res.Winner), zap.Int("turns", res.TurnsPlayed))
			return res, nil

		default:
			log.Debug("ignoring message", zap.String("type", typ), zap.Int("bytes", len(msg)))
		}
	}
}

func record(log *zap.Logger, opts Options, r TurnRecord) {
	for _, rec := range opts.Recorders {
		if err := rec.RecordTurn(r); err != nil {
			log.Warn("record turn", zap.Int("turn", r.Turn), zap.Error(err))
		}
	}
}
