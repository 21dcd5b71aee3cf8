// Package coordinator drives a scripted match against one connected agent. Only moves
// are resolved; attacks and defends are acknowledged and otherwise ignored.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"skirmish.ai/internal/config"
	"skirmish.ai/internal/game"
	"skirmish.ai/internal/logging"
	"skirmish.ai/internal/protocol"
	"skirmish.ai/internal/session"
)

var (
	ErrNoRegister = errors.New("agent did not register")
	ErrNoReply    = errors.New("agent stopped replying")
)

// Outcome summarizes a finished match.
type Outcome struct {
	AgentID  string
	Turns    int
	Winner   string
	Final    game.GameState
	Actions  []string
	Rejected int
}

type Match struct {
	Scenario config.Scenario
	Turns    int
	Log      *zap.Logger

	nextID int
}

func (m *Match) callID() string {
	m.nextID++
	return strconv.Itoa(m.nextID)
}

// Play reads the agent's register message, acknowledges it, then plays up to Turns turns
// (bounded by the scenario's max_turns) and always finishes with notify_game_over when the
// stream is still up.
func (m *Match) Play(ctx context.Context, t session.Transport) (Outcome, error) {
	log := logging.OrNop(m.Log)
	stop := context.AfterFunc(ctx, t.Close)
	defer stop()

	var out Outcome
	reg := t.Receive()
	if protocol.MessageType(reg) != protocol.TypeRegisterAgent {
		return out, fmt.Errorf("%w: got %q", ErrNoRegister, reg)
	}
	out.AgentID = protocol.ExtractString(reg, protocol.KeyAgentID)
	if id, err := strconv.Atoi(protocol.MessageID(reg)); err == nil {
		m.nextID = id
	}
	if !t.Send(protocol.VoidResponse(protocol.MessageID(reg))) {
		return out, ErrNoReply
	}
	log.Info("agent registered", zap.String("agent_id", out.AgentID))

	state := m.Scenario.State()
	turns := m.Turns
	if limit := state.Config.MaxTurns; limit > 0 && (turns <= 0 || turns > limit) {
		turns = limit
	}

	for turn := 1; turn <= turns; turn++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		for _, in := range m.Scenario.Intel {
			if in.Turn != turn {
				continue
			}
			if err := m.roundTrip(t, protocol.IntelMessage(m.callID(), in.Text)); err != nil {
				return out, err
			}
		}

		state.CurrentTurn = turn
		id := m.callID()
		if !t.Send(protocol.PlayTurnMessage(id, state)) {
			return out, ErrNoReply
		}
		reply := t.Receive()
		if reply == "" && !t.Connected() {
			return out, fmt.Errorf("turn %d: %w", turn, ErrNoReply)
		}
		token := protocol.ExtractString(reply, protocol.KeyAction)
		out.Actions = append(out.Actions, token)
		out.Turns = turn

		action, ok := protocol.DecodeAction(token)
		if !ok || !Apply(&state, out.AgentID, action) {
			out.Rejected++
		}
		log.Debug("turn played", zap.Int("turn", turn), zap.String("action", token), zap.Bool("valid", ok))

		if winner, done := Winner(&state, out.AgentID); done {
			out.Winner = winner
			break
		}
	}

	state.GameOver = true
	state.Winner = out.Winner
	out.Final = state
	if !t.Send(protocol.GameOverMessage(m.callID(), out.Winner)) {
		return out, ErrNoReply
	}
	log.Info("match over", zap.Int("turns", out.Turns), zap.String("winner", out.Winner), zap.Int("rejected", out.Rejected))
	return out, nil
}

func (m *Match) roundTrip(t session.Transport, msg string) error {
	if !t.Send(msg) {
		return ErrNoReply
	}
	if t.Receive() == "" && !t.Connected() {
		return ErrNoReply
	}
	return nil
}

// Apply resolves a move for agentID. It reports false for actions it refuses: moves off
// the map or onto an occupied cell, and actions from unknown or dead agents. Non-move
// actions only turn the agent.
func Apply(s *game.GameState, agentID string, a game.Action) bool {
	i := agentIndex(s, agentID)
	if i < 0 || !s.Agents[i].Alive {
		return false
	}
	self := &s.Agents[i]
	switch a.Kind {
	case game.ActionMove:
		next := self.Position.Add(a.Direction.Offset())
		if !s.Config.InBounds(next) || s.Occupied(next) {
			return false
		}
		self.Position = next
		self.Facing = a.Direction
	case game.ActionAttack, game.ActionDefend:
		self.Facing = a.Direction
	}
	return true
}

// Winner ends the match when agentID stands next to, or on, a base of another team that
// is still standing.
func Winner(s *game.GameState, agentID string) (string, bool) {
	self, ok := s.FindAgent(agentID)
	if !ok {
		return "", false
	}
	for _, b := range s.Bases {
		if b.Team == self.Team || b.Destroyed {
			continue
		}
		dx, dy := b.Position.X-self.Position.X, b.Position.Y-self.Position.Y
		if dx*dx+dy*dy <= 1 {
			return self.Team, true
		}
	}
	return "", false
}

func agentIndex(s *game.GameState, id string) int {
	for i := range s.Agents {
		if s.Agents[i].ID == id {
			return i
		}
	}
	return -1
}
