// Package agent holds the decision engine: per-agent memory carried across turns and a
// fixed, ordered list of rules that turns one snapshot into one action.
package agent

import (
	"skirmish.ai/internal/game"
	"skirmish.ai/internal/protocol"
)

const (
	// LowHealth is the health below which the defensive rules activate.
	LowHealth = 30
	// AttackRange is the distance within which an enemy can be attacked.
	AttackRange = 1
	// DefendRange is the distance within which a low-health agent holds position.
	DefendRange = 2

	// DefaultTeam is assumed until the agent has seen itself in a snapshot.
	DefaultTeam = "default_team"
)

// Engine is not safe for concurrent use; one Engine drives one agent.
type Engine struct {
	selfID      string
	team        string
	initialized bool

	position game.Position
	health   int

	enemies []game.Position
	allies  []game.Position

	lastKnownEnemy game.Position
	hasIntel       bool

	rules []Rule
}

type EngineOption func(*Engine)

// WithRules replaces the default rule ladder. Rules are tried in order.
func WithRules(rules ...Rule) EngineOption {
	return func(e *Engine) { e.rules = append([]Rule(nil), rules...) }
}

func New(selfID string, opts ...EngineOption) *Engine {
	e := &Engine{
		selfID: selfID,
		team:   DefaultTeam,
		health: game.DefaultAgentHP,
		rules:  DefaultRules(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Initialize fixes the agent's identity.
func (e *Engine) Initialize(id, team string) {
	e.selfID = id
	e.team = team
	e.initialized = true
}

// Observe adopts the team of the snapshot entry whose id matches self, the first time
// such an entry is seen. Later snapshots never change the identity.
func (e *Engine) Observe(s game.GameState) {
	if e.initialized {
		return
	}
	if a, ok := s.FindAgent(e.selfID); ok {
		e.Initialize(e.selfID, a.Team)
	}
}

// Decision is an action plus the rule that produced it.
type Decision struct {
	Action game.Action
	Rule   string
}

// ProcessTurn updates memory from the snapshot and returns this turn's action.
func (e *Engine) ProcessTurn(s game.GameState) game.Action {
	return e.Decide(s).Action
}

func (e *Engine) Decide(s game.GameState) Decision {
	e.updateSelf(s)
	e.updateMemory(s)
	for _, r := range e.rules {
		if a, ok := r.Apply(e, &s); ok {
			return Decision{Action: a, Rule: r.Name}
		}
	}
	return Decision{Action: game.Defend(), Rule: "none"}
}

// ReceiveMessage applies an out-of-band "ENEMY:x,y" notification. Anything else is ignored.
func (e *Engine) ReceiveMessage(text string) bool {
	p, ok := protocol.ParseIntel(text)
	if !ok {
		return false
	}
	e.lastKnownEnemy = p
	e.hasIntel = true
	return true
}

// updateSelf keeps the previous position and health when self is absent or dead.
func (e *Engine) updateSelf(s game.GameState) {
	for _, a := range s.Agents {
		if a.ID == e.selfID && a.Alive {
			e.position = a.Position
			e.health = a.HP
			return
		}
	}
}

func (e *Engine) updateMemory(s game.GameState) {
	e.enemies = e.enemies[:0]
	e.allies = e.allies[:0]
	for _, a := range s.Agents {
		if !a.Alive || a.ID == e.selfID {
			continue
		}
		if a.Team != e.team {
			e.enemies = append(e.enemies, a.Position)
		} else {
			e.allies = append(e.allies, a.Position)
		}
	}
}

func (e *Engine) ID() string              { return e.selfID }
func (e *Engine) Team() string            { return e.team }
func (e *Engine) Initialized() bool       { return e.initialized }
func (e *Engine) Position() game.Position { return e.position }
func (e *Engine) Health() int             { return e.health }

func (e *Engine) KnownEnemies() []game.Position { return append([]game.Position(nil), e.enemies...) }
func (e *Engine) KnownAllies() []game.Position  { return append([]game.Position(nil), e.allies...) }

// LastKnownEnemy is the most recent intel position, if any arrived.
func (e *Engine) LastKnownEnemy() (game.Position, bool) { return e.lastKnownEnemy, e.hasIntel }
