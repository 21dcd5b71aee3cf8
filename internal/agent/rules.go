package agent

import (
	"skirmish.ai/internal/game"
	"skirmish.ai/internal/mathx"
)

// Rule is one step of the priority ladder. Apply returns ok=false to pass the turn to
// the next rule.
type Rule struct {
	Name  string
	Apply func(e *Engine, s *game.GameState) (game.Action, bool)
}

// DefaultRules is the fixed policy: attack, then low health, then seek, then advance.
// The last rule always fires.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "attack", Apply: attackRule},
		{Name: "low_health", Apply: lowHealthRule},
		{Name: "seek_enemy", Apply: seekEnemyRule},
		{Name: "advance", Apply: advanceRule},
	}
}

func attackRule(e *Engine, _ *game.GameState) (game.Action, bool) {
	for _, p := range e.enemies {
		if distance(e.position, p) <= AttackRange {
			return game.Attack(facingToward(e.position, p)), true
		}
	}
	return game.Action{}, false
}

func lowHealthRule(e *Engine, s *game.GameState) (game.Action, bool) {
	if e.health >= LowHealth {
		return game.Action{}, false
	}
	if nearest, ok := e.nearestEnemy(); ok && distance(e.position, nearest) <= DefendRange {
		return game.Defend(), true
	}
	return e.moveToward(ownBase(s, e.team), s), true
}

func seekEnemyRule(e *Engine, s *game.GameState) (game.Action, bool) {
	nearest, ok := e.nearestEnemy()
	if !ok {
		return game.Action{}, false
	}
	return e.moveToward(nearest, s), true
}

func advanceRule(e *Engine, s *game.GameState) (game.Action, bool) {
	return e.moveToward(enemyBase(s, e.team), s), true
}

// facingToward picks the axis with the larger offset. East/West wins only when |dx| is
// strictly larger, so diagonal ties and dx == 0 face North/South.
func facingToward(from, to game.Position) game.Direction {
	dx := to.X - from.X
	dy := to.Y - from.Y
	if mathx.AbsInt(dx) > mathx.AbsInt(dy) {
		if dx > 0 {
			return game.East
		}
		return game.West
	}
	if dy > 0 {
		return game.South
	}
	return game.North
}

// nearestEnemy returns the closest known enemy; the earliest sighting wins ties.
func (e *Engine) nearestEnemy() (game.Position, bool) {
	if len(e.enemies) == 0 {
		return e.position, false
	}
	best := e.enemies[0]
	bestDist := distance(e.position, best)
	for _, p := range e.enemies[1:] {
		if d := distance(e.position, p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, true
}

// ownBase is the first base of team, or the origin.
func ownBase(s *game.GameState, team string) game.Position {
	for _, b := range s.Bases {
		if b.Team == team {
			return b.Position
		}
	}
	return game.Position{}
}

// enemyBase is the first base of another team, or the map's far corner.
func enemyBase(s *game.GameState, team string) game.Position {
	for _, b := range s.Bases {
		if b.Team != team {
			return b.Position
		}
	}
	return game.Position{X: s.Config.MapWidth - 1, Y: s.Config.MapHeight - 1}
}
