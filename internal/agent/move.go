package agent

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"skirmish.ai/internal/game"
)

func distance(a, b game.Position) float64 {
	return planar.Distance(orb.Point{float64(a.X), float64(a.Y)}, orb.Point{float64(b.X), float64(b.Y)})
}

// moveToward scores each legal neighbouring cell in North, South, East, West order and
// keeps the strictly best one. Off-map cells and cells holding an alive agent are
// illegal. Below LowHealth the score also rewards distance from every known enemy.
// With no legal cell the agent defends.
func (e *Engine) moveToward(target game.Position, s *game.GameState) game.Action {
	var (
		best      game.Direction
		bestScore float64
		found     bool
	)
	for _, d := range game.Directions {
		next := e.position.Add(d.Offset())
		if !s.Config.InBounds(next) || s.Occupied(next) {
			continue
		}
		score := -distance(next, target)
		if e.health < LowHealth {
			for _, enemy := range e.enemies {
				score += 2 * distance(next, enemy)
			}
		}
		if !found || score > bestScore {
			best, bestScore, found = d, score, true
		}
	}
	if !found {
		return game.Defend()
	}
	return game.Move(best)
}
