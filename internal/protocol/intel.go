package protocol

import (
	"strings"

	"skirmish.ai/internal/game"
)

const intelEnemyPrefix = "ENEMY:"

// ParseIntel reads an out-of-band "ENEMY:x,y" notification.
func ParseIntel(text string) (game.Position, bool) {
	if !strings.HasPrefix(text, intelEnemyPrefix) {
		return game.Position{}, false
	}
	_, coords, _ := strings.Cut(text, ":")
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return game.Position{}, false
	}
	x, okx := leadingInt(xs)
	y, oky := leadingInt(ys)
	if !okx || !oky {
		return game.Position{}, false
	}
	return game.Position{X: x, Y: y}, true
}
