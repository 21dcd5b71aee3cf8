package protocol

import (
	"strconv"
	"strings"

	"skirmish.ai/internal/game"
)

// Decoding is best-effort. Truncated or garbled snapshots produce partially-populated
// records instead of errors; callers must not treat the result as validated.

func DecodePosition(doc string) game.Position {
	return game.Position{X: ExtractInt(doc, "x"), Y: ExtractInt(doc, "y")}
}

func decodeEmbeddedPosition(doc string) game.Position {
	span, ok := objectAfter(doc, "position")
	if !ok {
		return game.Position{}
	}
	return DecodePosition(span)
}

func DecodeAgent(doc string) game.Agent {
	a := game.NewAgent(ExtractString(doc, "id"), ExtractString(doc, "team"), decodeEmbeddedPosition(doc), ExtractInt(doc, "max_hp"))
	a.Facing = game.ParseDirection(ExtractString(doc, "facing"))
	a.HP = ExtractInt(doc, "hp")
	a.Alive = ExtractBool(doc, "is_alive")
	return a
}

// DecodeBase reads hp and max_hp as-is: a base without them decodes with 0/0 health,
// not game.DefaultBaseHP.
func DecodeBase(doc string) game.Base {
	b := game.NewBase(ExtractString(doc, "team"), decodeEmbeddedPosition(doc), ExtractInt(doc, "max_hp"))
	b.HP = ExtractInt(doc, "hp")
	b.Destroyed = ExtractBool(doc, "is_destroyed")
	return b
}

func DecodeConfig(doc string) game.GameConfig {
	return game.GameConfig{
		MapWidth:  ExtractInt(doc, "map_width"),
		MapHeight: ExtractInt(doc, "map_height"),
		MaxTurns:  ExtractInt(doc, "max_turns"),
	}
}

// DecodeGameState decodes a full snapshot. When the document has no config object the
// construction defaults (game.DefaultConfig) are kept.
func DecodeGameState(doc string) game.GameState {
	state := game.NewGameState()

	if span, ok := enclosedSpan(doc, "agents", '[', ']'); ok {
		parts := splitObjects(span)
		state.Agents = make([]game.Agent, 0, len(parts))
		for _, p := range parts {
			state.Agents = append(state.Agents, DecodeAgent(p))
		}
	}
	if span, ok := enclosedSpan(doc, "bases", '[', ']'); ok {
		parts := splitObjects(span)
		state.Bases = make([]game.Base, 0, len(parts))
		for _, p := range parts {
			state.Bases = append(state.Bases, DecodeBase(p))
		}
	}
	if span, ok := objectAfter(doc, "config"); ok {
		state.Config = DecodeConfig(span)
	}

	state.CurrentTurn = ExtractInt(doc, "current_turn")
	state.GameOver = ExtractBool(doc, "game_over")
	state.Winner = ExtractString(doc, KeyWinner)
	return state
}

// EncodeGameState writes a snapshot in the shape DecodeGameState reads. It is used by the
// local coordinator and by tests.
func EncodeGameState(s game.GameState) string {
	var b strings.Builder
	b.WriteString(`{"agents":[`)
	for i, a := range s.Agents {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"id":"` + Escape(a.ID) + `","team":"` + Escape(a.Team) + `",`)
		writePosition(&b, a.Position)
		b.WriteString(`,"facing":"` + a.Facing.String() + `"`)
		writeInt(&b, "hp", a.HP)
		writeInt(&b, "max_hp", a.MaxHP)
		writeBool(&b, "is_alive", a.Alive)
		b.WriteByte('}')
	}
	b.WriteString(`],"bases":[`)
	for i, base := range s.Bases {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"team":"` + Escape(base.Team) + `",`)
		writePosition(&b, base.Position)
		writeInt(&b, "hp", base.HP)
		writeInt(&b, "max_hp", base.MaxHP)
		writeBool(&b, "is_destroyed", base.Destroyed)
		b.WriteByte('}')
	}
	b.WriteString(`],"config":{"map_width":` + strconv.Itoa(s.Config.MapWidth))
	writeInt(&b, "map_height", s.Config.MapHeight)
	writeInt(&b, "max_turns", s.Config.MaxTurns)
	b.WriteString(`},"current_turn":` + strconv.Itoa(s.CurrentTurn))
	writeBool(&b, "game_over", s.GameOver)
	b.WriteString(`,"winner":"` + Escape(s.Winner) + `"}`)
	return b.String()
}

func writePosition(b *strings.Builder, p game.Position) {
	b.WriteString(`"position":{"x":` + strconv.Itoa(p.X) + `,"y":` + strconv.Itoa(p.Y) + `}`)
}

func writeInt(b *strings.Builder, key string, v int) {
	b.WriteString(`,"` + key + `":` + strconv.Itoa(v))
}

func writeBool(b *strings.Builder, key string, v bool) {
	b.WriteString(`,"` + key + `":` + strconv.FormatBool(v))
}

// Coordinator-side messages.

func PlayTurnMessage(id string, s game.GameState) string {
	return `{"id":"` + id + `","type":"` + TypePlayTurn + `","game_state":` + EncodeGameState(s) + `}`
}

func IntelMessage(id, text string) string {
	return `{"id":"` + id + `","type":"` + TypeRecieveIntel + `","message":"` + Escape(text) + `"}`
}

func GameOverMessage(id, winner string) string {
	return `{"id":"` + id + `","type":"` + TypeNotifyGameOver + `","winner":"` + Escape(winner) + `"}`
}
