package protocol

import (
	"strings"

	"skirmish.ai/internal/game"
)

// Outbound messages are built by direct string construction. Field values are inserted
// verbatim; callers pass known-safe tokens or run them through Escape first.

func VoidResponse(id string) string {
	return `{"id":"` + id + `","status":"ok"}`
}

func TurnResponse(id, action string) string {
	return `{"id":"` + id + `","action":"` + action + `"}`
}

func RegisterMessage(id, agentID string) string {
	return `{"id":"` + id + `","type":"` + TypeRegisterAgent + `","agent_id":"` + agentID + `"}`
}

// Escape replaces quote, backslash, \n, \r and \t with their two-character escapes.
// All other bytes pass through unchanged.
func Escape(s string) string {
	if !strings.ContainsAny(s, "\"\\\n\r\t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Unescape reverses Escape. Unknown escape sequences are kept as written.
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

const sendMessagePrefix = "send_message:"

// EncodeAction renders an action as the token carried inside a turn response.
// Defend still carries its direction.
func EncodeAction(a game.Action) string {
	switch a.Kind {
	case game.ActionMove:
		return "move_" + a.Direction.String()
	case game.ActionAttack:
		return "attack_" + a.Direction.String()
	case game.ActionSendMessage:
		return sendMessagePrefix + a.Message
	default:
		return "defend_" + a.Direction.String()
	}
}

// DecodeAction parses a token produced by EncodeAction.
func DecodeAction(s string) (game.Action, bool) {
	if strings.HasPrefix(s, sendMessagePrefix) {
		return game.SendMessage(s[len(sendMessagePrefix):]), true
	}
	kind, dir, ok := strings.Cut(s, "_")
	if !ok {
		return game.Defend(), false
	}
	switch dir {
	case "north", "south", "east", "west":
	default:
		return game.Defend(), false
	}
	d := game.ParseDirection(dir)
	switch kind {
	case "move":
		return game.Move(d), true
	case "attack":
		return game.Attack(d), true
	case "defend":
		return game.Action{Kind: game.ActionDefend, Direction: d}, true
	default:
		return game.Defend(), false
	}
}
