package protocol

import (
	"testing"

	"skirmish.ai/internal/game"
)

func TestOutboundShapes(t *testing.T) {
	if got := VoidResponse("3"); got != `{"id":"3","status":"ok"}` {
		t.Fatalf("void: %s", got)
	}
	if got := TurnResponse("4", "move_north"); got != `{"id":"4","action":"move_north"}` {
		t.Fatalf("turn: %s", got)
	}
	if got := RegisterMessage("1", "A1"); got != `{"id":"1","type":"register_agent","agent_id":"A1"}` {
		t.Fatalf("register: %s", got)
	}
}

func TestEscape(t *testing.T) {
	if got := Escape("a\"b\\c\nd\re\tf/é"); got != `a\"b\\c\nd\re\tf/é` {
		t.Fatalf("escape: %q", got)
	}
	if got := Unescape(`keep A and \x`); got != `keep A and \x` {
		t.Fatalf("unknown escapes should pass through: %q", got)
	}
}

func TestEncodeAction(t *testing.T) {
	cases := []struct {
		a    game.Action
		want string
	}{
		{game.Move(game.East), "move_east"},
		{game.Attack(game.South), "attack_south"},
		{game.Defend(), "defend_north"},
		{game.Action{Kind: game.ActionDefend, Direction: game.West}, "defend_west"},
		{game.SendMessage("ENEMY:3,4"), "send_message:ENEMY:3,4"},
	}
	for _, c := range cases {
		got := EncodeAction(c.a)
		if got != c.want {
			t.Fatalf("encode %+v: got %q want %q", c.a, got, c.want)
		}
		back, ok := DecodeAction(got)
		if !ok || back != c.a {
			t.Fatalf("decode %q: got %+v ok=%v", got, back, ok)
		}
	}
	for _, bad := range []string{"", "move", "move_up", "jump_north"} {
		if _, ok := DecodeAction(bad); ok {
			t.Fatalf("expected %q rejected", bad)
		}
	}
}

func TestRouting(t *testing.T) {
	msg := IntelMessage("5", "ENEMY:1,2")
	if MessageType(msg) != TypeRecieveIntel || MessageID(msg) != "5" {
		t.Fatalf("routing: type=%q id=%q", MessageType(msg), MessageID(msg))
	}
	if ExtractString(msg, KeyMessage) != "ENEMY:1,2" {
		t.Fatalf("message body: %q", ExtractString(msg, KeyMessage))
	}
	over := GameOverMessage("6", "red")
	if MessageType(over) != TypeNotifyGameOver || ExtractString(over, KeyWinner) != "red" {
		t.Fatalf("game over: %s", over)
	}
}

func TestParseIntel(t *testing.T) {
	p, ok := ParseIntel("ENEMY:7,-2")
	if !ok || p != (game.Position{X: 7, Y: -2}) {
		t.Fatalf("got %+v ok=%v", p, ok)
	}
	for _, bad := range []string{"", "ALLY:1,2", "ENEMY:", "ENEMY:1", "ENEMY:a,b", "enemy:1,2"} {
		if _, ok := ParseIntel(bad); ok {
			t.Fatalf("expected %q rejected", bad)
		}
	}
}
