package game

import "testing"

func TestDirection_OffsetOppositeString(t *testing.T) {
	for _, d := range Directions {
		off := d.Offset()
		back := d.Opposite().Offset()
		if off.Add(back) != (Position{}) {
			t.Fatalf("%s: offset %+v and opposite %+v do not cancel", d, off, back)
		}
		if d.Opposite().Opposite() != d {
			t.Fatalf("%s: opposite is not an involution", d)
		}
		if ParseDirection(d.String()) != d {
			t.Fatalf("%s: string token does not round-trip", d)
		}
	}
	if ParseDirection("up") != North {
		t.Fatalf("unknown token should default to north")
	}
}

func TestGameConfig_InBounds(t *testing.T) {
	c := DefaultConfig()
	if !c.InBounds(Position{0, 0}) || !c.InBounds(Position{19, 19}) {
		t.Fatalf("corners should be in bounds")
	}
	for _, p := range []Position{{-1, 0}, {0, -1}, {20, 0}, {0, 20}} {
		if c.InBounds(p) {
			t.Fatalf("%+v should be out of bounds", p)
		}
	}
}

func TestGameState_Occupied(t *testing.T) {
	dead := NewAgent("d", "red", Position{1, 1}, 100)
	dead.Alive = false
	s := NewGameState()
	s.Agents = []Agent{NewAgent("a", "red", Position{2, 2}, 100), dead}
	if !s.Occupied(Position{2, 2}) {
		t.Fatalf("alive agent cell should be occupied")
	}
	if s.Occupied(Position{1, 1}) {
		t.Fatalf("dead agents do not block cells")
	}
}

func TestNewBase_Defaults(t *testing.T) {
	b := NewBase("blue", Position{3, 4}, DefaultBaseHP)
	if b.HP != 500 || b.MaxHP != 500 || b.Destroyed {
		t.Fatalf("unexpected base: %+v", b)
	}
}
