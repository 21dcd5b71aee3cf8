package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"skirmish.ai/internal/game"
	"skirmish.ai/internal/session"
)

func TestSQLiteIndex_SessionAndTurns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")

	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	idx.StartSession(SessionStart{SessionID: "s1", AgentID: "A1", Transport: "tcp", Remote: "127.0.0.1:8080"})
	rules := []string{"advance", "advance", "attack"}
	for i, rule := range rules {
		_ = idx.RecordTurn(session.TurnRecord{
			SessionID: "s1", AgentID: "A1", Team: "red", CallID: "7",
			Turn: i + 1, Rule: rule, Action: "move_east",
			Self: game.Position{X: i, Y: 4}, Health: 90,
		})
	}
	idx.EndSession("s1", session.Result{Reason: session.ReasonGameOver, Winner: "red", TurnsPlayed: 3, LastTurn: 3})
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer db.Close()

	var (
		turn, x, y, hp int
		action         string
	)
	row := db.QueryRow(`SELECT turn,x,y,hp,action FROM turns WHERE session_id='s1' AND seq=2`)
	if err := row.Scan(&turn, &x, &y, &hp, &action); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if turn != 3 || x != 2 || y != 4 || hp != 90 || action != "move_east" {
		t.Fatalf("row mismatch: turn=%d x=%d y=%d hp=%d action=%q", turn, x, y, hp, action)
	}

	idx, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer idx.Close()

	sessions, err := idx.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	got := sessions[0]
	if got.Reason != "game_over" || got.Winner != "red" || got.Turns != 3 || got.EndedAt == "" || got.Transport != "tcp" {
		t.Fatalf("session mismatch: %+v", got)
	}

	counts, err := idx.RuleCounts(context.Background(), "s1")
	if err != nil {
		t.Fatalf("RuleCounts: %v", err)
	}
	want := []RuleCount{{Rule: "advance", Count: 2}, {Rule: "attack", Count: 1}}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("rule counts (-want +got):\n%s", diff)
	}
	if all, err := idx.RuleCounts(context.Background(), ""); err != nil || len(all) != 2 {
		t.Fatalf("all rule counts: %v %v", all, err)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTurn}

	_ = s.RecordTurn(session.TurnRecord{Turn: 2})
	s.StartSession(SessionStart{SessionID: "s2"})
	s.EndSession("s2", session.Result{})

	st := s.Stats()
	if st.DropTotal != 3 {
		t.Fatalf("DropTotal=%d want=3", st.DropTotal)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}

func TestSQLiteIndex_ClosedIgnoresWrites(t *testing.T) {
	idx, err := OpenSQLite(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := idx.RecordTurn(session.TurnRecord{}); err != nil {
		t.Fatalf("RecordTurn after close: %v", err)
	}
	if err := idx.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error")
	}
}
