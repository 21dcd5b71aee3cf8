package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"skirmish.ai/internal/game"
	"skirmish.ai/internal/session"
)

func record(turn int) session.TurnRecord {
	return session.TurnRecord{
		SessionID: "s1",
		AgentID:   "A1",
		Team:      "red",
		CallID:    "3",
		Turn:      turn,
		Rule:      "advance",
		Action:    "move_east",
		Self:      game.Position{X: turn, Y: 2},
		Health:    100,
		Snapshot:  `{"current_turn":1,"agents":[]}`,
		At:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func readAll(t *testing.T, dir string) []session.TurnRecord {
	t.Helper()
	var got []session.TurnRecord
	if err := ReadDir(dir, func(r session.TurnRecord) error {
		got = append(got, r)
		return nil
	}); err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	return got
}

func TestWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "")
	want := []session.TurnRecord{record(1), record(2), record(3)}
	for _, r := range want {
		if err := w.RecordTurn(r); err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if diff := cmp.Diff(want, readAll(t, dir)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestWriter_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "turns")
	now := time.Date(2026, 1, 2, 3, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	if err := w.RecordTurn(record(1)); err != nil {
		t.Fatalf("RecordTurn: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if err := w.RecordTurn(record(2)); err != nil {
		t.Fatalf("RecordTurn: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	files, err := Files(dir)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	if filepath.Base(files[0]) != "turns-2026-01-02-03.jsonl.zst" || filepath.Base(files[1]) != "turns-2026-01-02-04.jsonl.zst" {
		t.Fatalf("unexpected names: %v", files)
	}
	got := readAll(t, dir)
	if len(got) != 2 || got[0].Turn != 1 || got[1].Turn != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestWriter_ReopenAppends(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	for turn := 1; turn <= 2; turn++ {
		w := NewWriter(dir, "")
		w.now = func() time.Time { return now }
		if err := w.RecordTurn(record(turn)); err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
	if got := readAll(t, dir); len(got) != 2 || got[1].Turn != 2 {
		t.Fatalf("got %+v", got)
	}
}

func TestReadFile_Corrupt(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "turns-2026-01-02-03.jsonl.zst")
	if err := os.WriteFile(p, []byte("not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ReadFile(p, func(session.TurnRecord) error { return nil }); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func TestReadDir_Empty(t *testing.T) {
	if got := readAll(t, t.TempDir()); len(got) != 0 {
		t.Fatalf("expected nothing, got %d", len(got))
	}
}
