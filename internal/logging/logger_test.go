package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")
	l, err := New(Options{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("turn decided", zap.Int("turn", 3), zap.String("action", "move_north"))
	_ = l.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, "DEBUG") || !strings.Contains(line, "turn decided") || !strings.Contains(line, "move_north") {
		t.Fatalf("unexpected log line: %q", line)
	}
}

func TestNew_Nop(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected nop logger")
	}
}

func TestParseLevel(t *testing.T) {
	if l, err := ParseLevel(""); err != nil || l != zapcore.InfoLevel {
		t.Fatalf("empty: %v %v", l, err)
	}
	if l, err := ParseLevel("WARN"); err != nil || l != zapcore.WarnLevel {
		t.Fatalf("WARN: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
