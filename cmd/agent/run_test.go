package main

import (
	"errors"
	"testing"

	"skirmish.ai/internal/config"
)

func TestApplyArgs(t *testing.T) {
	c, err := applyArgs(config.Defaults(), nil)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if c.Host != "127.0.0.1" || c.Port != 8080 || c.AgentID != "backup_agent_id" || c.CallID != "1" {
		t.Fatalf("defaults: %+v", c)
	}

	c, err = applyArgs(config.Defaults(), []string{"10.0.0.5", "9001", "scout"})
	if err != nil {
		t.Fatalf("applyArgs: %v", err)
	}
	if c.Host != "10.0.0.5" || c.Port != 9001 || c.AgentID != "scout" {
		t.Fatalf("positional: %+v", c)
	}

	if _, err := applyArgs(config.Defaults(), []string{"h", "http"}); err == nil {
		t.Fatalf("expected error for non-numeric port")
	}
	if _, err := applyArgs(config.Defaults(), []string{"h", "0"}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for port 0, got %v", err)
	}
}
