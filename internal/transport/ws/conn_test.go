package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skirmish.ai/internal/transport/tcp"
)

func echoServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := Accept(w, r)
		if !ok {
			return
		}
		defer c.Close()
		for {
			msg := c.Receive()
			if !c.Connected() {
				return
			}
			if !c.Send("echo:" + msg) {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestConn_Echo(t *testing.T) {
	c, ok := Dial(context.Background(), echoServer(t))
	if !ok {
		t.Fatalf("Dial failed")
	}
	defer c.Close()

	for _, msg := range []string{"", `{"id":"1","type":"register_agent","agent_id":"A1"}`, strings.Repeat("z", 100000)} {
		if !c.Send(msg) {
			t.Fatalf("Send failed")
		}
		if got := c.Receive(); got != "echo:"+msg {
			t.Fatalf("echo mismatch: got %d bytes want %d", len(got), len(msg)+5)
		}
	}
}

func TestConn_OversizedMessageCloses(t *testing.T) {
	c, ok := Dial(context.Background(), echoServer(t))
	if !ok {
		t.Fatalf("Dial failed")
	}
	defer c.Close()

	// The echo reply exceeds the client's read limit.
	if !c.Send(strings.Repeat("y", tcp.MaxFrameSize)) {
		t.Fatalf("Send failed")
	}
	if got := c.Receive(); got != "" {
		t.Fatalf("expected empty message")
	}
	if c.Connected() {
		t.Fatalf("expected connection closed after oversized message")
	}
}

func TestDial_Failure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	srv.Close()
	if c, ok := Dial(context.Background(), url); ok || c != nil {
		t.Fatalf("expected dial failure")
	}
}
