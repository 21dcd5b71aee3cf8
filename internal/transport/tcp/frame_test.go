package tcp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFrame_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 4, 1000, MaxFrameSize} {
		payload := bytes.Repeat([]byte{'a' + byte(n%26)}, n)
		var buf bytes.Buffer
		if err := WriteFrame(&buf, payload); err != nil {
			t.Fatalf("n=%d WriteFrame: %v", n, err)
		}
		if buf.Len() != n+headerSize {
			t.Fatalf("n=%d: wrote %d bytes", n, buf.Len())
		}
		if got := binary.BigEndian.Uint32(buf.Bytes()[:4]); got != uint32(n) {
			t.Fatalf("n=%d: header says %d", n, got)
		}
		out, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("n=%d ReadFrame: %v", n, err)
		}
		if !bytes.Equal(out, payload) {
			t.Fatalf("n=%d: payload mismatch", n)
		}
	}
}

func TestReadFrame_TooLargeLeavesPayload(t *testing.T) {
	var buf bytes.Buffer
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], MaxFrameSize+1)
	buf.Write(hdr[:])
	buf.WriteString("unread")

	_, err := ReadFrame(&buf)
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}
	if buf.String() != "unread" {
		t.Fatalf("payload should be left unread, remaining %q", buf.String())
	}
}

func TestReadFrame_Short(t *testing.T) {
	if _, err := ReadFrame(strings.NewReader("\x00\x00")); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("short header: %v", err)
	}
	if _, err := ReadFrame(strings.NewReader("\x00\x00\x00\x05abc")); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("short payload: %v", err)
	}
	if _, err := ReadFrame(strings.NewReader("")); !errors.Is(err, io.EOF) {
		t.Fatalf("empty stream: %v", err)
	}
}

// trickleWriter accepts at most two bytes per call.
type trickleWriter struct{ bytes.Buffer }

func (w *trickleWriter) Write(p []byte) (int, error) {
	if len(p) > 2 {
		p = p[:2]
	}
	return w.Buffer.Write(p)
}

func TestWriteFrame_RetriesPartialWrites(t *testing.T) {
	var w trickleWriter
	if err := WriteFrame(&w, []byte("hello world")); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	out, err := ReadFrame(&w.Buffer)
	if err != nil || string(out) != "hello world" {
		t.Fatalf("got %q err=%v", out, err)
	}
}
