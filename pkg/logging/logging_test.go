package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"DEBUG", LevelDebug},
		{"Warn", LevelWarn},
		{"", LevelInfo},
		{"trace", LevelInfo},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"", FormatText},
		{"xml", FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.expected {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	logger.Info("line emitted", "status", 200)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["msg"] != "line emitted" {
		t.Errorf("msg = %v, want %q", record["msg"], "line emitted")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info record should be dropped at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn record should be kept")
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic, must not write anywhere visible.
	Nop().Info("discarded")
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	))

	logger.Info("fan out")

	if !strings.Contains(a.String(), "fan out") {
		t.Error("first handler did not receive the record")
	}
	if !strings.Contains(b.String(), "fan out") {
		t.Error("second handler did not receive the record")
	}
}

func TestMultiHandlerEnabled(t *testing.T) {
	quiet := slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError})
	chatty := slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelDebug})

	h := NewMultiHandler(quiet, chatty)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("multi handler should be enabled when any handler is")
	}

	h = NewMultiHandler(quiet)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("multi handler should be disabled when no handler is")
	}
}

func TestLokiHandlerPush(t *testing.T) {
	var got lokiPush
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad push body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	h := NewLokiHandler(srv.URL, WithLokiLabels(map[string]string{"env": "test"}), WithLokiBatchSize(1000))
	defer func() { _ = h.Close() }()

	logger := slog.New(h)
	logger.Info(`10.0.0.7 "GET / HTTP/1.1" 200 12`, "status", 200)

	if err := h.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	if len(got.Streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(got.Streams))
	}
	stream := got.Streams[0]
	if stream.Stream["job"] != "accesslog" || stream.Stream["env"] != "test" {
		t.Errorf("unexpected stream labels: %v", stream.Stream)
	}
	if len(stream.Values) != 1 {
		t.Fatalf("expected 1 value, got %d", len(stream.Values))
	}
	if !strings.Contains(stream.Values[0][1], "GET / HTTP/1.1") {
		t.Errorf("pushed line missing access line: %s", stream.Values[0][1])
	}
}
