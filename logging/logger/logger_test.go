package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ncobase/screener/ctxutil"
	"github.com/sirupsen/logrus"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := &Logger{Logger: logrus.New()}
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(buf)
	l.SetLevel(logrus.DebugLevel)
	return l
}

func TestEntryCarriesTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.SetVersion("1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Infof(ctx, "compiled %d formulas", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log entry: %v", err)
	}
	if entry["msg"] != "compiled 3 formulas" {
		t.Errorf("Unexpected message: %v", entry["msg"])
	}
	if entry["trace_id"] != "trace-1" {
		t.Errorf("Unexpected trace id: %v", entry["trace_id"])
	}
	if entry["version"] != "1.2.3" {
		t.Errorf("Unexpected version: %v", entry["version"])
	}
}

func TestNilContext(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)
	l.Warn(nil, "no context")
	if buf.Len() == 0 {
		t.Error("Expected an entry without context")
	}
}

func TestSentryHookLevels(t *testing.T) {
	h := NewSentryHook(logrus.ErrorLevel)
	if len(h.Levels()) != 3 {
		t.Errorf("Unexpected levels: %v", h.Levels())
	}
	// no client configured, firing is a no-op
	if err := h.Fire(&logrus.Entry{Level: logrus.ErrorLevel, Message: "boom", Data: logrus.Fields{}}); err != nil {
		t.Errorf("Fire failed: %v", err)
	}
}
