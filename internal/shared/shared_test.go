package shared

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello", "key", "value")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("expected log output, got %q", buf.String())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "test")

	logger.Info("scoped")
	out := buf.String()
	if !strings.Contains(out, "component") || !strings.Contains(out, "test") {
		t.Errorf("expected scoped fields, got %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, log.ErrorLevel)

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info suppressed, got %q", buf.String())
	}

	logger.Error("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected error logged, got %q", buf.String())
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || a == b {
		t.Errorf("expected unique non-empty IDs, got %q and %q", a, b)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"count": 3}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("MarshalJSON pretty failed: %v", err)
	}

	if strings.Contains(string(compact), "\n") {
		t.Errorf("expected compact output, got %q", compact)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Errorf("expected indented output, got %q", pretty)
	}

	var roundtrip map[string]int
	if err := json.Unmarshal(pretty, &roundtrip); err != nil || roundtrip["count"] != 3 {
		t.Errorf("roundtrip failed: %v %v", roundtrip, err)
	}
}
