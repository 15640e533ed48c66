package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"frameops/internal/logging"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := logging.New(logging.Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Debug("session restored", "keys", 4)

	line := strings.TrimSpace(buf.String())
	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", line, err)
	}
	if record["msg"] != "session restored" {
		t.Fatalf("unexpected message: %v", record["msg"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestOrNopTolerantOfNil(t *testing.T) {
	log := logging.OrNop(nil)
	log.Info("discarded")
}
