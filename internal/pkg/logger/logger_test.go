package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestConfigureWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := Configure(Config{Level: WarnLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout}) })

	lgr.Info().Msg("dropped")
	sms := Component("sms")
	sms.Warn().Str("to", "+15550001111").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %s", len(lines), buf.String())
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["message"] != "kept" || entry["component"] != "sms" || entry["level"] != "warn" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestConfigureUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "verbose", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true, Output: os.Stdout}) })

	Debug().Msg("hidden")
	Info().Msg("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Error("debug line should be filtered at info level")
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Error("info line missing")
	}
}
