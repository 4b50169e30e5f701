package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/rewarded-arcade/internal/config"
)

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "WARN"}, "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "test") {
		t.Errorf("prefix missing: %q", out)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, config.LogConfig{Level: "chatty"}, ""); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestOpenFileAppends(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logger, closer, err := OpenFile(config.LogConfig{Level: "info", File: "~/.rewarded/rewarded.log"}, "rewarded")
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, ".rewarded", "rewarded.log"))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file content = %q", data)
	}
}

func TestOpenFileWithoutPathDiscards(t *testing.T) {
	logger, closer, err := OpenFile(config.LogConfig{}, "")
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	logger.Error("nowhere")
	if err := closer.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
