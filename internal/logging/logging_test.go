package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("loud", ""); err == nil {
		t.Fatalf("accepted level %q", "loud")
	}
	if _, err := FileOnly("loud", filepath.Join(t.TempDir(), "x.log")); err == nil {
		t.Fatalf("FileOnly accepted level %q", "loud")
	}
}

func TestFileOnlyWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "court.log")
	log, err := FileOnly("info", path)
	if err != nil {
		t.Fatalf("FileOnly: %v", err)
	}
	log.Debug("hidden")
	log.Info("rally over")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"rally over"`) || strings.Contains(out, "hidden") {
		t.Fatalf("log file:\n%s", out)
	}
}

func TestFileOnlyWithoutFileIsSilent(t *testing.T) {
	log, err := FileOnly("debug", "")
	if err != nil || log == nil {
		t.Fatalf("FileOnly: %v", err)
	}
	log.Info("nowhere")
}
