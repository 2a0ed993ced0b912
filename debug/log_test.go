package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatal(err)
	}
	defer Disable()

	Log("trail", "evicted %d points", 12)
	for i := 0; i < 4; i++ {
		LogEvery(2, "tick", "frame")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "evicted 12 points") || !strings.Contains(out, "cat=trail") {
		t.Errorf("log missing message or category:\n%s", out)
	}
	if got := strings.Count(out, "frame (every 2"); got != 2 {
		t.Errorf("LogEvery wrote %d lines, want 2:\n%s", got, out)
	}
}

func TestLogDisabledIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Enable(path); err != nil {
		t.Fatal(err)
	}
	Disable()
	Log("x", "after disable %d", 1)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "after disable") {
		t.Errorf("Log wrote after Disable:\n%s", data)
	}
}
