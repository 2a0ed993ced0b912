package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	file    *os.File
	logger  *charmlog.Logger
	mu      sync.Mutex
	enabled bool
)

// Enable starts debug logging to path, truncating it
func Enable(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	file = f
	logger = charmlog.NewWithOptions(f, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           charmlog.DebugLevel,
	})
	enabled = true

	logger.Info("=== Debug logging started ===", "cat", "debug")
	return nil
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
	enabled = false
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}

	logger.Info(fmt.Sprintf(format, args...), "cat", category)
	file.Sync() // flush immediately so we see logs even on crash
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
