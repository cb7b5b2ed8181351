package logging

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// fileHook mirrors every entry into a local file
type fileHook struct {
	mu     sync.Mutex
	path   string
	w      *os.File
	bw     *bufio.Writer
	levels []logrus.Level
	closed bool
}

func newFileHook(path string, levels []logrus.Level) (*fileHook, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open logfile %s: %w", path, err)
	}

	return &fileHook{
		path:   path,
		w:      file,
		bw:     bufio.NewWriter(file),
		levels: levels,
	}, nil
}

// Fire writes the entry to the log file
func (h *fileHook) Fire(entry *logrus.Entry) error {
	message, err := entry.Bytes()
	if err != nil {
		return fmt.Errorf("failed to get a log entry bytes: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	if _, err := h.bw.Write(message); err != nil {
		return fmt.Errorf("failed to write a log message to a logfile: %w", err)
	}
	return nil
}

// Levels returns configured log levels
func (h *fileHook) Levels() []logrus.Level {
	return h.levels
}

// Close flushes the buffer and closes the file
func (h *fileHook) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	if err := h.bw.Flush(); err != nil {
		h.w.Close()
		return fmt.Errorf("failed to flush buffer: %w", err)
	}
	if err := h.w.Close(); err != nil {
		return fmt.Errorf("failed to close logfile: %w", err)
	}
	return nil
}
