package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// fileTimeLayout matches the timestamp embedded in log file names
const fileTimeLayout = "2006_01_02_15_04_05"

// Options configures New
type Options struct {
	Folder string
	Prefix string
	Level  string
	Stderr io.Writer
	Now    func() time.Time
}

// Logger is a configured logrus logger plus the file it mirrors to
type Logger struct {
	*logrus.Logger
	hook *fileHook
}

// New - creates a logger writing to the console and to a new file in the log folder
func New(opts Options) (*Logger, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("unknown log level %s", opts.Level)
	}

	if err := os.MkdirAll(opts.Folder, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log folder: %w", err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	path, err := NextLogFile(opts.Folder, opts.Prefix, now())
	if err != nil {
		return nil, err
	}

	hook, err := newFileHook(path, logrus.AllLevels[:level+1])
	if err != nil {
		return nil, err
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	logger.AddHook(hook)

	return &Logger{Logger: logger, hook: hook}, nil
}

// Path - returns the file the logger mirrors to
func (l *Logger) Path() string {
	return l.hook.path
}

// Close - flushes and closes the log file
func (l *Logger) Close() error {
	return l.hook.Close()
}

// NextLogFile - builds "<prefix>_<timestamp>_<n>.log" where n counts the existing log files
func NextLogFile(folder, prefix string, at time.Time) (string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", fmt.Errorf("failed to read log folder: %w", err)
	}

	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".log") {
			count++
		}
	}

	name := fmt.Sprintf("%s_%s_%d.log", prefix, at.Format(fileTimeLayout), count)
	return filepath.Join(folder, name), nil
}

// Component - returns a logger tagged with a component name
func Component(logger logrus.FieldLogger, name string) logrus.FieldLogger {
	return logger.WithField("component", name)
}
