package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/domain"
)

// TimestampLayout is the timestamp embedded in generated file names
const TimestampLayout = "2006-01-02_15:04:05"

// FileWriter dumps screenshots to the filesystem
type FileWriter struct {
	dir    string
	now    func() time.Time
	logger *zap.Logger
}

// FileWriterOption configures a FileWriter
type FileWriterOption func(*FileWriter)

// WithClock replaces the time source used for generated names
func WithClock(now func() time.Time) FileWriterOption {
	return func(w *FileWriter) {
		w.now = now
	}
}

// NewFileWriter creates a writer placing generated names under dir. An empty
// dir means the working directory.
func NewFileWriter(dir string, logger *zap.Logger, opts ...FileWriterOption) *FileWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &FileWriter{dir: ExpandPath(dir), now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stores data at output, or at a generated name when output is empty,
// and returns the path written.
func (w *FileWriter) Write(output, address string, data []byte, format string) (string, error) {
	path := ExpandPath(output)
	if path == "" {
		path = filepath.Join(w.dir, w.Filename(address, format))
		if w.dir != "" {
			if err := os.MkdirAll(w.dir, 0755); err != nil {
				return "", fmt.Errorf("%w (%w)", domain.ErrFileWriteFailed, err)
			}
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("%w (%w)", domain.ErrFileWriteFailed, err)
	}

	w.logger.Debug("screenshot written", zap.String("path", path), zap.Int("bytes", len(data)))
	return path, nil
}

// Filename generates screenshot_<address>_<timestamp>.<format>
func (w *FileWriter) Filename(address, format string) string {
	safe := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(address)
	return fmt.Sprintf("screenshot_%s_%s.%s", safe, w.now().Format(TimestampLayout), format)
}

// ExpandPath resolves a leading ~/ to the home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}
