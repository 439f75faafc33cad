package configinfra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
	configports "instrshot.dev/cli/internal/core/ports/config"
)

// FileLoader reads the YAML config file (priority 3). A missing file at the
// default location is not an error; a missing explicit file is.
type FileLoader struct {
	path     string
	explicit bool
}

// NewFileLoader reads path, or the default location when path is empty
func NewFileLoader(path string) *FileLoader {
	if path != "" {
		return &FileLoader{path: path, explicit: true}
	}
	return &FileLoader{path: DefaultConfigPath()}
}

// DefaultConfigPath is $XDG_CONFIG_HOME/instrshot/config.yaml
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "instrshot", "config.yaml")
}

func (l *FileLoader) Name() string { return "file" }

// Path returns the file this loader reads
func (l *FileLoader) Path() string { return l.path }

func (l *FileLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	if l.path == "" {
		return snap, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !l.explicit {
			return snap, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", l.path, err)
	}

	var kv map[string]interface{}
	if err := yaml.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}

	known := make(map[string]bool, len(configdomain.Fields))
	for _, field := range configdomain.Fields {
		known[field] = true
	}

	for field, v := range kv {
		if !known[field] {
			return nil, fmt.Errorf("%s: unknown setting %q", l.path, field)
		}
		if v == nil {
			continue
		}
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "file", SourcePath: l.path, Priority: 3}
	}
	return snap, nil
}

var _ configports.Loader = (*FileLoader)(nil)
