package configinfra

import (
	"context"
	"os"
	"strings"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
	configports "instrshot.dev/cli/internal/core/ports/config"
)

// EnvPrefix prefixes every environment variable read by EnvLoader
const EnvPrefix = "INSTRSHOT_"

type EnvLoader struct {
	lookup func(string) (string, bool)
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{lookup: os.LookupEnv} }

func (l *EnvLoader) Name() string { return "env" }

// Load implements Loader by returning the environment snapshot.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	return l.LoadEnv(), nil
}

// LoadEnv builds a snapshot from INSTRSHOT_* environment variables (priority 2).
// Values stay strings; Settings.Apply converts them.
func (l *EnvLoader) LoadEnv() configdomain.Snapshot {
	snap := make(configdomain.Snapshot)
	for _, field := range configdomain.Fields {
		key := EnvKey(field)
		if v, ok := l.lookup(key); ok && v != "" {
			snap[field] = configdomain.Entry{Key: field, Value: v, Source: "env", SourcePath: key, Priority: 2}
		}
	}
	return snap
}

// EnvKey returns the environment variable for a field
func EnvKey(field string) string {
	return EnvPrefix + strings.ToUpper(field)
}

var _ configports.Loader = (*EnvLoader)(nil)
