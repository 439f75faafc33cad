package appconfig

import (
	"context"
	"fmt"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
	configports "instrshot.dev/cli/internal/core/ports/config"
)

// Aggregator merges multiple loader snapshots, honoring priorities.
type Aggregator struct {
	loaders   []configports.Loader
	validator configports.Validator
}

func NewAggregator(validator configports.Validator, loaders ...configports.Loader) *Aggregator {
	return &Aggregator{loaders: loaders, validator: validator}
}

// LoadSnapshot returns the merged snapshot, including CLI overrides as priority 1
func (a *Aggregator) LoadSnapshot(ctx context.Context, overrides map[string]interface{}) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	// CLI overrides priority 1
	for field, v := range overrides {
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "cli", SourcePath: "command_line_flag", Priority: 1}
	}

	for _, l := range a.loaders {
		s, err := l.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s config: %w", l.Name(), err)
		}
		snap.Merge(s)
	}
	return snap, nil
}

// Resolve merges every source over the defaults and validates the result
func (a *Aggregator) Resolve(ctx context.Context, overrides map[string]interface{}) (configdomain.Settings, configdomain.Snapshot, error) {
	snap, err := a.LoadSnapshot(ctx, overrides)
	if err != nil {
		return configdomain.Settings{}, nil, err
	}

	settings, err := configdomain.DefaultSettings().Apply(snap)
	if err != nil {
		return configdomain.Settings{}, snap, err
	}

	if a.validator != nil {
		if err := a.validator.Validate(settings); err != nil {
			return configdomain.Settings{}, snap, err
		}
	}
	return settings, snap, nil
}
