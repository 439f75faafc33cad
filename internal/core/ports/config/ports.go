package configports

import (
	"context"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
)

// Loader reads one configuration source
type Loader interface {
	Load(ctx context.Context) (configdomain.Snapshot, error)
	Name() string
}

// Validator checks resolved settings
type Validator interface {
	Validate(settings configdomain.Settings) error
}
