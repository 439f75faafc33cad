package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/domain"
	"instrshot.dev/cli/internal/core/ports"
)

const (
	// Query is the IEEE 488.2 identification query
	Query = "*IDN?"

	// MaxLength bounds the identity response
	MaxLength = 65536
)

// Resolver queries instruments for their identity string
type Resolver struct {
	dialer ports.Dialer
	logger *zap.Logger
}

// NewResolver creates a resolver using dialer for every query
func NewResolver(dialer ports.Dialer, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{dialer: dialer, logger: logger}
}

// Resolve connects to address, sends *IDN? and returns the response with one
// trailing newline removed.
func (r *Resolver) Resolve(ctx context.Context, address string, timeout time.Duration) (string, error) {
	session, err := r.dialer.Dial(ctx, address, timeout)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrConnectFailed, address, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.logger.Debug("closing identity session", zap.String("address", address), zap.Error(err))
		}
	}()

	if err := session.Send(ctx, []byte(Query)); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSendFailed, err)
	}

	response, err := session.Receive(ctx, MaxLength)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrReceiveFailed, err)
	}

	return strings.TrimSuffix(string(response), "\n"), nil
}
