package configinfra

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
	configports "instrshot.dev/cli/internal/core/ports/config"
)

// MaxTimeout bounds the per-operation timeout
const MaxTimeout = 10 * time.Minute

// ConfigValidator validates configuration values
type ConfigValidator struct {
	transports []string
}

// NewConfigValidator creates a validator accepting the given transport names
func NewConfigValidator(transports ...string) *ConfigValidator {
	return &ConfigValidator{transports: transports}
}

// Validate checks every field of the resolved settings
func (v *ConfigValidator) Validate(s configdomain.Settings) error {
	if err := v.ValidateTimeout(s.Timeout); err != nil {
		return err
	}
	if err := v.ValidateTransport(s.Transport); err != nil {
		return err
	}
	if err := v.ValidatePort(s.RawPort); err != nil {
		return fmt.Errorf("raw_port: %w", err)
	}
	if err := v.ValidateLogLevel(s.LogLevel); err != nil {
		return err
	}
	for _, p := range s.DiscoverPorts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("discover_ports: %q is not a port number", p)
		}
		if err := v.ValidatePort(n); err != nil {
			return fmt.Errorf("discover_ports: %w", err)
		}
	}
	return nil
}

// ValidateTimeout validates the per-operation timeout
func (v *ConfigValidator) ValidateTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", timeout)
	}
	if timeout > MaxTimeout {
		return fmt.Errorf("timeout too large: %s (maximum %s)", timeout, MaxTimeout)
	}
	return nil
}

// ValidateTransport checks the transport name
func (v *ConfigValidator) ValidateTransport(name string) error {
	if len(v.transports) == 0 {
		return nil
	}
	for _, t := range v.transports {
		if t == name {
			return nil
		}
	}
	return fmt.Errorf("unsupported transport: %q (must be one of %v)", name, v.transports)
}

// ValidatePort validates a TCP port number
func (v *ConfigValidator) ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port out of range: %d", port)
	}
	return nil
}

// ValidateLogLevel accepts the zap level names
func (v *ConfigValidator) ValidateLogLevel(level string) error {
	if _, err := zapcore.ParseLevel(level); err != nil {
		return fmt.Errorf("invalid log level: %q", level)
	}
	return nil
}

var _ configports.Validator = (*ConfigValidator)(nil)
