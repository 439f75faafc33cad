package configinfra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	configdomain "instrshot.dev/cli/internal/core/domain/config"
)

func TestConfigValidator_Validate(t *testing.T) {
	validator := NewConfigValidator("vxi11", "raw")

	tests := []struct {
		name    string
		modify  func(s *configdomain.Settings)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "defaults_are_valid",
			modify: func(s *configdomain.Settings) {},
		},
		{
			name:    "zero_timeout",
			modify:  func(s *configdomain.Settings) { s.Timeout = 0 },
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
		{
			name:    "huge_timeout",
			modify:  func(s *configdomain.Settings) { s.Timeout = time.Hour },
			wantErr: true,
			errMsg:  "timeout too large",
		},
		{
			name:    "unknown_transport",
			modify:  func(s *configdomain.Settings) { s.Transport = "hislip" },
			wantErr: true,
			errMsg:  "unsupported transport",
		},
		{
			name:    "raw_port_out_of_range",
			modify:  func(s *configdomain.Settings) { s.RawPort = 70000 },
			wantErr: true,
			errMsg:  "raw_port",
		},
		{
			name:    "bad_log_level",
			modify:  func(s *configdomain.Settings) { s.LogLevel = "verbose" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "non_numeric_discover_port",
			modify:  func(s *configdomain.Settings) { s.DiscoverPorts = []string{"111", "scpi"} },
			wantErr: true,
			errMsg:  "discover_ports",
		},
		{
			name:   "debug_level_accepted",
			modify: func(s *configdomain.Settings) { s.LogLevel = "debug" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := configdomain.DefaultSettings()
			tt.modify(&s)

			err := validator.Validate(s)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigValidator_NoTransportsAcceptsAny(t *testing.T) {
	assert.NoError(t, NewConfigValidator().ValidateTransport("anything"))
}
