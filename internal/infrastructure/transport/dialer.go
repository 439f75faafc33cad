package transport

import (
	"fmt"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/ports"
	"instrshot.dev/cli/internal/infrastructure/transport/raw"
	"instrshot.dev/cli/internal/infrastructure/transport/vxi11"
)

const (
	VXI11 = "vxi11"
	Raw   = "raw"
)

// Options tune the transports
type Options struct {
	RawPort     int
	VXI11Device string
}

// Names lists the supported transports
func Names() []string {
	return []string{VXI11, Raw}
}

// NewDialer creates the dialer for the named transport
func NewDialer(name string, opts Options, logger *zap.Logger) (ports.Dialer, error) {
	switch name {
	case VXI11, "":
		var vopts []vxi11.Option
		if opts.VXI11Device != "" {
			vopts = append(vopts, vxi11.WithDevice(opts.VXI11Device))
		}
		return vxi11.NewDialer(logger, vopts...), nil
	case Raw:
		var ropts []raw.Option
		if opts.RawPort > 0 {
			ropts = append(ropts, raw.WithPort(opts.RawPort))
		}
		return raw.NewDialer(logger, ropts...), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (supported: %s, %s)", name, VXI11, Raw)
	}
}
