// Package capture holds the built-in screenshot plugins. Each plugin knows
// the command sequence one instrument family uses to hand out its display.
package capture

import (
	"context"
	"time"

	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
	"instrshot.dev/cli/internal/infrastructure/scpi"
)

// Builtins returns every built-in plugin in registration order
func Builtins(dialer ports.Dialer) []plugin.Plugin {
	return []plugin.Plugin{
		KeysightIV2000X(dialer),
		Rigol1000(dialer),
		Rigol2000(dialer),
		RSHMO1000(dialer),
		Tektronix2000(dialer),
		SiglentSDM3000(dialer),
	}
}

// blockQuery captures an image returned as a definite length block
func blockQuery(dialer ports.Dialer, commands ...string) plugin.CaptureFunc {
	return func(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
		return scpi.QueryBlock(ctx, dialer, address, timeout, commands...)
	}
}

// rawQuery captures an image returned without any framing
func rawQuery(dialer ports.Dialer, commands ...string) plugin.CaptureFunc {
	return func(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
		return scpi.Exchange(ctx, dialer, address, timeout, scpi.ImageSizeMax, commands...)
	}
}
