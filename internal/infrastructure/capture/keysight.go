package capture

import (
	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
)

// KeysightIV2000X supports the InfiniiVision 2000X and 3000X oscilloscopes.
// Patterns are whitespace separated, so the space in the identity is \s.
func KeysightIV2000X(dialer ports.Dialer) *plugin.Descriptor {
	return &plugin.Descriptor{
		PluginName:  "keysight-iv2000x",
		Summary:     "Keysight InfiniiVision 2000X/3000X series oscilloscope",
		Regex:       `KEYSIGHT\sTECHNOLOGIES,DSO-X\s2... KEYSIGHT\sTECHNOLOGIES,MSO-X\s2... KEYSIGHT\sTECHNOLOGIES,DSO-X\s3... KEYSIGHT\sTECHNOLOGIES,MSO-X\s3...`,
		ImageFormat: "png",
		CaptureFn:   blockQuery(dialer, ":DISPLAY:DATA? PNG, COLOR"),
	}
}
