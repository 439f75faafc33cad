package capture

import (
	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
)

// SiglentSDM3000 supports the SDM3000 and SDM3000X multimeters. scdp
// returns a bare BMP.
func SiglentSDM3000(dialer ports.Dialer) *plugin.Descriptor {
	return &plugin.Descriptor{
		PluginName:  "siglent-sdm3000",
		Summary:     "Siglent SDM 3000/3000X series digital multimeter",
		Regex:       "SIGLENT TECHNOLOGIES Siglent Technologies SDM3...",
		ImageFormat: "bmp",
		CaptureFn:   rawQuery(dialer, "scdp"),
	}
}
