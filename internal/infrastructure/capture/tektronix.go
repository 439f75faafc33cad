package capture

import (
	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
)

// Tektronix2000 supports the DPO2000 and MSO2000 oscilloscopes. The hardcopy
// is streamed back as a bare PNG file.
func Tektronix2000(dialer ports.Dialer) *plugin.Descriptor {
	return &plugin.Descriptor{
		PluginName:  "tektronix-2000",
		Summary:     "Tektronix DPO/MSO 2000 series oscilloscope",
		Regex:       "TEKTRONIX,DPO2... TEKTRONIX,MSO2...",
		ImageFormat: "png",
		CaptureFn:   rawQuery(dialer, "save:image:fileformat png", "hardcopy:inksaver off", "hardcopy start"),
	}
}
