package capture

import (
	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
)

// RSHMO1000 supports the HMO1000 oscilloscopes sold under both the Hameg
// and the Rohde & Schwarz brand.
func RSHMO1000(dialer ports.Dialer) *plugin.Descriptor {
	return &plugin.Descriptor{
		PluginName:  "rs-hmo1000",
		Summary:     "Rohde & Schwarz HMO 1000 series oscilloscope",
		Regex:       "HAMEG,HMO1... Rohde&Schwarz,HMO1...",
		ImageFormat: "png",
		CaptureFn:   blockQuery(dialer, "hcop:form png", "hcop:data?"),
	}
}
