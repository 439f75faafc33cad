package capture

import (
	"instrshot.dev/cli/internal/core/plugin"
	"instrshot.dev/cli/internal/core/ports"
)

// Rigol1000 supports the DS1000Z and MSO1000Z oscilloscopes, which only
// produce BMP.
func Rigol1000(dialer ports.Dialer) *plugin.Descriptor {
	return &plugin.Descriptor{
		PluginName:  "rigol-1000",
		Summary:     "Rigol DS/MSO 1000Z series oscilloscope",
		Regex:       `RIGOL\sTECHNOLOGIES,DS1... RIGOL\sTECHNOLOGIES,MSO1...`,
		ImageFormat: "bmp",
		CaptureFn:   blockQuery(dialer, ":display:data?"),
	}
}

// Rigol2000 supports the DS2000 and MSO2000 oscilloscopes
func Rigol2000(dialer ports.Dialer) *plugin.Descriptor {
	return &plugin.Descriptor{
		PluginName:  "rigol-2000",
		Summary:     "Rigol DS/MSO 2000 series oscilloscope",
		Regex:       `RIGOL\sTECHNOLOGIES,DS2... RIGOL\sTECHNOLOGIES,MSO2...`,
		ImageFormat: "png",
		CaptureFn:   blockQuery(dialer, ":display:data? on,0,png"),
	}
}
