package plugin

import (
	"context"
	"strings"
	"time"
)

// Plugin captures a screenshot from one family of instruments
type Plugin interface {
	// Name returns the unique identifier used on the command line
	Name() string

	// Description returns a human readable summary of the supported instruments
	Description() string

	// Patterns returns the identity patterns, each matched independently
	// against the instrument ID. An empty result means the plugin can only
	// be selected by name.
	Patterns() []string

	// Format returns the image format the instrument is expected to produce
	Format() string

	// Capture retrieves the raw image bytes from the instrument at address
	Capture(ctx context.Context, address string, timeout time.Duration) ([]byte, error)
}

// CaptureFunc performs the instrument specific command sequence
type CaptureFunc func(ctx context.Context, address string, timeout time.Duration) ([]byte, error)

// Descriptor is a static plugin definition. Regex holds the identity
// patterns as one whitespace separated string.
type Descriptor struct {
	PluginName  string
	Summary     string
	Regex       string
	ImageFormat string
	CaptureFn   CaptureFunc
}

func (d *Descriptor) Name() string        { return d.PluginName }
func (d *Descriptor) Description() string { return d.Summary }
func (d *Descriptor) Format() string      { return d.ImageFormat }

// Patterns splits Regex into its individual patterns
func (d *Descriptor) Patterns() []string {
	return strings.Fields(d.Regex)
}

// Capture runs the configured capture function
func (d *Descriptor) Capture(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
	if d.CaptureFn == nil {
		return nil, errNoCaptureFunc(d.PluginName)
	}
	return d.CaptureFn(ctx, address, timeout)
}

var _ Plugin = (*Descriptor)(nil)
