package testfixtures

import (
	"context"
	"time"

	"instrshot.dev/cli/internal/core/plugin"
)

// PluginBuilder provides a builder pattern for creating test plugins
type PluginBuilder struct {
	descriptor plugin.Descriptor
	calls      *int
}

// NewPluginBuilder creates a PluginBuilder with sensible defaults
func NewPluginBuilder(name string) *PluginBuilder {
	return &PluginBuilder{
		descriptor: plugin.Descriptor{
			PluginName:  name,
			Summary:     "Test plugin " + name,
			ImageFormat: "bmp",
			CaptureFn: func(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
				return []byte("BM test image"), nil
			},
		},
	}
}

// WithDescription sets the plugin description
func (b *PluginBuilder) WithDescription(description string) *PluginBuilder {
	b.descriptor.Summary = description
	return b
}

// WithRegex sets the whitespace separated identity patterns
func (b *PluginBuilder) WithRegex(regex string) *PluginBuilder {
	b.descriptor.Regex = regex
	return b
}

// WithFormat sets the declared image format
func (b *PluginBuilder) WithFormat(format string) *PluginBuilder {
	b.descriptor.ImageFormat = format
	return b
}

// WithImage makes Capture return data
func (b *PluginBuilder) WithImage(data []byte) *PluginBuilder {
	b.descriptor.CaptureFn = func(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
		return data, nil
	}
	return b
}

// WithError makes Capture fail with err
func (b *PluginBuilder) WithError(err error) *PluginBuilder {
	b.descriptor.CaptureFn = func(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
		return nil, err
	}
	return b
}

// WithCaptureFunc sets the capture function
func (b *PluginBuilder) WithCaptureFunc(fn plugin.CaptureFunc) *PluginBuilder {
	b.descriptor.CaptureFn = fn
	return b
}

// CountingCalls increments *calls each time Capture runs
func (b *PluginBuilder) CountingCalls(calls *int) *PluginBuilder {
	b.calls = calls
	return b
}

// Build creates the plugin
func (b *PluginBuilder) Build() *plugin.Descriptor {
	d := b.descriptor
	if b.calls != nil {
		inner, calls := d.CaptureFn, b.calls
		d.CaptureFn = func(ctx context.Context, address string, timeout time.Duration) ([]byte, error) {
			*calls++
			return inner(ctx, address, timeout)
		}
	}
	return &d
}

// RegistryBuilder builds registries from plugin builders
type RegistryBuilder struct {
	opts    []plugin.RegistryOption
	plugins []plugin.Plugin
}

// NewRegistryBuilder creates an empty RegistryBuilder
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{}
}

// WithCapacity bounds the registry
func (b *RegistryBuilder) WithCapacity(n int) *RegistryBuilder {
	b.opts = append(b.opts, plugin.WithCapacity(n))
	return b
}

// With appends a plugin
func (b *RegistryBuilder) With(p plugin.Plugin) *RegistryBuilder {
	b.plugins = append(b.plugins, p)
	return b
}

// Build creates the registry and panics on a registration error (for test convenience)
func (b *RegistryBuilder) Build() *plugin.Registry {
	r := plugin.NewRegistry(b.opts...)
	r.MustRegister(b.plugins...)
	return r
}
