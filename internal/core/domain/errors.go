package domain

import "fmt"

// Screenshot pipeline errors. Every one is terminal for the current invocation;
// callers compare with errors.Is and nothing below the CLI retries.
var (
	ErrMissingAddress      = fmt.Errorf("missing address")
	ErrConnectFailed       = fmt.Errorf("failed to connect")
	ErrSendFailed          = fmt.Errorf("failed to send message")
	ErrReceiveFailed       = fmt.Errorf("failed to receive message")
	ErrIdentityUnavailable = fmt.Errorf("unable to retrieve instrument ID")
	ErrNoPluginDetected    = fmt.Errorf("could not autodetect which screenshot plugin to use - please specify plugin name manually")
	ErrUnknownPlugin       = fmt.Errorf("unknown plugin name")
	ErrCaptureFailed       = fmt.Errorf("screenshot capture failed")
	ErrFileWriteFailed     = fmt.Errorf("could not write screenshot file")
)

// Registration errors
var (
	ErrRegistryFull    = fmt.Errorf("screenshot plugin list full")
	ErrDuplicatePlugin = fmt.Errorf("screenshot plugin already registered")
	ErrInvalidPlugin   = fmt.Errorf("invalid screenshot plugin")
)

// ErrUnknownPluginName creates an error naming the plugin that could not be found
func ErrUnknownPluginName(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownPlugin, name)
}
