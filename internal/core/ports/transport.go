package ports

import (
	"context"
	"time"
)

// Dialer opens sessions to instruments
type Dialer interface {
	// Name identifies the transport (vxi11, raw)
	Name() string

	// Dial connects to the instrument at address. timeout bounds the
	// connection and every later operation on the session.
	Dial(ctx context.Context, address string, timeout time.Duration) (Session, error)
}

// Session is an open link to a single instrument
type Session interface {
	// Send writes one command message
	Send(ctx context.Context, data []byte) error

	// Receive reads one response message of at most maxLength bytes
	Receive(ctx context.Context, maxLength int) ([]byte, error)

	// Close releases the link
	Close() error
}
