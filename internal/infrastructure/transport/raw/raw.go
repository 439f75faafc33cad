// Package raw talks SCPI over a plain TCP socket, the "socket" interface
// most LXI instruments expose on port 5025.
package raw

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/ports"
	"instrshot.dev/cli/internal/infrastructure/scpi"
)

// DefaultPort is the IANA registered SCPI-raw port
const DefaultPort = 5025

// DefaultIdleGap ends a response that carries no length information once the
// instrument stops sending for this long.
const DefaultIdleGap = 500 * time.Millisecond

const readChunk = 64 * 1024

// Dialer opens raw socket sessions
type Dialer struct {
	port    int
	idleGap time.Duration
	logger  *zap.Logger
}

// Option configures a Dialer
type Option func(*Dialer)

// WithPort sets the port used when the address carries none
func WithPort(port int) Option {
	return func(d *Dialer) {
		d.port = port
	}
}

// WithIdleGap sets how long a response may pause before it is considered complete
func WithIdleGap(gap time.Duration) Option {
	return func(d *Dialer) {
		d.idleGap = gap
	}
}

// NewDialer creates a raw socket dialer
func NewDialer(logger *zap.Logger, opts ...Option) *Dialer {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dialer{port: DefaultPort, idleGap: DefaultIdleGap, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dialer) Name() string { return "raw" }

// Dial connects to address, adding the configured port when address has none
func (d *Dialer) Dial(ctx context.Context, address string, timeout time.Duration) (ports.Session, error) {
	target := address
	if _, _, err := net.SplitHostPort(address); err != nil {
		target = net.JoinHostPort(address, strconv.Itoa(d.port))
	}

	nd := net.Dialer{Timeout: timeout}
	conn, err := nd.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("raw session opened", zap.String("target", target))

	return &session{conn: conn, timeout: timeout, idleGap: d.idleGap}, nil
}

type session struct {
	conn    net.Conn
	timeout time.Duration
	idleGap time.Duration
}

// deadline returns the absolute deadline for an operation starting now
func (s *session) deadline() time.Time {
	if s.timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(s.timeout)
}

func (s *session) Send(ctx context.Context, data []byte) error {
	stop := context.AfterFunc(ctx, func() { s.conn.SetWriteDeadline(time.Now()) })
	defer stop()

	msg := data
	if len(msg) == 0 || msg[len(msg)-1] != '\n' {
		msg = append(append(make([]byte, 0, len(data)+1), data...), '\n')
	}

	if err := s.conn.SetWriteDeadline(s.deadline()); err != nil {
		return err
	}
	if _, err := s.conn.Write(msg); err != nil {
		return ctxErr(ctx, err)
	}
	return nil
}

func (s *session) Receive(ctx context.Context, maxLength int) ([]byte, error) {
	stop := context.AfterFunc(ctx, func() { s.conn.SetReadDeadline(time.Now()) })
	defer stop()

	overall := s.deadline()
	buf := make([]byte, 0, min(maxLength, readChunk))
	chunk := make([]byte, readChunk)

	for len(buf) < maxLength {
		deadline := overall
		if len(buf) > 0 && s.idleGap > 0 {
			idle := time.Now().Add(s.idleGap)
			if deadline.IsZero() || idle.Before(deadline) {
				deadline = idle
			}
		}
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return nil, err
		}

		n, err := s.conn.Read(chunk[:min(len(chunk), maxLength-len(buf))])
		buf = append(buf, chunk[:n]...)
		if scpi.Complete(buf) {
			break
		}
		if err != nil {
			var netErr net.Error
			if len(buf) > 0 && ctx.Err() == nil && (errors.Is(err, io.EOF) || errors.As(err, &netErr) && netErr.Timeout()) {
				break
			}
			return nil, ctxErr(ctx, err)
		}
	}

	return buf, nil
}

func (s *session) Close() error {
	return s.conn.Close()
}

func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ctx.Err(), err)
	}
	return err
}
