// Package vxi11 implements the client side of the VXI-11 core channel, the
// ONC RPC based protocol LXI instruments speak on the network.
package vxi11

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/ports"
)

const (
	// DefaultDevice is the logical device name of the instrument itself
	DefaultDevice = "inst0"

	portmapperPort    = 111
	portmapperProgram = 100000
	portmapperVersion = 2
	procGetPort       = 3
	protoTCP          = 6

	coreProgram     = 0x0607AF
	coreVersion     = 1
	procCreateLink  = 10
	procDeviceWrite = 11
	procDeviceRead  = 12
	procDestroyLink = 23

	flagEnd   = 0x08
	reasonEnd = 0x04

	// readChunkMax bounds a single device_read request
	readChunkMax = 0x100000
)

// DeviceError is a non-zero VXI-11 error code
type DeviceError struct {
	Op   string
	Code uint32
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("vxi11 %s: device error %d (%s)", e.Op, e.Code, errorText(e.Code))
}

func errorText(code uint32) string {
	switch code {
	case 1:
		return "syntax error"
	case 3:
		return "device not accessible"
	case 4:
		return "invalid link identifier"
	case 5:
		return "parameter error"
	case 6:
		return "channel not established"
	case 8:
		return "operation not supported"
	case 9:
		return "out of resources"
	case 11:
		return "device locked by another link"
	case 12:
		return "no lock held by this link"
	case 15:
		return "I/O timeout"
	case 17:
		return "I/O error"
	case 21:
		return "invalid address"
	case 23:
		return "abort"
	case 29:
		return "channel already established"
	}
	return "unknown"
}

// Dialer opens VXI-11 links
type Dialer struct {
	device         string
	portmapperPort int
	logger         *zap.Logger
}

// Option configures a Dialer
type Option func(*Dialer)

// WithDevice sets the logical device name (inst0, gpib0,5, ...)
func WithDevice(device string) Option {
	return func(d *Dialer) {
		d.device = device
	}
}

// WithPortmapperPort overrides the portmapper port
func WithPortmapperPort(port int) Option {
	return func(d *Dialer) {
		d.portmapperPort = port
	}
}

// NewDialer creates a VXI-11 dialer
func NewDialer(logger *zap.Logger, opts ...Option) *Dialer {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dialer{device: DefaultDevice, portmapperPort: portmapperPort, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dialer) Name() string { return "vxi11" }

// Dial asks the portmapper for the core channel port, connects and creates a link
func (d *Dialer) Dial(ctx context.Context, address string, timeout time.Duration) (ports.Session, error) {
	port, err := d.corePort(ctx, address, timeout)
	if err != nil {
		return nil, err
	}

	conn, err := dial(ctx, address, port, timeout)
	if err != nil {
		return nil, err
	}

	s := &session{rpc: newRPCClient(conn, timeout), conn: conn, timeout: timeout}
	if err := s.createLink(ctx, d.device); err != nil {
		conn.Close()
		return nil, err
	}

	d.logger.Debug("vxi11 link created",
		zap.String("address", address),
		zap.Int("port", port),
		zap.String("device", d.device),
		zap.Uint32("max_recv_size", s.maxRecvSize))
	return s, nil
}

func dial(ctx context.Context, host string, port int, timeout time.Duration) (net.Conn, error) {
	nd := net.Dialer{Timeout: timeout}
	return nd.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}

func (d *Dialer) corePort(ctx context.Context, address string, timeout time.Duration) (int, error) {
	conn, err := dial(ctx, address, d.portmapperPort, timeout)
	if err != nil {
		return 0, fmt.Errorf("portmapper: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	args := (&xdrEncoder{}).uint32(coreProgram).uint32(coreVersion).uint32(protoTCP).uint32(0).bytes()
	reply, err := newRPCClient(conn, timeout).call(portmapperProgram, portmapperVersion, procGetPort, args)
	if err != nil {
		return 0, fmt.Errorf("portmapper: %w", err)
	}

	port, err := newDecoder(reply).uint32()
	if err != nil {
		return 0, fmt.Errorf("portmapper: %w", err)
	}
	if port == 0 {
		return 0, fmt.Errorf("portmapper: VXI-11 core channel not registered")
	}
	return int(port), nil
}

type session struct {
	rpc         *rpcClient
	conn        net.Conn
	timeout     time.Duration
	lid         uint32
	maxRecvSize uint32
}

// call runs one RPC, aborting it when ctx is done
func (s *session) call(ctx context.Context, proc uint32, args []byte) (*xdrDecoder, error) {
	stop := context.AfterFunc(ctx, func() { s.conn.SetDeadline(time.Now()) })
	defer stop()

	reply, err := s.rpc.call(coreProgram, coreVersion, proc, args)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return nil, err
	}
	return newDecoder(reply), nil
}

func (s *session) ioTimeout() uint32 {
	return uint32(s.timeout.Milliseconds())
}

func (s *session) createLink(ctx context.Context, device string) error {
	args := (&xdrEncoder{}).
		uint32(rand.Uint32()). // client id
		bool(false).           // lock device
		uint32(0).             // lock timeout
		string(device).
		bytes()

	d, err := s.call(ctx, procCreateLink, args)
	if err != nil {
		return fmt.Errorf("create_link: %w", err)
	}

	code, err := d.uint32()
	if err != nil {
		return fmt.Errorf("create_link: %w", err)
	}
	if code != 0 {
		return &DeviceError{Op: "create_link", Code: code}
	}

	if s.lid, err = d.uint32(); err != nil {
		return fmt.Errorf("create_link: %w", err)
	}
	if _, err = d.uint32(); err != nil { // abort port
		return fmt.Errorf("create_link: %w", err)
	}
	if s.maxRecvSize, err = d.uint32(); err != nil {
		return fmt.Errorf("create_link: %w", err)
	}
	if s.maxRecvSize == 0 {
		s.maxRecvSize = 1024
	}
	return nil
}

// Send writes data in chunks no larger than the instrument accepts, flagging
// the last one with END.
func (s *session) Send(ctx context.Context, data []byte) error {
	for offset := 0; ; {
		end := min(offset+int(s.maxRecvSize), len(data))
		var flags uint32
		if end == len(data) {
			flags = flagEnd
		}

		args := (&xdrEncoder{}).
			uint32(s.lid).
			uint32(s.ioTimeout()).
			uint32(s.ioTimeout()). // lock timeout
			uint32(flags).
			opaque(data[offset:end]).
			bytes()

		d, err := s.call(ctx, procDeviceWrite, args)
		if err != nil {
			return fmt.Errorf("device_write: %w", err)
		}
		code, err := d.uint32()
		if err != nil {
			return fmt.Errorf("device_write: %w", err)
		}
		if code != 0 {
			return &DeviceError{Op: "device_write", Code: code}
		}
		written, err := d.uint32()
		if err != nil {
			return fmt.Errorf("device_write: %w", err)
		}

		offset += int(written)
		if offset >= len(data) {
			return nil
		}
		if written == 0 {
			return fmt.Errorf("device_write: instrument accepted no data")
		}
	}
}

// Receive reads until the instrument flags END or maxLength bytes arrived
func (s *session) Receive(ctx context.Context, maxLength int) ([]byte, error) {
	var buf []byte

	for len(buf) < maxLength {
		request := min(maxLength-len(buf), readChunkMax)
		args := (&xdrEncoder{}).
			uint32(s.lid).
			uint32(uint32(request)).
			uint32(s.ioTimeout()).
			uint32(s.ioTimeout()). // lock timeout
			uint32(0).             // flags
			uint32(0).             // term char
			bytes()

		d, err := s.call(ctx, procDeviceRead, args)
		if err != nil {
			return nil, fmt.Errorf("device_read: %w", err)
		}
		code, err := d.uint32()
		if err != nil {
			return nil, fmt.Errorf("device_read: %w", err)
		}
		if code != 0 {
			return nil, &DeviceError{Op: "device_read", Code: code}
		}
		reason, err := d.uint32()
		if err != nil {
			return nil, fmt.Errorf("device_read: %w", err)
		}
		data, err := d.opaque()
		if err != nil {
			return nil, fmt.Errorf("device_read: %w", err)
		}

		buf = append(buf, data...)
		if reason&reasonEnd != 0 {
			break
		}
		if len(data) == 0 && reason == 0 {
			return nil, fmt.Errorf("device_read: instrument returned no data")
		}
	}

	if len(buf) > maxLength {
		buf = buf[:maxLength]
	}
	return buf, nil
}

// Close destroys the link and closes the connection
func (s *session) Close() error {
	defer s.conn.Close()

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	d, err := s.call(ctx, procDestroyLink, (&xdrEncoder{}).uint32(s.lid).bytes())
	if err != nil {
		return fmt.Errorf("destroy_link: %w", err)
	}
	if code, err := d.uint32(); err != nil {
		return fmt.Errorf("destroy_link: %w", err)
	} else if code != 0 {
		return &DeviceError{Op: "destroy_link", Code: code}
	}
	return nil
}
