package vxi11

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInstrument serves the portmapper and the VXI-11 core channel on one port
type fakeInstrument struct {
	ln          net.Listener
	maxRecvSize uint32
	readChunk   int
	linkError   uint32
	responses   map[string][]byte

	mu      sync.Mutex
	writes  []string
	partial []byte
	pending []byte
	links   int
	closed  int
}

func startFakeInstrument(t *testing.T, responses map[string][]byte, configure ...func(*fakeInstrument)) *fakeInstrument {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	f := &fakeInstrument{ln: ln, maxRecvSize: 1024, readChunk: 1 << 20, responses: responses}
	for _, c := range configure {
		c(f)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f
}

func (f *fakeInstrument) port() int {
	return f.ln.Addr().(*net.TCPAddr).Port
}

func (f *fakeInstrument) serve(conn net.Conn) {
	defer conn.Close()
	for {
		record, err := readRecord(conn)
		if err != nil {
			return
		}

		d := newDecoder(record)
		xid, _ := d.uint32()
		d.uint32() // call
		d.uint32() // rpc version
		prog, _ := d.uint32()
		d.uint32() // version
		proc, _ := d.uint32()
		d.uint32() // cred flavor
		d.opaque()
		d.uint32() // verf flavor
		d.opaque()

		result := f.handle(prog, proc, d)
		reply := (&xdrEncoder{}).
			uint32(xid).
			uint32(msgReply).
			uint32(replyAccepted).
			uint32(authNone).opaque(nil).
			uint32(acceptSuccess).
			bytes()
		if err := writeRecord(conn, append(reply, result...)); err != nil {
			return
		}
	}
}

func (f *fakeInstrument) handle(prog, proc uint32, d *xdrDecoder) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()

	e := &xdrEncoder{}
	switch {
	case prog == portmapperProgram && proc == procGetPort:
		return e.uint32(uint32(f.port())).bytes()

	case prog == coreProgram && proc == procCreateLink:
		f.links++
		return e.uint32(f.linkError).uint32(7).uint32(0).uint32(f.maxRecvSize).bytes()

	case prog == coreProgram && proc == procDeviceWrite:
		d.uint32() // lid
		d.uint32() // io timeout
		d.uint32() // lock timeout
		flags, _ := d.uint32()
		data, _ := d.opaque()
		f.partial = append(f.partial, data...)
		if flags&flagEnd != 0 {
			cmd := string(f.partial)
			f.writes = append(f.writes, cmd)
			f.pending = f.responses[cmd]
			f.partial = nil
		}
		return e.uint32(0).uint32(uint32(len(data))).bytes()

	case prog == coreProgram && proc == procDeviceRead:
		d.uint32() // lid
		request, _ := d.uint32()
		if f.pending == nil {
			return e.uint32(15).uint32(0).opaque(nil).bytes()
		}
		n := min(int(request), f.readChunk, len(f.pending))
		chunk := f.pending[:n]
		f.pending = f.pending[n:]
		var reason uint32 = 0x01
		if len(f.pending) == 0 {
			reason = reasonEnd
			f.pending = nil
		}
		return e.uint32(0).uint32(reason).opaque(chunk).bytes()

	case prog == coreProgram && proc == procDestroyLink:
		f.closed++
		return e.uint32(0).bytes()
	}
	return nil
}

func (f *fakeInstrument) dialer() *Dialer {
	return NewDialer(nil, WithPortmapperPort(f.port()))
}

func TestSession_IdentityQuery(t *testing.T) {
	f := startFakeInstrument(t, map[string][]byte{"*IDN?": []byte("SIGLENT TECHNOLOGIES,SDM3065X,SDM36,1.01\n")})

	s, err := f.dialer().Dial(context.Background(), "127.0.0.1", 2*time.Second)
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), []byte("*IDN?")))
	resp, err := s.Receive(context.Background(), 65536)
	require.NoError(t, err)
	assert.Equal(t, "SIGLENT TECHNOLOGIES,SDM3065X,SDM36,1.01\n", string(resp))

	require.NoError(t, s.Close())

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []string{"*IDN?"}, f.writes)
	assert.Equal(t, 1, f.links)
	assert.Equal(t, 1, f.closed)
}

func TestSession_ChunkedWriteAndRead(t *testing.T) {
	command := strings.Repeat("A", 2500)
	image := []byte(strings.Repeat("BMP-DATA", 5000))
	f := startFakeInstrument(t, map[string][]byte{command: image}, func(f *fakeInstrument) {
		f.maxRecvSize = 1000
		f.readChunk = 4096
	})

	s, err := f.dialer().Dial(context.Background(), "127.0.0.1", 2*time.Second)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Send(context.Background(), []byte(command)))
	resp, err := s.Receive(context.Background(), 0x400000)
	require.NoError(t, err)
	assert.Equal(t, image, resp)
}

func TestSession_Receive_StopsAtMaxLength(t *testing.T) {
	f := startFakeInstrument(t, map[string][]byte{"scdp": []byte(strings.Repeat("x", 100))}, func(f *fakeInstrument) {
		f.readChunk = 10
	})

	s, err := f.dialer().Dial(context.Background(), "127.0.0.1", 2*time.Second)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Send(context.Background(), []byte("scdp")))
	resp, err := s.Receive(context.Background(), 25)
	require.NoError(t, err)
	assert.Len(t, resp, 25)
}

func TestSession_Receive_DeviceError(t *testing.T) {
	f := startFakeInstrument(t, nil)

	s, err := f.dialer().Dial(context.Background(), "127.0.0.1", 2*time.Second)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Receive(context.Background(), 1024)

	var devErr *DeviceError
	require.True(t, errors.As(err, &devErr))
	assert.Equal(t, uint32(15), devErr.Code)
	assert.Contains(t, err.Error(), "I/O timeout")
}

func TestDialer_CreateLinkRejected(t *testing.T) {
	f := startFakeInstrument(t, nil, func(f *fakeInstrument) { f.linkError = 3 })

	_, err := f.dialer().Dial(context.Background(), "127.0.0.1", 2*time.Second)

	var devErr *DeviceError
	require.ErrorAs(t, err, &devErr)
	assert.Equal(t, "create_link", devErr.Op)
}

func TestDialer_PortmapperUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = NewDialer(nil, WithPortmapperPort(port)).Dial(context.Background(), "127.0.0.1", time.Second)

	assert.ErrorContains(t, err, "portmapper")
}

func TestXDR_OpaquePadding(t *testing.T) {
	enc := (&xdrEncoder{}).opaque([]byte("abcde")).uint32(42).bytes()
	assert.Len(t, enc, 4+8+4)

	d := newDecoder(enc)
	data, err := d.opaque()
	require.NoError(t, err)
	assert.Equal(t, "abcde", string(data))
	v, err := d.uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)

	_, err = d.uint32()
	assert.Error(t, err)
}

func TestParseReply_RejectsMismatchedXID(t *testing.T) {
	reply := (&xdrEncoder{}).uint32(5).uint32(msgReply).uint32(replyAccepted).uint32(0).opaque(nil).uint32(acceptSuccess).bytes()

	_, err := parseReply(reply, 6)
	assert.ErrorContains(t, err, "xid")

	rest, err := parseReply(reply, 5)
	require.NoError(t, err)
	assert.Empty(t, rest)
}
