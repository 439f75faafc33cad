package vxi11

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"
)

// ONC RPC message constants (RFC 5531)
const (
	msgCall       = 0
	msgReply      = 1
	rpcVersion    = 2
	replyAccepted = 0
	acceptSuccess = 0
	authNone      = 0

	lastFragment  = 0x80000000
	maxRecordSize = 0x7fffffff
)

// rpcClient issues calls over one TCP connection using record marking
type rpcClient struct {
	conn    net.Conn
	xid     uint32
	timeout time.Duration
}

func newRPCClient(conn net.Conn, timeout time.Duration) *rpcClient {
	return &rpcClient{conn: conn, xid: uint32(time.Now().UnixNano()), timeout: timeout}
}

func (c *rpcClient) call(prog, vers, proc uint32, args []byte) ([]byte, error) {
	c.xid++
	xid := c.xid

	msg := (&xdrEncoder{}).
		uint32(xid).
		uint32(msgCall).
		uint32(rpcVersion).
		uint32(prog).
		uint32(vers).
		uint32(proc).
		uint32(authNone).uint32(0). // credentials
		uint32(authNone).uint32(0). // verifier
		bytes()
	msg = append(msg, args...)

	if c.timeout > 0 {
		if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, err
		}
	}

	if err := writeRecord(c.conn, msg); err != nil {
		return nil, fmt.Errorf("rpc write: %w", err)
	}

	reply, err := readRecord(c.conn)
	if err != nil {
		return nil, fmt.Errorf("rpc read: %w", err)
	}

	return parseReply(reply, xid)
}

func writeRecord(w io.Writer, msg []byte) error {
	frame := binary.BigEndian.AppendUint32(make([]byte, 0, 4+len(msg)), lastFragment|uint32(len(msg)))
	frame = append(frame, msg...)
	_, err := w.Write(frame)
	return err
}

func readRecord(r io.Reader) ([]byte, error) {
	var record []byte
	var header [4]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return nil, err
		}
		mark := binary.BigEndian.Uint32(header[:])
		size := mark & maxRecordSize

		fragment := make([]byte, size)
		if _, err := io.ReadFull(r, fragment); err != nil {
			return nil, err
		}
		record = append(record, fragment...)

		if mark&lastFragment != 0 {
			return record, nil
		}
	}
}

func parseReply(reply []byte, xid uint32) ([]byte, error) {
	d := newDecoder(reply)

	got, err := d.uint32()
	if err != nil {
		return nil, err
	}
	if got != xid {
		return nil, fmt.Errorf("rpc: reply xid %d does not match call %d", got, xid)
	}

	if mtype, err := d.uint32(); err != nil {
		return nil, err
	} else if mtype != msgReply {
		return nil, fmt.Errorf("rpc: unexpected message type %d", mtype)
	}

	if stat, err := d.uint32(); err != nil {
		return nil, err
	} else if stat != replyAccepted {
		return nil, fmt.Errorf("rpc: call denied (status %d)", stat)
	}

	// verifier
	if _, err := d.uint32(); err != nil {
		return nil, err
	}
	if _, err := d.opaque(); err != nil {
		return nil, err
	}

	if stat, err := d.uint32(); err != nil {
		return nil, err
	} else if stat != acceptSuccess {
		return nil, fmt.Errorf("rpc: call not accepted (status %d)", stat)
	}

	return d.rest(), nil
}
