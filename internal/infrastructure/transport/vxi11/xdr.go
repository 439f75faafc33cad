package vxi11

import (
	"encoding/binary"
	"fmt"
)

// xdrEncoder appends XDR (RFC 4506) values to a buffer
type xdrEncoder struct {
	buf []byte
}

func (e *xdrEncoder) uint32(v uint32) *xdrEncoder {
	e.buf = binary.BigEndian.AppendUint32(e.buf, v)
	return e
}

func (e *xdrEncoder) bool(v bool) *xdrEncoder {
	if v {
		return e.uint32(1)
	}
	return e.uint32(0)
}

func (e *xdrEncoder) opaque(data []byte) *xdrEncoder {
	e.uint32(uint32(len(data)))
	e.buf = append(e.buf, data...)
	if pad := (4 - len(data)%4) % 4; pad > 0 {
		e.buf = append(e.buf, make([]byte, pad)...)
	}
	return e
}

func (e *xdrEncoder) string(s string) *xdrEncoder {
	return e.opaque([]byte(s))
}

func (e *xdrEncoder) bytes() []byte {
	return e.buf
}

// xdrDecoder reads XDR values in order
type xdrDecoder struct {
	data []byte
	off  int
}

func newDecoder(data []byte) *xdrDecoder {
	return &xdrDecoder{data: data}
}

func (d *xdrDecoder) uint32() (uint32, error) {
	if d.off+4 > len(d.data) {
		return 0, fmt.Errorf("xdr: short buffer reading uint32 at %d", d.off)
	}
	v := binary.BigEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

func (d *xdrDecoder) opaque() ([]byte, error) {
	n, err := d.uint32()
	if err != nil {
		return nil, err
	}
	padded := int(n) + (4-int(n)%4)%4
	if d.off+padded > len(d.data) {
		return nil, fmt.Errorf("xdr: short buffer reading %d byte opaque at %d", n, d.off)
	}
	out := d.data[d.off : d.off+int(n)]
	d.off += padded
	return out, nil
}

// rest returns the undecoded remainder
func (d *xdrDecoder) rest() []byte {
	return d.data[d.off:]
}
