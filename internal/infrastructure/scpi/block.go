// Package scpi holds the SCPI message conventions shared by the transports
// and the capture plugins: IEEE 488.2 definite length blocks and detection of
// a complete response on byte stream transports.
package scpi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
)

var (
	pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	pngTrailer   = []byte{'I', 'E', 'N', 'D', 0xae, 0x42, 0x60, 0x82}
)

// ErrMalformedBlock is returned for a '#' block whose header cannot be parsed
var ErrMalformedBlock = fmt.Errorf("malformed IEEE 488.2 block")

// BlockHeader parses the header of a definite length block ("#" digit count
// length). It returns the header size and payload size. ok is false when data
// does not hold a complete header yet.
func BlockHeader(data []byte) (headerLen, payloadLen int, ok bool, err error) {
	if len(data) < 2 || data[0] != '#' {
		return 0, 0, false, nil
	}

	digits := int(data[1] - '0')
	if digits < 0 || digits > 9 {
		return 0, 0, false, fmt.Errorf("%w: invalid digit count %q", ErrMalformedBlock, data[1])
	}
	if digits == 0 {
		// Indefinite length block, terminated by the message end
		return 2, -1, true, nil
	}
	if len(data) < 2+digits {
		return 0, 0, false, nil
	}

	n, err := strconv.Atoi(string(data[2 : 2+digits]))
	if err != nil {
		return 0, 0, false, fmt.Errorf("%w: invalid length %q", ErrMalformedBlock, data[2:2+digits])
	}
	return 2 + digits, n, true, nil
}

// DecodeBlock strips the block header from a response. Responses that are not
// blocks are returned unchanged.
func DecodeBlock(data []byte) ([]byte, error) {
	if len(data) == 0 || data[0] != '#' {
		return data, nil
	}

	headerLen, payloadLen, ok, err := BlockHeader(data)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: truncated header", ErrMalformedBlock)
	}

	payload := data[headerLen:]
	if payloadLen < 0 {
		return bytes.TrimSuffix(payload, []byte("\n")), nil
	}
	if len(payload) < payloadLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrMalformedBlock, payloadLen, len(payload))
	}
	return payload[:payloadLen], nil
}

// Complete reports whether buf holds a whole response. Blocks, BMP and PNG
// images are delimited by their own length information; anything else ends
// with a newline.
func Complete(buf []byte) bool {
	switch {
	case len(buf) == 0:
		return false

	case buf[0] == '#':
		headerLen, payloadLen, ok, err := BlockHeader(buf)
		if err != nil {
			return true
		}
		if !ok {
			return false
		}
		if payloadLen < 0 {
			return buf[len(buf)-1] == '\n'
		}
		return len(buf) >= headerLen+payloadLen

	case bytes.HasPrefix(buf, []byte("BM")):
		if len(buf) < 6 {
			return false
		}
		return len(buf) >= int(binary.LittleEndian.Uint32(buf[2:6]))

	case bytes.HasPrefix(buf, pngSignature):
		return bytes.HasSuffix(buf, pngTrailer)

	case len(buf) < len(pngSignature) && bytes.HasPrefix(pngSignature, buf):
		return false
	}

	return buf[len(buf)-1] == '\n'
}
