package ports

import (
	"context"

	"instrshot.dev/cli/internal/core/domain"
)

// ImageWriter persists a captured image and returns where it was written.
// An empty output asks the writer to generate a name from address and format.
type ImageWriter interface {
	Write(output, address string, data []byte, format string) (string, error)
}

// CaptureHistory records capture attempts
type CaptureHistory interface {
	Record(ctx context.Context, record domain.CaptureRecord) error
	List(ctx context.Context, limit int) ([]domain.CaptureRecord, error)
	Close() error
}

// HostScanner finds hosts in target with any of ports open
type HostScanner interface {
	Scan(ctx context.Context, target string, ports []string) ([]DiscoveredHost, error)
}

// DiscoveredHost is a host answering on at least one instrument port
type DiscoveredHost struct {
	Address   string
	Hostname  string
	OpenPorts []uint16
}
