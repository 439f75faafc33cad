package domain

import "time"

// SelectionMode records how the capture plugin was chosen
type SelectionMode string

const (
	// SelectionExplicit - plugin named by the caller
	SelectionExplicit SelectionMode = "explicit"
	// SelectionAutodetect - plugin matched against the instrument identity
	SelectionAutodetect SelectionMode = "autodetect"
)

// CaptureRecord is one entry of the capture history
type CaptureRecord struct {
	ID         string        `json:"id"`
	Address    string        `json:"address"`
	Plugin     string        `json:"plugin"`
	Mode       SelectionMode `json:"mode"`
	Identity   string        `json:"identity,omitempty"`
	Path       string        `json:"path,omitempty"`
	Format     string        `json:"format,omitempty"`
	Size       int           `json:"size"`
	Error      string        `json:"error,omitempty"`
	CapturedAt time.Time     `json:"captured_at"`
}

// Succeeded reports whether the capture produced a file
func (r CaptureRecord) Succeeded() bool {
	return r.Error == "" && r.Path != ""
}
