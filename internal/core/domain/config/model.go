package configdomain

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry represents a single configuration value with provenance and priority.
type Entry struct {
	Key        string
	Value      interface{}
	Source     string
	SourcePath string
	Priority   int
}

// Snapshot is a collection of config entries keyed by field name.
type Snapshot map[string]Entry

// Merge merges another snapshot into this one respecting priority
// (lower number indicates higher priority).
func (s Snapshot) Merge(other Snapshot) {
	for k, e := range other {
		if existing, ok := s[k]; !ok || e.Priority <= existing.Priority {
			s[k] = e
		}
	}
}

// Field names shared by every loader
const (
	FieldTimeout       = "timeout"
	FieldTransport     = "transport"
	FieldRawPort       = "raw_port"
	FieldVXI11Device   = "vxi11_device"
	FieldOutputDir     = "output_dir"
	FieldHistoryDB     = "history_db"
	FieldLogLevel      = "log_level"
	FieldDebug         = "debug"
	FieldDiscoverPorts = "discover_ports"
)

// Fields lists every known field in display order
var Fields = []string{
	FieldTimeout, FieldTransport, FieldRawPort, FieldVXI11Device, FieldOutputDir,
	FieldHistoryDB, FieldLogLevel, FieldDebug, FieldDiscoverPorts,
}

// Settings is the resolved, typed configuration
type Settings struct {
	Timeout       time.Duration
	Transport     string
	RawPort       int
	VXI11Device   string
	OutputDir     string
	HistoryDB     string
	LogLevel      string
	Debug         bool
	DiscoverPorts []string
}

// DefaultSettings returns the settings used when no source sets a field
func DefaultSettings() Settings {
	historyDB := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyDB = filepath.Join(home, ".local", "share", "instrshot", "history.db")
	}
	return Settings{
		Timeout:       10 * time.Second,
		Transport:     "vxi11",
		RawPort:       5025,
		VXI11Device:   "inst0",
		HistoryDB:     historyDB,
		LogLevel:      "info",
		DiscoverPorts: []string{"111", "4880", "5025"},
	}
}

// Apply overlays the snapshot on s. Entries of the wrong type are reported
// with their source.
func (s Settings) Apply(snap Snapshot) (Settings, error) {
	for _, field := range Fields {
		e, ok := snap[field]
		if !ok {
			continue
		}

		var err error
		switch field {
		case FieldTimeout:
			s.Timeout, err = AsDuration(e.Value)
		case FieldTransport:
			s.Transport, err = asString(e.Value)
		case FieldRawPort:
			s.RawPort, err = asInt(e.Value)
		case FieldVXI11Device:
			s.VXI11Device, err = asString(e.Value)
		case FieldOutputDir:
			s.OutputDir, err = asString(e.Value)
		case FieldHistoryDB:
			s.HistoryDB, err = asString(e.Value)
		case FieldLogLevel:
			s.LogLevel, err = asString(e.Value)
		case FieldDebug:
			s.Debug, err = asBool(e.Value)
		case FieldDiscoverPorts:
			s.DiscoverPorts, err = asList(e.Value)
		}
		if err != nil {
			return s, fmt.Errorf("invalid %s from %s (%s): %w", field, e.Source, e.SourcePath, err)
		}
	}
	return s, nil
}

// AsDuration accepts a duration or a bare number of seconds
func AsDuration(x interface{}) (time.Duration, error) {
	switch t := x.(type) {
	case time.Duration:
		return t, nil
	case int:
		return time.Duration(t) * time.Second, nil
	case float64:
		return time.Duration(t * float64(time.Second)), nil
	case string:
		if secs, err := strconv.ParseFloat(t, 64); err == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		return time.ParseDuration(t)
	}
	return 0, fmt.Errorf("unsupported duration %v", x)
}

func asString(x interface{}) (string, error) {
	if s, ok := x.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string, got %T", x)
}

func asInt(x interface{}) (int, error) {
	switch t := x.(type) {
	case int:
		return t, nil
	case float64:
		return int(t), nil
	case string:
		return strconv.Atoi(t)
	}
	return 0, fmt.Errorf("expected integer, got %T", x)
}

func asBool(x interface{}) (bool, error) {
	switch t := x.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(t)
	}
	return false, fmt.Errorf("expected boolean, got %T", x)
}

func asList(x interface{}) ([]string, error) {
	switch t := x.(type) {
	case []string:
		return t, nil
	case string:
		var out []string
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, v := range t {
			out = append(out, fmt.Sprint(v))
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected list, got %T", x)
}
