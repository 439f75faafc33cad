package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instrshot.dev/cli/internal/core/domain"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)
}

func TestFileWriter_Filename(t *testing.T) {
	w := NewFileWriter("", nil, WithClock(fixedClock))

	tests := []struct {
		name    string
		address string
		format  string
		want    string
	}{
		{"IPv4", "192.168.1.10", "png", "screenshot_192.168.1.10_2024-03-07_09:05:03.png"},
		{"Hostname", "scope.lab", "bmp", "screenshot_scope.lab_2024-03-07_09:05:03.bmp"},
		{"SlashReplaced", "lab/scope", "png", "screenshot_lab_scope_2024-03-07_09:05:03.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Filename(tt.address, tt.format))
		})
	}
}

func TestFileWriter_Write_GeneratedName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	w := NewFileWriter(dir, nil, WithClock(fixedClock))

	path, err := w.Write("", "10.0.0.5", []byte("BMdata"), "bmp")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "screenshot_10.0.0.5_2024-03-07_09:05:03.bmp"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "BMdata", string(data))
}

func TestFileWriter_Write_ExplicitOutputIgnoresDir(t *testing.T) {
	output := filepath.Join(t.TempDir(), "scope.png")
	w := NewFileWriter("/nonexistent/dir", nil)

	path, err := w.Write(output, "10.0.0.5", []byte("png"), "png")
	require.NoError(t, err)
	assert.Equal(t, output, path)
	assert.FileExists(t, output)
}

func TestFileWriter_Write_Failure(t *testing.T) {
	output := filepath.Join(t.TempDir(), "missing", "scope.png")

	_, err := NewFileWriter("", nil).Write(output, "10.0.0.5", []byte("png"), "png")

	assert.ErrorIs(t, err, domain.ErrFileWriteFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "shots"), ExpandPath("~/shots"))
	assert.Equal(t, "/tmp/x", ExpandPath("/tmp/x"))
	assert.Equal(t, "", ExpandPath(""))
}
