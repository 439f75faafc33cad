package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDialer(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: VXI11},
		{name: VXI11, want: VXI11},
		{name: Raw, want: Raw},
		{name: "hislip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDialer(tt.name, Options{RawPort: 5555, VXI11Device: "inst1"}, nil)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unknown transport")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"vxi11", "raw"}, Names())
}
