package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instrshot.dev/cli/internal/core/domain"
	"instrshot.dev/cli/internal/core/testfixtures"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected string
	}{
		{
			name:     "TrailingNewline_ShouldBeStripped",
			response: "RIGOL TECHNOLOGIES,DS1104Z,DS1ZA1234,00.04.04\n",
			expected: "RIGOL TECHNOLOGIES,DS1104Z,DS1ZA1234,00.04.04",
		},
		{
			name:     "NoNewline_ShouldBeUnchanged",
			response: "SIGLENT TECHNOLOGIES,SDM3065X,SDM36,1.01",
			expected: "SIGLENT TECHNOLOGIES,SDM3065X,SDM36,1.01",
		},
		{
			name:     "OnlyOneNewlineStripped",
			response: "ACME\n\n",
			expected: "ACME\n",
		},
		{
			name:     "EmptyResponse",
			response: "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialer := testfixtures.NewFakeDialer(map[string][]byte{Query: []byte(tt.response)})
			r := NewResolver(dialer, nil)

			id, err := r.Resolve(context.Background(), "10.0.0.5", 3*time.Second)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
			assert.Equal(t, []string{"*IDN?"}, dialer.Sent)
			assert.Equal(t, 1, dialer.Closed, "session must be closed")
			assert.Equal(t, []time.Duration{3 * time.Second}, dialer.Timeouts, "timeout must be passed through unchanged")
		})
	}
}

func TestResolver_Resolve_ConnectFailed(t *testing.T) {
	dialer := testfixtures.NewFakeDialer(nil)
	dialer.DialErr = errors.New("no route to host")

	_, err := NewResolver(dialer, nil).Resolve(context.Background(), "10.0.0.5", time.Second)

	assert.ErrorIs(t, err, domain.ErrConnectFailed)
	assert.Contains(t, err.Error(), "no route to host")
	assert.Zero(t, dialer.Closed)
}

func TestResolver_Resolve_ReceiveFailed(t *testing.T) {
	dialer := testfixtures.NewFakeDialer(nil)
	dialer.ReceiveErr = errors.New("i/o timeout")

	_, err := NewResolver(dialer, nil).Resolve(context.Background(), "10.0.0.5", time.Second)

	assert.ErrorIs(t, err, domain.ErrReceiveFailed)
	assert.Equal(t, 1, dialer.Closed)
}

func TestResolver_Resolve_BoundsResponse(t *testing.T) {
	long := make([]byte, MaxLength+100)
	for i := range long {
		long[i] = 'A'
	}
	dialer := testfixtures.NewFakeDialer(map[string][]byte{Query: long})

	id, err := NewResolver(dialer, nil).Resolve(context.Background(), "10.0.0.5", time.Second)

	require.NoError(t, err)
	assert.Len(t, id, MaxLength)
}
