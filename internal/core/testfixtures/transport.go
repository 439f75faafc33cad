package testfixtures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"instrshot.dev/cli/internal/core/ports"
)

// FakeDialer answers commands from a table instead of a network
type FakeDialer struct {
	// Responses maps a command to the bytes returned by the next Receive
	Responses map[string][]byte
	// DialErr fails every Dial when set
	DialErr error
	// ReceiveErr fails every Receive when set
	ReceiveErr error

	Dials    int
	Sent     []string
	Closed   int
	Timeouts []time.Duration
}

// NewFakeDialer creates a dialer with the given command responses
func NewFakeDialer(responses map[string][]byte) *FakeDialer {
	if responses == nil {
		responses = make(map[string][]byte)
	}
	return &FakeDialer{Responses: responses}
}

// IdentityDialer answers *IDN? with id
func IdentityDialer(id string) *FakeDialer {
	return NewFakeDialer(map[string][]byte{"*IDN?": []byte(id + "\n")})
}

func (d *FakeDialer) Name() string { return "fake" }

func (d *FakeDialer) Dial(ctx context.Context, address string, timeout time.Duration) (ports.Session, error) {
	d.Dials++
	d.Timeouts = append(d.Timeouts, timeout)
	if d.DialErr != nil {
		return nil, d.DialErr
	}
	return &fakeSession{dialer: d}, nil
}

type fakeSession struct {
	dialer  *FakeDialer
	pending []byte
	hasData bool
}

func (s *fakeSession) Send(ctx context.Context, data []byte) error {
	cmd := string(data)
	s.dialer.Sent = append(s.dialer.Sent, cmd)
	if resp, ok := s.dialer.Responses[cmd]; ok {
		s.pending, s.hasData = resp, true
	}
	return nil
}

func (s *fakeSession) Receive(ctx context.Context, maxLength int) ([]byte, error) {
	if s.dialer.ReceiveErr != nil {
		return nil, s.dialer.ReceiveErr
	}
	if !s.hasData {
		return nil, errors.New("fake: receive timed out")
	}
	s.hasData = false
	if len(s.pending) > maxLength {
		return s.pending[:maxLength], nil
	}
	return s.pending, nil
}

func (s *fakeSession) Close() error {
	s.dialer.Closed++
	return nil
}

// StaticResolver returns a fixed identity
type StaticResolver struct {
	Identity string
	Err      error
	Calls    int
}

func (r *StaticResolver) Resolve(ctx context.Context, address string, timeout time.Duration) (string, error) {
	r.Calls++
	if r.Err != nil {
		return "", r.Err
	}
	if address == "" {
		return "", fmt.Errorf("static resolver: empty address")
	}
	return r.Identity, nil
}
