package scpi

import (
	"context"
	"fmt"
	"time"

	"instrshot.dev/cli/internal/core/domain"
	"instrshot.dev/cli/internal/core/ports"
)

// ImageSizeMax bounds a screenshot response
const ImageSizeMax = 0x400000

// Exchange opens a session, sends every command in order and returns the
// response to the last one. Earlier commands are settings that produce no
// response.
func Exchange(ctx context.Context, dialer ports.Dialer, address string, timeout time.Duration, maxLength int, commands ...string) ([]byte, error) {
	if len(commands) == 0 {
		return nil, fmt.Errorf("scpi: no commands to send")
	}

	session, err := dialer.Dial(ctx, address, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConnectFailed, address, err)
	}
	defer session.Close()

	for _, cmd := range commands {
		if err := session.Send(ctx, []byte(cmd)); err != nil {
			return nil, fmt.Errorf("%w: %q: %w", domain.ErrSendFailed, cmd, err)
		}
	}

	response, err := session.Receive(ctx, maxLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrReceiveFailed, err)
	}
	return response, nil
}

// QueryBlock runs Exchange and strips the block header from the response
func QueryBlock(ctx context.Context, dialer ports.Dialer, address string, timeout time.Duration, commands ...string) ([]byte, error) {
	response, err := Exchange(ctx, dialer, address, timeout, ImageSizeMax, commands...)
	if err != nil {
		return nil, err
	}

	payload, err := DecodeBlock(response)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrReceiveFailed, err)
	}
	return payload, nil
}
