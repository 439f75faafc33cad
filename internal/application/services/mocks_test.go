package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"instrshot.dev/cli/internal/core/domain"
	"instrshot.dev/cli/internal/core/ports"
)

type MockImageWriter struct {
	mock.Mock
}

func (m *MockImageWriter) Write(output, address string, data []byte, format string) (string, error) {
	args := m.Called(output, address, data, format)
	return args.String(0), args.Error(1)
}

type MockCaptureHistory struct {
	mock.Mock
}

func (m *MockCaptureHistory) Record(ctx context.Context, record domain.CaptureRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCaptureHistory) List(ctx context.Context, limit int) ([]domain.CaptureRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CaptureRecord), args.Error(1)
}

func (m *MockCaptureHistory) Close() error {
	return m.Called().Error(0)
}

type MockHostScanner struct {
	mock.Mock
}

func (m *MockHostScanner) Scan(ctx context.Context, target string, scanPorts []string) ([]ports.DiscoveredHost, error) {
	args := m.Called(ctx, target, scanPorts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.DiscoveredHost), args.Error(1)
}
