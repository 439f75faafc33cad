package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/domain"
	"instrshot.dev/cli/internal/core/ports"
	"instrshot.dev/cli/internal/core/selection"
)

// CaptureRequest describes one screenshot invocation
type CaptureRequest struct {
	Address    string
	PluginName string
	// Output overrides the generated file name when set
	Output  string
	Timeout time.Duration
}

// CaptureResult describes a finished capture. On selection failure in
// autodetect mode only Identity and Mode are set.
type CaptureResult struct {
	Plugin   string
	Mode     domain.SelectionMode
	Identity string
	Score    int
	Format   string
	Path     string
	Size     int
}

// ScreenshotService selects a plugin, captures the display and stores the image
type ScreenshotService struct {
	selector *selection.Selector
	writer   ports.ImageWriter
	history  ports.CaptureHistory
	logger   *zap.Logger
	now      func() time.Time
}

// NewScreenshotService creates the service. history may be nil.
func NewScreenshotService(
	selector *selection.Selector,
	writer ports.ImageWriter,
	history ports.CaptureHistory,
	logger *zap.Logger,
) *ScreenshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScreenshotService{
		selector: selector,
		writer:   writer,
		history:  history,
		logger:   logger,
		now:      time.Now,
	}
}

// Capture runs one screenshot invocation. Every failure is terminal; nothing
// is retried.
func (s *ScreenshotService) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	if req.Address == "" {
		return nil, domain.ErrMissingAddress
	}

	result, err := s.capture(ctx, req)
	s.record(ctx, req, result, err)
	return result, err
}

func (s *ScreenshotService) capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	selected, err := s.selector.Select(ctx, selection.Request{
		Address:    req.Address,
		PluginName: req.PluginName,
		Timeout:    req.Timeout,
	})
	if err != nil {
		return &CaptureResult{Mode: modeOf(req), Identity: selected.Identity}, err
	}

	p := selected.Plugin
	result := &CaptureResult{
		Plugin:   p.Name(),
		Mode:     selected.Mode,
		Identity: selected.Identity,
		Score:    selected.Score,
	}
	s.logger.Info("plugin selected",
		zap.String("plugin", p.Name()),
		zap.String("mode", string(selected.Mode)),
		zap.Int("score", selected.Score))

	data, err := p.Capture(ctx, req.Address, req.Timeout)
	if err != nil {
		return result, fmt.Errorf("%w: %s: %w", domain.ErrCaptureFailed, p.Name(), err)
	}

	result.Format = SniffFormat(data, p.Format())
	result.Size = len(data)

	path, err := s.writer.Write(req.Output, req.Address, data, result.Format)
	if err != nil {
		return result, err
	}
	result.Path = path

	s.logger.Debug("screenshot saved",
		zap.String("path", path),
		zap.String("format", result.Format),
		zap.Int("bytes", result.Size))
	return result, nil
}

func (s *ScreenshotService) record(ctx context.Context, req CaptureRequest, result *CaptureResult, captureErr error) {
	if s.history == nil {
		return
	}

	rec := domain.CaptureRecord{
		Address:    req.Address,
		Mode:       modeOf(req),
		CapturedAt: s.now(),
	}
	if result != nil {
		rec.Plugin = result.Plugin
		rec.Identity = result.Identity
		rec.Path = result.Path
		rec.Format = result.Format
		rec.Size = result.Size
	}
	if captureErr != nil {
		rec.Error = captureErr.Error()
	}

	if err := s.history.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record capture history", zap.Error(err))
	}
}

func modeOf(req CaptureRequest) domain.SelectionMode {
	if req.PluginName == "" {
		return domain.SelectionAutodetect
	}
	return domain.SelectionExplicit
}

var (
	pngSignature  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegSignature = []byte{0xff, 0xd8, 0xff}
)

// SniffFormat names the image format from its magic bytes, falling back to
// declared when the payload is not recognized.
func SniffFormat(data []byte, declared string) string {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return "png"
	case bytes.HasPrefix(data, jpegSignature):
		return "jpg"
	case bytes.HasPrefix(data, []byte("BM")):
		return "bmp"
	case declared != "":
		return declared
	}
	return "bin"
}
