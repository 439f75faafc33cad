package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/domain"
	"instrshot.dev/cli/internal/core/ports"
	"instrshot.dev/cli/internal/core/selection"
)

// Detection is the identity of one instrument and the plugins matching it
type Detection struct {
	Address    string
	Hostname   string
	OpenPorts  []uint16
	Identity   string
	Candidates []selection.Candidate
	// Err is set when the instrument did not answer the identity query
	Err error
}

// Best returns the plugin auto-detect would select, or "" when none matches
func (d Detection) Best() string {
	if len(d.Candidates) == 0 {
		return ""
	}
	return d.Candidates[0].Plugin.Name()
}

// DiscoveryService identifies instruments without capturing from them
type DiscoveryService struct {
	resolver selection.IdentityResolver
	selector *selection.Selector
	scanner  ports.HostScanner
	logger   *zap.Logger
}

// NewDiscoveryService creates the service. scanner is only needed by Discover.
func NewDiscoveryService(
	resolver selection.IdentityResolver,
	selector *selection.Selector,
	scanner ports.HostScanner,
	logger *zap.Logger,
) *DiscoveryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscoveryService{resolver: resolver, selector: selector, scanner: scanner, logger: logger}
}

// Detect queries the identity of the instrument at address and ranks every
// matching plugin.
func (s *DiscoveryService) Detect(ctx context.Context, address string, timeout time.Duration) (*Detection, error) {
	if address == "" {
		return nil, domain.ErrMissingAddress
	}

	identity, err := s.resolver.Resolve(ctx, address, timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIdentityUnavailable, err)
	}

	return &Detection{
		Address:    address,
		Identity:   identity,
		Candidates: s.selector.Rank(identity),
	}, nil
}

// Discover scans target for hosts with instrument ports open and probes each
// one in turn. Hosts that do not answer are reported with Err set.
func (s *DiscoveryService) Discover(ctx context.Context, target string, scanPorts []string, timeout time.Duration) ([]Detection, error) {
	if s.scanner == nil {
		return nil, fmt.Errorf("no host scanner configured")
	}

	hosts, err := s.scanner.Scan(ctx, target, scanPorts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("scan finished", zap.String("target", target), zap.Int("hosts", len(hosts)))

	detections := make([]Detection, 0, len(hosts))
	for _, host := range hosts {
		if err := ctx.Err(); err != nil {
			return detections, err
		}

		d := Detection{Address: host.Address, Hostname: host.Hostname, OpenPorts: host.OpenPorts}
		found, err := s.Detect(ctx, host.Address, timeout)
		if err != nil {
			s.logger.Debug("identity query failed", zap.String("address", host.Address), zap.Error(err))
			d.Err = err
		} else {
			d.Identity = found.Identity
			d.Candidates = found.Candidates
		}
		detections = append(detections, d)
	}
	return detections, nil
}
