// Package selection picks the capture plugin for an instrument, either by
// explicit name or by scoring every registered plugin's identity patterns
// against the instrument ID.
package selection

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/domain"
	"instrshot.dev/cli/internal/core/plugin"
)

// IdentityResolver fetches the identity string of the instrument at address
type IdentityResolver interface {
	Resolve(ctx context.Context, address string, timeout time.Duration) (string, error)
}

// Request describes one selection. An empty PluginName selects by identity.
type Request struct {
	Address    string
	PluginName string
	Timeout    time.Duration
}

// Result is the selected plugin and how it was found
type Result struct {
	Plugin   plugin.Plugin
	Mode     domain.SelectionMode
	Identity string
	Score    int
}

// Candidate is a plugin that matched an identity string
type Candidate struct {
	Plugin plugin.Plugin
	Score  int
}

// Selector chooses exactly one plugin from a registry
type Selector struct {
	registry *plugin.Registry
	resolver IdentityResolver
	patterns *patternCache
	logger   *zap.Logger
}

// NewSelector creates a selector over registry. resolver is only used in autodetect mode.
func NewSelector(registry *plugin.Registry, resolver IdentityResolver, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		registry: registry,
		resolver: resolver,
		patterns: newPatternCache(),
		logger:   logger,
	}
}

// Select resolves the request to a single plugin
func (s *Selector) Select(ctx context.Context, req Request) (Result, error) {
	if req.PluginName != "" {
		return s.selectByName(req.PluginName)
	}
	return s.selectByIdentity(ctx, req.Address, req.Timeout)
}

func (s *Selector) selectByName(name string) (Result, error) {
	p, ok := s.registry.Lookup(name)
	if !ok {
		return Result{}, domain.ErrUnknownPluginName(name)
	}
	return Result{Plugin: p, Mode: domain.SelectionExplicit}, nil
}

func (s *Selector) selectByIdentity(ctx context.Context, address string, timeout time.Duration) (Result, error) {
	if s.resolver == nil {
		return Result{}, fmt.Errorf("%w: no identity resolver configured", domain.ErrIdentityUnavailable)
	}

	identity, err := s.resolver.Resolve(ctx, address, timeout)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", domain.ErrIdentityUnavailable, err)
	}
	s.logger.Debug("instrument identity", zap.String("address", address), zap.String("id", identity))

	p, score := s.Match(identity)
	if p == nil {
		return Result{Identity: identity}, domain.ErrNoPluginDetected
	}

	return Result{
		Plugin:   p,
		Mode:     domain.SelectionAutodetect,
		Identity: identity,
		Score:    score,
	}, nil
}

// Match returns the plugin with the most matching patterns. Only a strictly
// greater count replaces the current winner, so ties go to the plugin
// registered first. A nil plugin means nothing matched.
func (s *Selector) Match(identity string) (plugin.Plugin, int) {
	var winner plugin.Plugin
	best := 0

	for p := range s.registry.All() {
		score := s.patterns.score(identity, p)
		s.logger.Debug("plugin score", zap.String("plugin", p.Name()), zap.Int("matches", score))
		if score > best {
			winner = p
			best = score
		}
	}

	return winner, best
}

// Rank returns every plugin matching identity, best first. Equal scores keep
// registration order.
func (s *Selector) Rank(identity string) []Candidate {
	var candidates []Candidate
	for p := range s.registry.All() {
		if score := s.patterns.score(identity, p); score > 0 {
			candidates = append(candidates, Candidate{Plugin: p, Score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
