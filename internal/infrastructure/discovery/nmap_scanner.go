// Package discovery finds LXI instruments on the local network
package discovery

import (
	"context"
	"fmt"
	"strings"

	nmap "github.com/Ullaakut/nmap/v3"
	"go.uber.org/zap"

	"instrshot.dev/cli/internal/core/ports"
)

// DefaultPorts are the portmapper, HiSLIP and raw SCPI ports
var DefaultPorts = []string{"111", "4880", "5025"}

// NmapScanner implements ports.HostScanner with the nmap binary
type NmapScanner struct {
	logger *zap.Logger
}

// NewNmapScanner creates a scanner
func NewNmapScanner(logger *zap.Logger) *NmapScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NmapScanner{logger: logger}
}

// Scan probes target (a host, range or CIDR) and returns the hosts with at
// least one of the given ports open.
func (s *NmapScanner) Scan(ctx context.Context, target string, scanPorts []string) ([]ports.DiscoveredHost, error) {
	if len(scanPorts) == 0 {
		scanPorts = DefaultPorts
	}

	scanner, err := nmap.NewScanner(
		ctx,
		nmap.WithTargets(target),
		nmap.WithPorts(strings.Join(scanPorts, ",")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	s.logger.Debug("nmap scan started", zap.String("target", target), zap.Strings("ports", scanPorts))
	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		s.logger.Warn("nmap reported warnings", zap.String("target", target), zap.Strings("warnings", *warnings))
	}

	return hostsFromRun(result), nil
}

// hostsFromRun keeps the hosts that are up and have an open port
func hostsFromRun(result *nmap.Run) []ports.DiscoveredHost {
	if result == nil {
		return nil
	}

	var hosts []ports.DiscoveredHost
	for _, host := range result.Hosts {
		if len(host.Addresses) == 0 || host.Status.State != "up" {
			continue
		}

		found := ports.DiscoveredHost{Address: primaryAddress(host)}
		if len(host.Hostnames) > 0 {
			found.Hostname = host.Hostnames[0].Name
		}
		for _, port := range host.Ports {
			if port.State.State == "open" {
				found.OpenPorts = append(found.OpenPorts, port.ID)
			}
		}
		if len(found.OpenPorts) > 0 {
			hosts = append(hosts, found)
		}
	}
	return hosts
}

func primaryAddress(host nmap.Host) string {
	for _, addr := range host.Addresses {
		if addr.AddrType == "ipv4" {
			return addr.Addr
		}
	}
	return host.Addresses[0].Addr
}

var _ ports.HostScanner = (*NmapScanner)(nil)
