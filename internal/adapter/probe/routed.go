// Package probe provides prober decorators.
package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"golang-pingcompare/internal/pkg/logging"
	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"

	"github.com/vishvananda/netlink"
)

// RoutedProber checks the local routing table before every probe so that a host
// the kernel cannot reach surfaces as a dispatch failure instead of a silent timeout.
type RoutedProber struct {
	next       port.Prober
	networkMgr port.NetworkManager
}

// Ensure RoutedProber implements the Prober port
var _ port.Prober = (*RoutedProber)(nil)

// NewRoutedProber wraps next with a route and link pre-check.
func NewRoutedProber(next port.Prober, networkMgr port.NetworkManager) *RoutedProber {
	return &RoutedProber{
		next:       next,
		networkMgr: networkMgr,
	}
}

// Probe resolves the egress route for addr and delegates to the wrapped prober when the link is usable.
func (p *RoutedProber) Probe(ctx context.Context, addr net.IP, timeout time.Duration) (types.ProbeResult, error) {
	if err := p.checkRoute(addr); err != nil {
		logging.WithComponent("route-check").WithError(err).WithField("address", addr.String()).Debug("Probe not dispatched")
		return types.ProbeResult{Address: addr}, err
	}
	return p.next.Probe(ctx, addr, timeout)
}

func (p *RoutedProber) checkRoute(addr net.IP) error {
	routes, err := p.networkMgr.RouteGet(addr)
	if err != nil {
		return fmt.Errorf("%w: no route to %s: %w", types.ErrProbeDispatch, addr, err)
	}
	if len(routes) == 0 {
		return fmt.Errorf("%w: no route to %s", types.ErrProbeDispatch, addr)
	}

	route := routes[0]
	if rejectsTraffic(route.Type) {
		return fmt.Errorf("%w: route to %s rejects traffic", types.ErrProbeDispatch, addr)
	}
	if route.LinkIndex == 0 {
		return nil
	}

	link, err := p.networkMgr.GetLinkByIndex(route.LinkIndex)
	if err != nil {
		return fmt.Errorf("%w: egress link for %s: %w", types.ErrProbeDispatch, addr, err)
	}
	attrs := link.Attrs()
	if attrs.Flags&net.FlagUp == 0 || attrs.OperState == netlink.OperDown {
		return fmt.Errorf("%w: egress link %s for %s is down", types.ErrProbeDispatch, attrs.Name, addr)
	}
	return nil
}
