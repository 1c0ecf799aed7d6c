// Package network provides network management adapter implementation.
package network

import (
	"fmt"
	"net"

	"golang-pingcompare/internal/port"

	"github.com/vishvananda/netlink"
)

// ManagerAdapter is an adapter that implements the NetworkManager port using vishvananda/netlink library.
type ManagerAdapter struct{}

// Ensure ManagerAdapter implements the NetworkManager port
var _ port.NetworkManager = (*ManagerAdapter)(nil)

// NewManagerAdapter creates a new network manager adapter.
func NewManagerAdapter() *ManagerAdapter {
	return &ManagerAdapter{}
}

// RouteGet asks the kernel which routes it would use to reach dst.
func (n *ManagerAdapter) RouteGet(dst net.IP) ([]netlink.Route, error) {
	routes, err := netlink.RouteGet(dst)
	if err != nil {
		return nil, fmt.Errorf("failed to get route to %s: %w", dst, err)
	}
	return routes, nil
}

// GetLinkByIndex returns a network link by interface index.
func (n *ManagerAdapter) GetLinkByIndex(index int) (netlink.Link, error) {
	link, err := netlink.LinkByIndex(index)
	if err != nil {
		return nil, fmt.Errorf("failed to get netlink interface %d: %w", index, err)
	}
	return link, nil
}
