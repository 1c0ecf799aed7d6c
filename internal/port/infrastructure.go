// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -destination=../mock/mock_infrastructure.go -package=mock golang-pingcompare/internal/port Prober,NetworkManager,FileManager

import (
	"context"
	"net"
	"time"

	"golang-pingcompare/internal/types"

	"github.com/vishvananda/netlink"
)

// Prober is a port for single-address reachability probes.
type Prober interface {
	// Probe sends one probe to addr and waits up to timeout for an answer.
	// A timeout or negative answer is a result with Reachable=false, not an error.
	// The error is non-nil, wrapping types.ErrProbeDispatch, only when nothing could be sent.
	Probe(ctx context.Context, addr net.IP, timeout time.Duration) (types.ProbeResult, error)
}

// ProberFunc adapts an ordinary function to the Prober port.
type ProberFunc func(ctx context.Context, addr net.IP, timeout time.Duration) (types.ProbeResult, error)

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, addr net.IP, timeout time.Duration) (types.ProbeResult, error) {
	return f(ctx, addr, timeout)
}

// NetworkManager is a port for the local routing table.
// This interface abstracts netlink operations used to check that a probe can leave the host.
type NetworkManager interface {
	// RouteGet returns the routes the kernel would use to reach dst
	RouteGet(dst net.IP) ([]netlink.Route, error)

	// GetLinkByIndex returns the link a route egresses through
	GetLinkByIndex(index int) (netlink.Link, error)
}

// FileManager is a port for file system operations.
// This interface abstracts file read/write operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile writes data to a file with specified permissions
	WriteFile(filename string, data []byte, perm int) error

	// FileExists checks if a file exists
	FileExists(filename string) bool
}
