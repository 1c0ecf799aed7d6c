// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -destination=../mock/mock_network.go -package=mock golang-pingcompare/internal/port NetworkScanner

import (
	"context"

	"golang-pingcompare/internal/types"
)

// NetworkScanner is the primary port for probing every host of one network.
// The comparator depends on this port; the concurrent scanner adapter implements it.
type NetworkScanner interface {
	// Scan probes every non-excluded address of network and returns one result per address.
	// Probe failures are recorded in the result and never abort the scan.
	Scan(ctx context.Context, network types.Network, excluded types.ExclusionSet) (*types.ScanResult, error)
}
