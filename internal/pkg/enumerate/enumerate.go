// Package enumerate expands a network into the host addresses to probe.
//
// Network and broadcast addresses are ordinary offsets (0 and Size-1). They are
// skipped only when their offset is excluded, so a /24 compared with the exclusion
// set {"0", "255"} yields offsets 1..254, and a /32 yields its single address.
package enumerate

import (
	"iter"
	"net"

	"golang-pingcompare/internal/types"
)

// Target is one address to probe together with its offset.
type Target struct {
	Offset  types.HostOffset
	Address net.IP
}

// Enumerate returns the non-excluded addresses of network in ascending offset order.
// The sequence is lazy and can be ranged over any number of times.
func Enumerate(network types.Network, excluded types.ExclusionSet) iter.Seq2[types.HostOffset, net.IP] {
	return func(yield func(types.HostOffset, net.IP) bool) {
		size := network.Size()
		for i := uint64(0); i < size; i++ {
			offset := types.HostOffset(i)
			if excluded.Contains(offset) {
				continue
			}
			if !yield(offset, network.Address(offset)) {
				return
			}
		}
	}
}

// EnumerateCIDR parses cidr and enumerates it. Malformed input fails with types.ErrInvalidNetwork.
func EnumerateCIDR(cidr string, excluded types.ExclusionSet) (iter.Seq2[types.HostOffset, net.IP], error) {
	network, err := types.ParseNetwork(cidr)
	if err != nil {
		return nil, err
	}
	return Enumerate(network, excluded), nil
}

// Collect materializes the enumeration of network.
func Collect(network types.Network, excluded types.ExclusionSet) []Target {
	targets := make([]Target, 0, Count(network, excluded))
	for offset, addr := range Enumerate(network, excluded) {
		targets = append(targets, Target{Offset: offset, Address: addr})
	}
	return targets
}

// Count returns the number of addresses Enumerate yields without walking the block.
func Count(network types.Network, excluded types.ExclusionSet) int {
	size := network.Size()
	n := size
	for offset := range excluded {
		if uint64(offset) < size {
			n--
		}
	}
	return int(n)
}
