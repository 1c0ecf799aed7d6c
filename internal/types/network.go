package types

import (
	"fmt"
	"net"
	"strings"

	"github.com/projectdiscovery/mapcidr"
)

// Network is a parsed IPv4 CIDR block. The zero value is not a valid network.
type Network struct {
	ipNet *net.IPNet
	base  int64
}

// ParseNetwork validates cidr and returns the network it describes.
// The address part is masked, so "192.168.1.7/24" is the same network as "192.168.1.0/24".
func ParseNetwork(cidr string) (Network, error) {
	cidr = strings.TrimSpace(cidr)

	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return Network{}, fmt.Errorf("%w %q: %w", ErrInvalidNetwork, cidr, err)
	}

	if ip.To4() == nil {
		return Network{}, fmt.Errorf("%w %q: not an IPv4 network", ErrInvalidNetwork, cidr)
	}

	// IPv4-mapped IPv6 notation parses with a 128 bit mask
	if _, bits := ipNet.Mask.Size(); bits != 32 {
		return Network{}, fmt.Errorf("%w %q: not an IPv4 prefix", ErrInvalidNetwork, cidr)
	}

	ipNet.IP = ipNet.IP.To4()

	return Network{
		ipNet: ipNet,
		base:  mapcidr.Inet_aton(ipNet.IP),
	}, nil
}

// MustParseNetwork is like ParseNetwork but panics on error.
func MustParseNetwork(cidr string) Network {
	n, err := ParseNetwork(cidr)
	if err != nil {
		panic(err)
	}
	return n
}

// IsZero reports whether n was never parsed.
func (n Network) IsZero() bool {
	return n.ipNet == nil
}

// String returns the canonical CIDR notation of the network.
func (n Network) String() string {
	if n.ipNet == nil {
		return "<nil>"
	}
	return n.ipNet.String()
}

// Prefix returns the prefix length.
func (n Network) Prefix() int {
	if n.ipNet == nil {
		return 0
	}
	ones, _ := n.ipNet.Mask.Size()
	return ones
}

// Size returns the number of addresses in the block, network and broadcast included.
func (n Network) Size() uint64 {
	if n.ipNet == nil {
		return 0
	}
	return mapcidr.AddressCountIpnet(n.ipNet)
}

// Contains reports whether offset addresses a host inside the block.
func (n Network) Contains(offset HostOffset) bool {
	return uint64(offset) < n.Size()
}

// Address returns the IPv4 address at offset. Offsets outside the block return nil.
func (n Network) Address(offset HostOffset) net.IP {
	if !n.Contains(offset) {
		return nil
	}
	return mapcidr.Inet_ntoa(n.base + int64(offset)).To4()
}

// IPNet returns a copy of the underlying block.
func (n Network) IPNet() *net.IPNet {
	if n.ipNet == nil {
		return nil
	}
	return &net.IPNet{
		IP:   append(net.IP(nil), n.ipNet.IP...),
		Mask: append(net.IPMask(nil), n.ipNet.Mask...),
	}
}
