//go:build linux
// +build linux

package probe

import "golang.org/x/sys/unix"

// rejectsTraffic reports whether a route of type t drops or refuses packets.
func rejectsTraffic(t int) bool {
	switch t {
	case unix.RTN_UNREACHABLE, unix.RTN_PROHIBIT, unix.RTN_BLACKHOLE:
		return true
	}
	return false
}
