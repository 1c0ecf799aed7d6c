//go:build !linux
// +build !linux

package probe

// rejectsTraffic is a no-op where the routing table carries no rejecting route types
func rejectsTraffic(int) bool {
	return false
}
