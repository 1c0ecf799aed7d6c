package types

import (
	"errors"
	"net"
	"slices"
)

// ProbeResult is the outcome of probing one address.
type ProbeResult struct {
	Offset    HostOffset
	Address   net.IP
	Reachable bool
	// Err explains a negative result: ErrTimeout, ErrUnreachable or ErrProbeDispatch.
	Err error
}

// DispatchFailed reports whether the probe could not be sent at all.
func (r ProbeResult) DispatchFailed() bool {
	return errors.Is(r.Err, ErrProbeDispatch)
}

// TimedOut reports whether the probe ended without an answer.
func (r ProbeResult) TimedOut() bool {
	return errors.Is(r.Err, ErrTimeout)
}

// ScanResult maps every enumerated, non-excluded offset of one network to its probe result.
type ScanResult struct {
	Network Network
	Results map[HostOffset]ProbeResult
}

// NewScanResult returns an empty result for network.
func NewScanResult(network Network, capacity int) *ScanResult {
	return &ScanResult{
		Network: network,
		Results: make(map[HostOffset]ProbeResult, capacity),
	}
}

// Len returns the number of probed offsets.
func (s *ScanResult) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Results)
}

// Get returns the result for offset.
func (s *ScanResult) Get(offset HostOffset) (ProbeResult, bool) {
	if s == nil {
		return ProbeResult{}, false
	}
	r, ok := s.Results[offset]
	return r, ok
}

// Offsets returns the probed offsets in ascending order.
func (s *ScanResult) Offsets() []HostOffset {
	if s == nil {
		return nil
	}
	offsets := make([]HostOffset, 0, len(s.Results))
	for offset := range s.Results {
		offsets = append(offsets, offset)
	}
	slices.Sort(offsets)
	return offsets
}

// ReachableCount returns how many offsets answered.
func (s *ScanResult) ReachableCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.Results {
		if r.Reachable {
			n++
		}
	}
	return n
}

// DispatchFailures returns the results whose probe could not be sent, ordered by offset.
func (s *ScanResult) DispatchFailures() []ProbeResult {
	var failures []ProbeResult
	for _, offset := range s.Offsets() {
		if r := s.Results[offset]; r.DispatchFailed() {
			failures = append(failures, r)
		}
	}
	return failures
}

// MismatchSet is the ascending list of offsets whose reachability differs between two networks.
type MismatchSet []HostOffset

// Contains reports whether offset is in the set.
func (m MismatchSet) Contains(offset HostOffset) bool {
	_, found := slices.BinarySearch(m, offset)
	return found
}

// Strings returns the identifier form of every offset.
func (m MismatchSet) Strings() []string {
	out := make([]string, 0, len(m))
	for _, offset := range m {
		out = append(out, offset.String())
	}
	return out
}

// Mismatch pairs the two disagreeing results for one offset.
type Mismatch struct {
	Offset HostOffset
	A      ProbeResult
	B      ProbeResult
}

// FailedAddress returns the address on the side that did not answer.
func (m Mismatch) FailedAddress() net.IP {
	if m.A.Reachable {
		return m.B.Address
	}
	return m.A.Address
}
