package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// HostOffset is the position of a host relative to its network address.
// Offset 0 is the network address itself; for a /24 the offset equals the last octet.
type HostOffset uint32

// String returns the decimal identifier form of the offset.
func (o HostOffset) String() string {
	return strconv.FormatUint(uint64(o), 10)
}

// ParseHostOffset parses the decimal identifier form of an offset.
func ParseHostOffset(s string) (HostOffset, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("host offset %q: %w", s, err)
	}
	return HostOffset(v), nil
}

// ExclusionSet holds the host offsets skipped in both compared networks.
// A nil set excludes nothing.
type ExclusionSet map[HostOffset]struct{}

// NewExclusionSet converts host identifiers such as "0" and "255" into a set.
// Duplicates collapse; any malformed identifier fails the whole conversion.
func NewExclusionSet(identifiers []string) (ExclusionSet, error) {
	set := make(ExclusionSet, len(identifiers))
	for _, id := range identifiers {
		offset, err := ParseHostOffset(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidExclusion, err)
		}
		set[offset] = struct{}{}
	}
	return set, nil
}

// Contains reports whether offset is excluded.
func (s ExclusionSet) Contains(offset HostOffset) bool {
	_, ok := s[offset]
	return ok
}

// Len returns the number of excluded offsets.
func (s ExclusionSet) Len() int {
	return len(s)
}

// Identifiers returns the excluded offsets in ascending order as strings.
func (s ExclusionSet) Identifiers() []string {
	offsets := make([]HostOffset, 0, len(s))
	for offset := range s {
		offsets = append(offsets, offset)
	}
	slices.Sort(offsets)

	ids := make([]string, 0, len(offsets))
	for _, offset := range offsets {
		ids = append(ids, offset.String())
	}
	return ids
}

// Clone returns an independent copy of the set.
func (s ExclusionSet) Clone() ExclusionSet {
	if s == nil {
		return nil
	}
	out := make(ExclusionSet, len(s))
	for offset := range s {
		out[offset] = struct{}{}
	}
	return out
}
