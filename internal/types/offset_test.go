//go:build unit

package types

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExclusionSet(t *testing.T) {
	t.Run("ValidIdentifiers", func(t *testing.T) {
		set, err := NewExclusionSet([]string{"255", "0", " 17 ", "0"})
		require.NoError(t, err)
		assert.Equal(t, 3, set.Len())
		assert.True(t, set.Contains(0))
		assert.True(t, set.Contains(17))
		assert.True(t, set.Contains(255))
		assert.False(t, set.Contains(1))
		assert.Equal(t, []string{"0", "17", "255"}, set.Identifiers())
	})

	t.Run("EmptyIdentifiers", func(t *testing.T) {
		set, err := NewExclusionSet(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("MalformedIdentifier", func(t *testing.T) {
		for _, id := range []string{"abc", "-1", "1.5", "", "192.168.1.1"} {
			_, err := NewExclusionSet([]string{"0", id})
			assert.ErrorIs(t, err, ErrInvalidExclusion, id)
		}
	})

	t.Run("NilSetExcludesNothing", func(t *testing.T) {
		var set ExclusionSet
		assert.False(t, set.Contains(0))
		assert.Nil(t, set.Clone())
	})

	t.Run("CloneIsIndependent", func(t *testing.T) {
		set, err := NewExclusionSet([]string{"1"})
		require.NoError(t, err)
		clone := set.Clone()
		clone[2] = struct{}{}
		assert.False(t, set.Contains(2))
	})
}

func TestScanResult(t *testing.T) {
	network := MustParseNetwork("10.0.0.0/29")
	result := NewScanResult(network, 3)
	result.Results[5] = ProbeResult{Offset: 5, Address: network.Address(5), Reachable: true}
	result.Results[1] = ProbeResult{Offset: 1, Address: network.Address(1), Err: ErrTimeout}
	result.Results[3] = ProbeResult{Offset: 3, Address: network.Address(3), Err: errors.Join(ErrProbeDispatch, errors.New("permission denied"))}

	assert.Equal(t, 3, result.Len())
	assert.Equal(t, []HostOffset{1, 3, 5}, result.Offsets())
	assert.Equal(t, 1, result.ReachableCount())

	failures := result.DispatchFailures()
	require.Len(t, failures, 1)
	assert.Equal(t, HostOffset(3), failures[0].Offset)

	r, ok := result.Get(1)
	require.True(t, ok)
	assert.True(t, r.TimedOut())
	assert.False(t, r.DispatchFailed())

	var nilResult *ScanResult
	assert.Equal(t, 0, nilResult.Len())
	assert.Nil(t, nilResult.Offsets())
}

func TestMismatch(t *testing.T) {
	set := MismatchSet{3, 17, 200}
	assert.True(t, set.Contains(17))
	assert.False(t, set.Contains(18))
	assert.Equal(t, []string{"3", "17", "200"}, set.Strings())

	m := Mismatch{
		Offset: 17,
		A:      ProbeResult{Offset: 17, Address: net.ParseIP("192.168.1.17"), Reachable: false},
		B:      ProbeResult{Offset: 17, Address: net.ParseIP("192.168.2.17"), Reachable: true},
	}
	assert.Equal(t, "192.168.1.17", m.FailedAddress().String())

	m.A.Reachable, m.B.Reachable = true, false
	assert.Equal(t, "192.168.2.17", m.FailedAddress().String())
}
