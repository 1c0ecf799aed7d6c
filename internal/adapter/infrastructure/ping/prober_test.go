//go:build unit

package ping

import (
	"context"
	"net"
	"os/exec"
	"testing"
	"time"

	"golang-pingcompare/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingArgs(t *testing.T) {
	addr := net.ParseIP("192.168.1.5").To4()

	tests := []struct {
		name    string
		goos    string
		timeout time.Duration
		want    []string
	}{
		{"Linux", "linux", 2 * time.Second, []string{"-c", "1", "192.168.1.5", "-W", "2"}},
		{"LinuxRoundsUp", "linux", 1500 * time.Millisecond, []string{"-c", "1", "192.168.1.5", "-W", "2"}},
		{"LinuxMinimumOneSecond", "linux", 100 * time.Millisecond, []string{"-c", "1", "192.168.1.5", "-W", "1"}},
		{"Darwin", "darwin", time.Second, []string{"-c", "1", "192.168.1.5", "-W", "1"}},
		{"Windows", "windows", 2 * time.Second, []string{"-n", "1", "192.168.1.5", "-w", "2000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pingArgs(tt.goos, addr, tt.timeout))
		})
	}
}

// fakeAdapter runs name instead of ping, dropping the ping arguments.
func fakeAdapter(name string, args ...string) *ProberAdapter {
	return fakeAdapterFor("linux", name, args...)
}

func fakeAdapterFor(goos, name string, args ...string) *ProberAdapter {
	return &ProberAdapter{
		binary: name,
		goos:   goos,
		command: func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
			return exec.CommandContext(ctx, name, args...)
		},
	}
}

func TestProberAdapter_Probe(t *testing.T) {
	addr := net.ParseIP("10.0.0.1")

	t.Run("ZeroExitIsReachable", func(t *testing.T) {
		if _, err := exec.LookPath("true"); err != nil {
			t.Skip("true not available")
		}
		result, err := fakeAdapter("true").Probe(context.Background(), addr, time.Second)
		require.NoError(t, err)
		assert.True(t, result.Reachable)
		assert.NoError(t, result.Err)
	})

	t.Run("NonZeroExitIsUnreachable", func(t *testing.T) {
		if _, err := exec.LookPath("false"); err != nil {
			t.Skip("false not available")
		}
		result, err := fakeAdapter("false").Probe(context.Background(), addr, time.Second)
		require.NoError(t, err)
		assert.False(t, result.Reachable)
		assert.ErrorIs(t, result.Err, types.ErrUnreachable)
	})

	t.Run("ExitStatusTwoIsDispatchFailure", func(t *testing.T) {
		if _, err := exec.LookPath("sh"); err != nil {
			t.Skip("sh not available")
		}
		result, err := fakeAdapter("sh", "-c", "exit 2").Probe(context.Background(), addr, time.Second)
		assert.ErrorIs(t, err, types.ErrProbeDispatch)
		assert.False(t, result.Reachable)
	})

	t.Run("ExitStatusTwoOnWindowsIsUnreachable", func(t *testing.T) {
		if _, err := exec.LookPath("sh"); err != nil {
			t.Skip("sh not available")
		}
		result, err := fakeAdapterFor("windows", "sh", "-c", "exit 2").Probe(context.Background(), addr, time.Second)
		require.NoError(t, err)
		assert.False(t, result.Reachable)
		assert.ErrorIs(t, result.Err, types.ErrUnreachable)
	})

	t.Run("SlowCommandTimesOut", func(t *testing.T) {
		if _, err := exec.LookPath("sleep"); err != nil {
			t.Skip("sleep not available")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		result, err := fakeAdapter("sleep", "5").Probe(ctx, addr, time.Second)
		require.NoError(t, err)
		assert.False(t, result.Reachable)
		assert.ErrorIs(t, result.Err, types.ErrTimeout)
	})

	t.Run("MissingBinaryIsDispatchFailure", func(t *testing.T) {
		_, err := fakeAdapter("golang-pingcompare-no-such-binary").Probe(context.Background(), addr, time.Second)
		assert.ErrorIs(t, err, types.ErrProbeDispatch)
	})

	t.Run("NonIPv4AddressIsDispatchFailure", func(t *testing.T) {
		_, err := NewProberAdapter().Probe(context.Background(), net.ParseIP("::1"), time.Second)
		assert.ErrorIs(t, err, types.ErrProbeDispatch)
	})
}
