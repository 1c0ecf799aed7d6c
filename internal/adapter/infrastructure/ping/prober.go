// Package ping provides a prober adapter that shells out to the operating system ping utility.
package ping

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"
)

// CommandFunc builds the command for one probe.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// ProberAdapter is an adapter that implements the Prober port by running one ping per probe.
// It needs no raw-socket privileges since the ping binary carries its own.
type ProberAdapter struct {
	binary  string
	goos    string
	command CommandFunc
}

// Ensure ProberAdapter implements the Prober port
var _ port.Prober = (*ProberAdapter)(nil)

// NewProberAdapter creates a new ping prober adapter for the running platform.
func NewProberAdapter() *ProberAdapter {
	return &ProberAdapter{
		binary:  "ping",
		goos:    runtime.GOOS,
		command: exec.CommandContext,
	}
}

// Probe runs a single-packet ping against addr.
func (p *ProberAdapter) Probe(ctx context.Context, addr net.IP, timeout time.Duration) (types.ProbeResult, error) {
	result := types.ProbeResult{Address: addr}

	if addr.To4() == nil {
		return result, fmt.Errorf("%w: %s is not an IPv4 address", types.ErrProbeDispatch, addr)
	}

	// the utility's own wait rounds to whole seconds; the context bounds it precisely
	probeCtx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()

	cmd := p.command(probeCtx, p.binary, pingArgs(p.goos, addr.To4(), timeout)...)
	if err := cmd.Start(); err != nil {
		return result, fmt.Errorf("%w: failed to start %s: %w", types.ErrProbeDispatch, p.binary, err)
	}

	err := cmd.Wait()
	switch {
	case err == nil:
		result.Reachable = true
	case probeCtx.Err() != nil:
		result.Err = fmt.Errorf("%w: no echo reply from %s within %s", types.ErrTimeout, addr, timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// iputils and BSD ping exit 2 on errors other than a missing reply
			if p.goos != "windows" && exitErr.ExitCode() == 2 {
				return result, fmt.Errorf("%w: %s exited with status 2 for %s", types.ErrProbeDispatch, p.binary, addr)
			}
			result.Err = fmt.Errorf("%w: %s exited with status %d for %s", types.ErrUnreachable, p.binary, exitErr.ExitCode(), addr)
		} else {
			result.Err = fmt.Errorf("%w: %s: %w", types.ErrUnreachable, addr, err)
		}
	}

	return result, nil
}

// pingArgs returns single-packet arguments for the given platform.
// Windows takes its wait in milliseconds, everything else in whole seconds.
func pingArgs(goos string, addr net.IP, timeout time.Duration) []string {
	if goos == "windows" {
		return []string{"-n", "1", addr.String(), "-w", strconv.FormatInt(timeout.Milliseconds(), 10)}
	}

	secs := int64((timeout + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return []string{"-c", "1", addr.String(), "-W", strconv.FormatInt(secs, 10)}
}
