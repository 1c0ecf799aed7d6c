// Package scanner provides the concurrent NetworkScanner adapter.
package scanner

import (
	"context"
	"fmt"
	"iter"
	"net"
	"sync"
	"time"

	"golang-pingcompare/internal/pkg/enumerate"
	"golang-pingcompare/internal/pkg/logging"
	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"

	mapsutil "github.com/projectdiscovery/utils/maps"
	syncutil "github.com/projectdiscovery/utils/sync"
)

const (
	DefaultMaxConcurrency = 64
	DefaultProbeTimeout   = 2 * time.Second
	DefaultAttempts       = 1
)

// Options tunes a Scanner. Zero values take the defaults; a zero ScanTimeout means no scan deadline.
// Attempts above one re-probes addresses that were not reachable in the previous pass.
type Options struct {
	MaxConcurrency int
	ProbeTimeout   time.Duration
	Attempts       int
	ScanTimeout    time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrency <= 0 {
		o.MaxConcurrency = DefaultMaxConcurrency
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = DefaultProbeTimeout
	}
	if o.Attempts <= 0 {
		o.Attempts = DefaultAttempts
	}
	if o.ScanTimeout < 0 {
		o.ScanTimeout = 0
	}
	return o
}

// Scanner probes every enumerated address of a network through a bounded worker pool.
type Scanner struct {
	prober port.Prober
	opts   Options
}

// Ensure Scanner implements the NetworkScanner port
var _ port.NetworkScanner = (*Scanner)(nil)

// NewScanner creates a scanner that sends its probes through prober.
func NewScanner(prober port.Prober, opts Options) *Scanner {
	return &Scanner{
		prober: prober,
		opts:   opts.withDefaults(),
	}
}

// Options returns the effective options.
func (s *Scanner) Options() Options {
	return s.opts
}

// Scan probes every non-excluded address of network. The result holds exactly one entry per
// enumerated address: probe failures and scan timeout expiry are recorded, never returned.
// Only cancellation of ctx aborts the scan.
func (s *Scanner) Scan(ctx context.Context, network types.Network, excluded types.ExclusionSet) (*types.ScanResult, error) {
	if network.IsZero() {
		return nil, fmt.Errorf("%w: network not set", types.ErrInvalidNetwork)
	}

	logger := logging.WithComponentAndNetwork("scanner", network.String())
	total := enumerate.Count(network, excluded)
	logger.WithFields(map[string]interface{}{
		"addresses":   total,
		"concurrency": s.opts.MaxConcurrency,
		"attempts":    s.opts.Attempts,
	}).Info("Scanning network")

	scanCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.opts.ScanTimeout > 0 {
		scanCtx, cancel = context.WithTimeout(ctx, s.opts.ScanTimeout)
	}
	defer cancel()

	results := mapsutil.NewSyncLockMap[types.HostOffset, *types.ProbeResult]()

	targets := enumerate.Enumerate(network, excluded)
	for attempt := 1; attempt <= s.opts.Attempts; attempt++ {
		abandoned, err := s.pass(scanCtx, network, targets, results)
		if err != nil {
			return nil, err
		}
		if abandoned > 0 && ctx.Err() == nil {
			logger.WithField("abandoned", abandoned).Warn("Scan timeout expired, recording outstanding addresses as timed out")
		}
		if scanCtx.Err() != nil {
			break
		}

		retry := unreachable(targets, results)
		if len(retry) == 0 {
			break
		}
		if attempt < s.opts.Attempts {
			logger.WithFields(map[string]interface{}{
				"attempt":   attempt + 1,
				"addresses": len(retry),
			}).Debug("Retrying unreachable addresses")
		}
		targets = seqOf(retry)
	}

	if err := ctx.Err(); err != nil {
		logger.WithError(err).Warn("Scan cancelled")
		return nil, err
	}

	result := types.NewScanResult(network, total)
	for offset := range enumerate.Enumerate(network, excluded) {
		if r, ok := results.Get(offset); ok {
			result.Results[offset] = *r
		}
	}

	logger.WithFields(map[string]interface{}{
		"addresses":         result.Len(),
		"reachable":         result.ReachableCount(),
		"dispatch_failures": len(result.DispatchFailures()),
	}).Info("Scan finished")

	return result, nil
}

// pass dispatches one probe per target, at most MaxConcurrency at a time, and waits for all of them
// or for ctx to end. Once ctx ends, targets without an outcome from this pass are recorded as timed
// out and late outcomes are dropped. It returns how many targets were recorded that way.
func (s *Scanner) pass(ctx context.Context, network types.Network, targets iter.Seq2[types.HostOffset, net.IP], results *mapsutil.SyncLockMap[types.HostOffset, *types.ProbeResult]) (int, error) {
	awg, err := syncutil.New(syncutil.WithSize(s.opts.MaxConcurrency))
	if err != nil {
		return 0, fmt.Errorf("failed to create worker pool: %w", err)
	}

	var (
		mu        sync.Mutex
		closed    bool
		completed = make(map[types.HostOffset]struct{})
	)
	record := func(offset types.HostOffset, r *types.ProbeResult) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		completed[offset] = struct{}{}
		_ = results.Set(offset, r)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for offset, addr := range targets {
			awg.Add()
			if ctx.Err() != nil {
				awg.Done()
				break
			}
			go func(offset types.HostOffset, addr net.IP) {
				defer awg.Done()
				r := s.probe(ctx, network, offset, addr)
				record(offset, &r)
			}(offset, addr)
		}
		awg.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	closed = true

	abandoned := 0
	for offset, addr := range targets {
		if _, ok := completed[offset]; ok {
			continue
		}
		abandoned++
		_ = results.Set(offset, &types.ProbeResult{
			Offset:  offset,
			Address: addr,
			Err:     fmt.Errorf("%w: scan timeout %s expired before %s answered", types.ErrTimeout, s.opts.ScanTimeout, addr),
		})
	}
	return abandoned, nil
}

func (s *Scanner) probe(ctx context.Context, network types.Network, offset types.HostOffset, addr net.IP) types.ProbeResult {
	result, err := s.prober.Probe(ctx, addr, s.opts.ProbeTimeout)
	result.Offset = offset
	if result.Address == nil {
		result.Address = addr
	}
	if err != nil {
		logging.WithNetwork(network.String()).WithError(err).WithField("address", addr.String()).Warn("Probe dispatch failed")
		result.Reachable = false
		result.Err = err
	}
	return result
}

// unreachable returns the targets whose latest result is negative, in ascending offset order.
func unreachable(targets iter.Seq2[types.HostOffset, net.IP], results *mapsutil.SyncLockMap[types.HostOffset, *types.ProbeResult]) []enumerate.Target {
	var retry []enumerate.Target
	for offset, addr := range targets {
		if r, ok := results.Get(offset); ok && !r.Reachable {
			retry = append(retry, enumerate.Target{Offset: offset, Address: addr})
		}
	}
	return retry
}

func seqOf(targets []enumerate.Target) iter.Seq2[types.HostOffset, net.IP] {
	return func(yield func(types.HostOffset, net.IP) bool) {
		for _, t := range targets {
			if !yield(t.Offset, t.Address) {
				return
			}
		}
	}
}
