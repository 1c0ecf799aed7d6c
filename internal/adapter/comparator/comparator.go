// Package comparator compares the per-host reachability of two IPv4 networks.
package comparator

import (
	"context"
	"fmt"
	"sync"

	"golang-pingcompare/internal/pkg/logging"
	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"

	"github.com/rs/xid"
	"golang.org/x/sync/errgroup"
)

// Comparator scans two networks with the same exclusions and reports the host offsets
// whose reachability differs. It is safe for concurrent use; runs are serialized.
type Comparator struct {
	scanner port.NetworkScanner

	runMu sync.Mutex

	mu       sync.RWMutex
	networkA types.Network
	networkB types.Network
	excluded types.ExclusionSet
	runID    string
	resultA  *types.ScanResult
	resultB  *types.ScanResult
}

// New creates an unconfigured comparator.
func New(scanner port.NetworkScanner) *Comparator {
	return &Comparator{scanner: scanner}
}

// NewConfigured creates a comparator for networkA and networkB.
func NewConfigured(scanner port.NetworkScanner, networkA, networkB string) (*Comparator, error) {
	c := New(scanner)
	if err := c.Configure(networkA, networkB); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure sets the two networks to compare. Both must be valid IPv4 CIDR blocks;
// on error the previous configuration is kept. Results of earlier runs are discarded.
func (c *Comparator) Configure(networkA, networkB string) error {
	a, err := types.ParseNetwork(networkA)
	if err != nil {
		return err
	}
	b, err := types.ParseNetwork(networkB)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkA, c.networkB = a, b
	c.clearResults()
	return nil
}

// Exclude replaces the exclusion set applied to both networks on the next run.
// On error the previous set is kept.
func (c *Comparator) Exclude(identifiers []string) error {
	set, err := types.NewExclusionSet(identifiers)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.excluded = set
	return nil
}

// Networks returns the configured networks.
func (c *Comparator) Networks() (types.Network, types.Network) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkA, c.networkB
}

// Exclusions returns a copy of the current exclusion set.
func (c *Comparator) Exclusions() types.ExclusionSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.excluded.Clone()
}

// Run scans both networks concurrently and stores their results, replacing those of any
// earlier run. A failed run leaves no results behind.
func (c *Comparator) Run(ctx context.Context) error {
	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	if c.networkA.IsZero() || c.networkB.IsZero() {
		c.mu.Unlock()
		return types.ErrNotConfigured
	}
	networkA, networkB := c.networkA, c.networkB
	excluded := c.excluded.Clone()
	c.clearResults()
	c.mu.Unlock()

	runID := xid.New().String()
	logger := logging.WithComponent("comparator").WithField("run_id", runID)
	logger.WithFields(map[string]interface{}{
		"network_a": networkA.String(),
		"network_b": networkB.String(),
		"excluded":  excluded.Identifiers(),
	}).Info("Starting comparison run")

	var resultA, resultB *types.ScanResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := c.scanner.Scan(gctx, networkA, excluded)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", networkA, err)
		}
		resultA = r
		return nil
	})
	g.Go(func() error {
		r, err := c.scanner.Scan(gctx, networkB, excluded)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", networkB, err)
		}
		resultB = r
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Comparison run failed")
		return err
	}

	c.mu.Lock()
	c.runID, c.resultA, c.resultB = runID, resultA, resultB
	c.mu.Unlock()

	logger.WithField("mismatches", len(mismatches(resultA, resultB))).Info("Comparison run complete")
	return nil
}

// Output returns the ascending offsets, present in both results, whose reachability differs.
// The set is empty, not nil, when the networks agree.
func (c *Comparator) Output() (types.MismatchSet, error) {
	detail, err := c.Mismatches()
	if err != nil {
		return nil, err
	}
	out := make(types.MismatchSet, 0, len(detail))
	for _, m := range detail {
		out = append(out, m.Offset)
	}
	return out, nil
}

// Mismatches returns both probe results for every mismatching offset.
func (c *Comparator) Mismatches() ([]types.Mismatch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.resultA == nil || c.resultB == nil {
		return nil, types.ErrNotRun
	}
	return mismatches(c.resultA, c.resultB), nil
}

// Results returns the scan results of the last successful run.
func (c *Comparator) Results() (*types.ScanResult, *types.ScanResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.resultA == nil || c.resultB == nil {
		return nil, nil, types.ErrNotRun
	}
	return c.resultA, c.resultB, nil
}

// RunID returns the identifier of the last successful run, or "" if there is none.
func (c *Comparator) RunID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runID
}

// caller holds mu
func (c *Comparator) clearResults() {
	c.runID, c.resultA, c.resultB = "", nil, nil
}

func mismatches(a, b *types.ScanResult) []types.Mismatch {
	out := make([]types.Mismatch, 0)
	for _, offset := range a.Offsets() {
		ra := a.Results[offset]
		rb, ok := b.Get(offset)
		if !ok || ra.Reachable == rb.Reachable {
			continue
		}
		out = append(out, types.Mismatch{Offset: offset, A: ra, B: rb})
	}
	return out
}
