// Package report renders the outcome of a comparison run as a YAML or JSON document.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-pingcompare/internal/pkg/logging"
	"golang-pingcompare/internal/port"
	"golang-pingcompare/internal/types"

	"gopkg.in/yaml.v3"
)

// Source is the comparison state a report is built from.
type Source interface {
	RunID() string
	Exclusions() types.ExclusionSet
	Results() (*types.ScanResult, *types.ScanResult, error)
	Mismatches() ([]types.Mismatch, error)
}

// Side is one network's half of a mismatch.
type Side struct {
	Address   string `yaml:"address" json:"address"`
	Reachable bool   `yaml:"reachable" json:"reachable"`
	Detail    string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// MismatchEntry describes one offset whose reachability differs.
type MismatchEntry struct {
	Offset        uint32 `yaml:"offset" json:"offset"`
	FailedAddress string `yaml:"failed_address" json:"failed_address"`
	A             Side   `yaml:"a" json:"a"`
	B             Side   `yaml:"b" json:"b"`
}

// FailureEntry describes a probe that could not be sent.
type FailureEntry struct {
	Network string `yaml:"network" json:"network"`
	Offset  uint32 `yaml:"offset" json:"offset"`
	Address string `yaml:"address" json:"address"`
	Error   string `yaml:"error" json:"error"`
}

// NetworkSummary counts one network's scan outcome.
type NetworkSummary struct {
	CIDR      string `yaml:"cidr" json:"cidr"`
	Probed    int    `yaml:"probed" json:"probed"`
	Reachable int    `yaml:"reachable" json:"reachable"`
}

// Report is the serialized outcome of one run.
type Report struct {
	RunID            string          `yaml:"run_id" json:"run_id"`
	GeneratedAt      time.Time       `yaml:"generated_at" json:"generated_at"`
	Excluded         []string        `yaml:"excluded" json:"excluded"`
	NetworkA         NetworkSummary  `yaml:"network_a" json:"network_a"`
	NetworkB         NetworkSummary  `yaml:"network_b" json:"network_b"`
	Mismatches       []MismatchEntry `yaml:"mismatches" json:"mismatches"`
	DispatchFailures []FailureEntry  `yaml:"dispatch_failures" json:"dispatch_failures"`
}

// Build assembles the report of the last successful run of src.
func Build(src Source, now time.Time) (*Report, error) {
	resultA, resultB, err := src.Results()
	if err != nil {
		return nil, err
	}
	mismatches, err := src.Mismatches()
	if err != nil {
		return nil, err
	}

	r := &Report{
		RunID:            src.RunID(),
		GeneratedAt:      now.UTC(),
		Excluded:         src.Exclusions().Identifiers(),
		NetworkA:         summarize(resultA),
		NetworkB:         summarize(resultB),
		Mismatches:       make([]MismatchEntry, 0, len(mismatches)),
		DispatchFailures: make([]FailureEntry, 0),
	}

	for _, m := range mismatches {
		r.Mismatches = append(r.Mismatches, MismatchEntry{
			Offset:        uint32(m.Offset),
			FailedAddress: m.FailedAddress().String(),
			A:             side(m.A),
			B:             side(m.B),
		})
	}

	for _, res := range []*types.ScanResult{resultA, resultB} {
		for _, f := range res.DispatchFailures() {
			r.DispatchFailures = append(r.DispatchFailures, FailureEntry{
				Network: res.Network.String(),
				Offset:  uint32(f.Offset),
				Address: f.Address.String(),
				Error:   f.Err.Error(),
			})
		}
	}

	return r, nil
}

// Encode renders the report in format, "yaml" or "json".
func (r *Report) Encode(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report as yaml: %w", err)
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode report as json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Writer persists reports through the FileManager port.
type Writer struct {
	fileMgr port.FileManager
}

// NewWriter creates a report writer.
func NewWriter(fileMgr port.FileManager) *Writer {
	return &Writer{fileMgr: fileMgr}
}

// Write encodes r in format and writes it to path, replacing any earlier report.
func (w *Writer) Write(r *Report, path, format string) error {
	data, err := r.Encode(format)
	if err != nil {
		return err
	}
	if w.fileMgr.FileExists(path) {
		logging.WithComponent("report").WithField("path", path).Warn("Replacing existing report")
	}
	if err := w.fileMgr.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func summarize(res *types.ScanResult) NetworkSummary {
	return NetworkSummary{
		CIDR:      res.Network.String(),
		Probed:    res.Len(),
		Reachable: res.ReachableCount(),
	}
}

func side(r types.ProbeResult) Side {
	s := Side{Address: r.Address.String(), Reachable: r.Reachable}
	if r.Err != nil {
		s.Detail = r.Err.Error()
	}
	return s
}
