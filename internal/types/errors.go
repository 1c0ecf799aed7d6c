// Package types defines common types used across the application.
package types

import "errors"

var (
	// ErrInvalidNetwork is returned when a CIDR string does not describe an IPv4 network.
	ErrInvalidNetwork = errors.New("invalid network")

	// ErrInvalidExclusion is returned when an exclusion identifier is not a host offset.
	ErrInvalidExclusion = errors.New("invalid exclusion identifier")

	// ErrProbeDispatch marks a probe that could not be sent at all.
	ErrProbeDispatch = errors.New("probe dispatch failed")

	// ErrTimeout marks a probe that got no answer within the probe or scan timeout.
	ErrTimeout = errors.New("probe timed out")

	// ErrUnreachable marks a probe answered negatively (destination unreachable, non-zero ping exit).
	ErrUnreachable = errors.New("host unreachable")

	// ErrNotConfigured is returned by Run before the networks are configured.
	ErrNotConfigured = errors.New("comparator not configured")

	// ErrNotRun is returned by Output before a run completed successfully.
	ErrNotRun = errors.New("comparator has not run")
)
