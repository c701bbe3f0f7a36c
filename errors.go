// Package idworker - errors.go defines the structured error types.
//
// The worker has exactly two failure surfaces: invalid configuration at
// construction and a backwards-moving clock at generation. Both are exposed
// as sentinel errors for errors.Is and as structured types for errors.As.

package idworker

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors. Use errors.Is to classify failures regardless of the
// structured type wrapping them.
var (
	// ErrInvalidConfig is returned from construction when the node ID,
	// data-center ID, epoch, layout or tolerance is out of range. It is never
	// returned after a worker has been constructed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClockMovedBack is returned from generation when the clock reads
	// earlier than the last recorded timestamp and the drift exceeds the
	// configured tolerance. The worker performs no retry; the caller decides
	// whether to retry, alert or fail the surrounding request.
	ErrClockMovedBack = errors.New("clock moved backwards")

	// ErrContextCanceled is returned when the context is canceled while the
	// worker is waiting (clock-drift tolerance wait or a long batch).
	ErrContextCanceled = errors.New("context canceled")
)

// ClockError reports a clock regression with the exact timing details,
// which makes NTP steps, manual clock changes and VM migrations easier to
// diagnose from logs.
//
// Example:
//
//	_, err := w.NextID()
//	var clockErr *idworker.ClockError
//	if errors.As(err, &clockErr) {
//	    log.Printf("clock drift: %dms (node %d)", clockErr.DriftMillis, clockErr.NodeID)
//	}
type ClockError struct {
	// CurrentTimestamp is the clock reading that triggered the error, in
	// milliseconds.
	CurrentTimestamp int64

	// LastTimestamp is the timestamp recorded by the previous successful
	// generation, in milliseconds.
	LastTimestamp int64

	// DriftMillis is how far backwards the clock moved (always positive).
	DriftMillis int64

	// ToleranceMillis is the configured maximum drift the worker will wait
	// out before failing.
	ToleranceMillis int64

	// NodeID and DataCenterID identify the worker that observed the drift.
	NodeID       int64
	DataCenterID int64
}

// Error implements the error interface.
func (e *ClockError) Error() string {
	return fmt.Sprintf("clock moved backwards: drift=%dms tolerance=%dms current=%d last=%d dc=%d node=%d",
		e.DriftMillis, e.ToleranceMillis, e.CurrentTimestamp, e.LastTimestamp, e.DataCenterID, e.NodeID)
}

// Unwrap makes errors.Is(err, ErrClockMovedBack) true.
func (e *ClockError) Unwrap() error {
	return ErrClockMovedBack
}

// Drift returns the regression amount as a time.Duration.
func (e *ClockError) Drift() time.Duration {
	return time.Duration(e.DriftMillis) * time.Millisecond
}

// ConfigError reports which configuration field failed validation and why.
//
// Example:
//
//	_, err := idworker.New(99, 0)
//	var cfgErr *idworker.ConfigError
//	if errors.As(err, &cfgErr) {
//	    log.Printf("bad %s: %s (%s)", cfgErr.Field, cfgErr.Value, cfgErr.Constraint)
//	}
type ConfigError struct {
	// Field is the configuration field that failed validation.
	Field string

	// Value is the rejected value, formatted for logging.
	Value string

	// Reason is a short explanation of the failure.
	Reason string

	// Constraint describes the valid range, e.g. "must be between 0 and 31".
	Constraint string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%s (%s) - %s",
		e.Field, e.Value, e.Reason, e.Constraint)
}

// Unwrap makes errors.Is(err, ErrInvalidConfig) true.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// IsClockError reports whether err is or wraps a *ClockError.
func IsClockError(err error) bool {
	var clockErr *ClockError
	return errors.As(err, &clockErr)
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// AsClockError extracts the *ClockError from an error chain.
func AsClockError(err error) (*ClockError, bool) {
	var clockErr *ClockError
	if errors.As(err, &clockErr) {
		return clockErr, true
	}
	return nil, false
}

// AsConfigError extracts the *ConfigError from an error chain.
func AsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}

func newClockError(currentTs, lastTs, toleranceMs, dataCenterID, nodeID int64) *ClockError {
	return &ClockError{
		CurrentTimestamp: currentTs,
		LastTimestamp:    lastTs,
		DriftMillis:      lastTs - currentTs,
		ToleranceMillis:  toleranceMs,
		NodeID:           nodeID,
		DataCenterID:     dataCenterID,
	}
}

func newConfigError(field, value, reason, constraint string) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Reason:     reason,
		Constraint: constraint,
	}
}
