package idworker

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// ClockError Tests
// ============================================================================

func TestClockErrorError(t *testing.T) {
	err := newClockError(1000, 1500, 5, 3, 42)

	msg := err.Error()

	if !strings.Contains(msg, "clock moved backwards") {
		t.Error("Error message should contain 'clock moved backwards'")
	}
	if !strings.Contains(msg, "drift=500ms") {
		t.Errorf("Error message should contain drift amount, got: %s", msg)
	}
	if !strings.Contains(msg, "node=42") {
		t.Errorf("Error message should contain node ID, got: %s", msg)
	}
	if !strings.Contains(msg, "dc=3") {
		t.Errorf("Error message should contain data-center ID, got: %s", msg)
	}
	if !strings.Contains(msg, "tolerance=5ms") {
		t.Errorf("Error message should contain tolerance, got: %s", msg)
	}
}

func TestClockErrorUnwrap(t *testing.T) {
	err := newClockError(1000, 1500, 5, 3, 42)

	if !errors.Is(err, ErrClockMovedBack) {
		t.Error("ClockError should unwrap to ErrClockMovedBack")
	}
}

func TestClockErrorDrift(t *testing.T) {
	err := newClockError(1000, 1500, 5, 3, 42)

	if err.DriftMillis != 500 {
		t.Errorf("DriftMillis = %d, want 500", err.DriftMillis)
	}
	if got := err.Drift(); got != 500*time.Millisecond {
		t.Errorf("Drift() = %v, want %v", got, 500*time.Millisecond)
	}
}

func TestClockErrorFields(t *testing.T) {
	err := newClockError(900, 1200, 10, 7, 21)

	if err.CurrentTimestamp != 900 {
		t.Errorf("CurrentTimestamp = %d, want 900", err.CurrentTimestamp)
	}
	if err.LastTimestamp != 1200 {
		t.Errorf("LastTimestamp = %d, want 1200", err.LastTimestamp)
	}
	if err.ToleranceMillis != 10 {
		t.Errorf("ToleranceMillis = %d, want 10", err.ToleranceMillis)
	}
	if err.DataCenterID != 7 {
		t.Errorf("DataCenterID = %d, want 7", err.DataCenterID)
	}
	if err.NodeID != 21 {
		t.Errorf("NodeID = %d, want 21", err.NodeID)
	}
}

// ============================================================================
// ConfigError Tests
// ============================================================================

func TestConfigErrorError(t *testing.T) {
	err := newConfigError("NodeID", "32", "out of range", "must be between 0 and 31")

	msg := err.Error()

	if !strings.Contains(msg, "NodeID") {
		t.Errorf("Error message should contain field name, got: %s", msg)
	}
	if !strings.Contains(msg, "32") {
		t.Errorf("Error message should contain value, got: %s", msg)
	}
	if !strings.Contains(msg, "out of range") {
		t.Errorf("Error message should contain reason, got: %s", msg)
	}
	if !strings.Contains(msg, "must be between 0 and 31") {
		t.Errorf("Error message should contain constraint, got: %s", msg)
	}
}

func TestConfigErrorUnwrap(t *testing.T) {
	err := newConfigError("NodeID", "32", "out of range", "must be between 0 and 31")

	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("ConfigError should unwrap to ErrInvalidConfig")
	}
}

// ============================================================================
// Classification Helper Tests
// ============================================================================

func TestIsClockError(t *testing.T) {
	clockErr := newClockError(1000, 1500, 5, 0, 1)
	cfgErr := newConfigError("NodeID", "-1", "negative", "must be >= 0")

	if !IsClockError(clockErr) {
		t.Error("IsClockError() should be true for *ClockError")
	}
	if IsClockError(cfgErr) {
		t.Error("IsClockError() should be false for *ConfigError")
	}
	if IsClockError(nil) {
		t.Error("IsClockError(nil) should be false")
	}

	// Classification survives wrapping.
	wrapped := fmt.Errorf("generation failed: %w", clockErr)
	if !IsClockError(wrapped) {
		t.Error("IsClockError() should be true through a wrap")
	}
	if !errors.Is(wrapped, ErrClockMovedBack) {
		t.Error("wrapped ClockError should still match ErrClockMovedBack")
	}
}

func TestIsConfigError(t *testing.T) {
	clockErr := newClockError(1000, 1500, 5, 0, 1)
	cfgErr := newConfigError("NodeID", "-1", "negative", "must be >= 0")

	if !IsConfigError(cfgErr) {
		t.Error("IsConfigError() should be true for *ConfigError")
	}
	if IsConfigError(clockErr) {
		t.Error("IsConfigError() should be false for *ClockError")
	}
	if IsConfigError(nil) {
		t.Error("IsConfigError(nil) should be false")
	}
}

func TestAsClockError(t *testing.T) {
	clockErr := newClockError(1000, 1500, 5, 2, 9)

	extracted, ok := AsClockError(fmt.Errorf("wrapped: %w", clockErr))
	if !ok {
		t.Fatal("AsClockError() should extract through a wrap")
	}
	if extracted.NodeID != 9 || extracted.DataCenterID != 2 {
		t.Errorf("extracted (dc %d, node %d), want (2, 9)",
			extracted.DataCenterID, extracted.NodeID)
	}

	if _, ok := AsClockError(errors.New("plain")); ok {
		t.Error("AsClockError() should be false for an unrelated error")
	}
}

func TestAsConfigError(t *testing.T) {
	cfgErr := newConfigError("Epoch", "0", "must be positive", "epoch must be > 0")

	extracted, ok := AsConfigError(fmt.Errorf("wrapped: %w", cfgErr))
	if !ok {
		t.Fatal("AsConfigError() should extract through a wrap")
	}
	if extracted.Field != "Epoch" {
		t.Errorf("extracted Field = %q, want %q", extracted.Field, "Epoch")
	}

	if _, ok := AsConfigError(errors.New("plain")); ok {
		t.Error("AsConfigError() should be false for an unrelated error")
	}
}
