package idworker

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// ============================================================================
// BitLayout.Validate() Tests
// ============================================================================

func TestBitLayoutValidateValidLayouts(t *testing.T) {
	tests := []struct {
		name   string
		layout BitLayout
	}{
		{"LayoutDefault", LayoutDefault},
		{"LayoutWideCluster", LayoutWideCluster},
		{"LayoutLongLife", LayoutLongLife},
		{"LayoutHighThroughput", LayoutHighThroughput},
		{
			"Custom 40+6+5+12",
			BitLayout{
				TimestampBits:  40,
				DataCenterBits: 6,
				NodeBits:       5,
				SequenceBits:   12,
			},
		},
		{
			"No data-center partition",
			BitLayout{
				TimestampBits:  41,
				DataCenterBits: 0,
				NodeBits:       10,
				SequenceBits:   12,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.layout.Validate(); err != nil {
				t.Errorf("Validate() should succeed for %s, got error: %v", tt.name, err)
			}
		})
	}
}

func TestBitLayoutValidateInvalidSum(t *testing.T) {
	tests := []struct {
		name   string
		layout BitLayout
	}{
		{
			"Sum < 63",
			BitLayout{TimestampBits: 40, DataCenterBits: 5, NodeBits: 5, SequenceBits: 10},
		},
		{
			"Sum > 63",
			BitLayout{TimestampBits: 42, DataCenterBits: 6, NodeBits: 6, SequenceBits: 12},
		},
		{
			"Zero layout",
			BitLayout{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if err == nil {
				t.Fatalf("Validate() should fail for %s", tt.name)
			}
			if !errors.Is(err, ErrInvalidBitLayout) {
				t.Errorf("Expected ErrInvalidBitLayout, got: %v", err)
			}
		})
	}
}

func TestBitLayoutValidateNegativeValues(t *testing.T) {
	tests := []struct {
		name   string
		layout BitLayout
	}{
		{
			"Negative TimestampBits",
			BitLayout{TimestampBits: -1, DataCenterBits: 5, NodeBits: 5, SequenceBits: 12},
		},
		{
			"Negative DataCenterBits",
			BitLayout{TimestampBits: 41, DataCenterBits: -1, NodeBits: 5, SequenceBits: 12},
		},
		{
			"Negative NodeBits",
			BitLayout{TimestampBits: 41, DataCenterBits: 5, NodeBits: -1, SequenceBits: 12},
		},
		{
			"Negative SequenceBits",
			BitLayout{TimestampBits: 41, DataCenterBits: 5, NodeBits: 5, SequenceBits: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if !errors.Is(err, ErrInvalidBitLayout) {
				t.Errorf("Expected ErrInvalidBitLayout, got: %v", err)
			}
		})
	}
}

func TestBitLayoutValidateFieldRanges(t *testing.T) {
	tests := []struct {
		name   string
		layout BitLayout
	}{
		{
			"Timestamp too narrow",
			BitLayout{TimestampBits: 37, DataCenterBits: 7, NodeBits: 7, SequenceBits: 12},
		},
		{
			"Timestamp too wide",
			BitLayout{TimestampBits: 45, DataCenterBits: 3, NodeBits: 3, SequenceBits: 12},
		},
		{
			"DataCenter too wide",
			BitLayout{TimestampBits: 38, DataCenterBits: 11, NodeBits: 2, SequenceBits: 12},
		},
		{
			"Node too wide",
			BitLayout{TimestampBits: 38, DataCenterBits: 2, NodeBits: 11, SequenceBits: 12},
		},
		{
			"Sequence too narrow",
			BitLayout{TimestampBits: 44, DataCenterBits: 7, NodeBits: 7, SequenceBits: 5},
		},
		{
			"Sequence too wide",
			BitLayout{TimestampBits: 38, DataCenterBits: 4, NodeBits: 4, SequenceBits: 17},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if !errors.Is(err, ErrInvalidBitLayout) {
				t.Errorf("Expected ErrInvalidBitLayout, got: %v", err)
			}
		})
	}
}

// ============================================================================
// Shift Derivation Tests
// ============================================================================

func TestBitLayoutShifts(t *testing.T) {
	tsShift, dcShift, nodeShift, maxDC, maxNode, maxSeq := LayoutDefault.Shifts()

	if nodeShift != 12 {
		t.Errorf("nodeShift = %d, want 12", nodeShift)
	}
	if dcShift != 17 {
		t.Errorf("dcShift = %d, want 17", dcShift)
	}
	if tsShift != 22 {
		t.Errorf("tsShift = %d, want 22", tsShift)
	}
	if maxDC != 31 {
		t.Errorf("maxDC = %d, want 31", maxDC)
	}
	if maxNode != 31 {
		t.Errorf("maxNode = %d, want 31", maxNode)
	}
	if maxSeq != 4095 {
		t.Errorf("maxSeq = %d, want 4095", maxSeq)
	}

	// The derived default-layout values must agree with the package
	// constants used by the layout-free accessors.
	if tsShift != TimestampShift || dcShift != DataCenterIDShift || nodeShift != NodeIDShift {
		t.Errorf("LayoutDefault shifts (%d,%d,%d) disagree with constants (%d,%d,%d)",
			tsShift, dcShift, nodeShift, TimestampShift, DataCenterIDShift, NodeIDShift)
	}
	if maxDC != MaxDataCenterID || maxNode != MaxNodeID || maxSeq != MaxSequence {
		t.Errorf("LayoutDefault maxima (%d,%d,%d) disagree with constants (%d,%d,%d)",
			maxDC, maxNode, maxSeq, MaxDataCenterID, MaxNodeID, MaxSequence)
	}
}

func TestBitLayoutShiftsDerivation(t *testing.T) {
	// Shifts are pure functions of the widths for any layout.
	layouts := []BitLayout{LayoutDefault, LayoutWideCluster, LayoutLongLife, LayoutHighThroughput}

	for _, l := range layouts {
		tsShift, dcShift, nodeShift, maxDC, maxNode, maxSeq := l.Shifts()

		if nodeShift != l.SequenceBits {
			t.Errorf("nodeShift = %d, want %d", nodeShift, l.SequenceBits)
		}
		if dcShift != l.SequenceBits+l.NodeBits {
			t.Errorf("dcShift = %d, want %d", dcShift, l.SequenceBits+l.NodeBits)
		}
		if tsShift != l.SequenceBits+l.NodeBits+l.DataCenterBits {
			t.Errorf("tsShift = %d, want %d", tsShift, l.SequenceBits+l.NodeBits+l.DataCenterBits)
		}
		if maxDC != (1<<l.DataCenterBits)-1 {
			t.Errorf("maxDC = %d, want %d", maxDC, (1<<l.DataCenterBits)-1)
		}
		if maxNode != (1<<l.NodeBits)-1 {
			t.Errorf("maxNode = %d, want %d", maxNode, (1<<l.NodeBits)-1)
		}
		if maxSeq != (1<<l.SequenceBits)-1 {
			t.Errorf("maxSeq = %d, want %d", maxSeq, (1<<l.SequenceBits)-1)
		}
	}
}

// ============================================================================
// ID Bound Tests
// ============================================================================

func TestBitLayoutValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		nodeID  int64
		wantErr bool
	}{
		{"Zero", 0, false},
		{"Max", 31, false},
		{"Negative", -1, true},
		{"Too large", 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LayoutDefault.ValidateNodeID(tt.nodeID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%d) error = %v, wantErr %v", tt.nodeID, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrLayoutIDTooLarge) {
				t.Errorf("Expected ErrLayoutIDTooLarge, got: %v", err)
			}
		})
	}
}

func TestBitLayoutValidateDataCenterID(t *testing.T) {
	tests := []struct {
		name         string
		dataCenterID int64
		wantErr      bool
	}{
		{"Zero", 0, false},
		{"Max", 31, false},
		{"Negative", -1, true},
		{"Too large", 32, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LayoutDefault.ValidateDataCenterID(tt.dataCenterID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDataCenterID(%d) error = %v, wantErr %v", tt.dataCenterID, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrLayoutIDTooLarge) {
				t.Errorf("Expected ErrLayoutIDTooLarge, got: %v", err)
			}
		})
	}
}

// ============================================================================
// Capacity Tests
// ============================================================================

func TestBitLayoutCapacity(t *testing.T) {
	c := LayoutDefault.Capacity()

	if c.MaxDataCenters != 32 {
		t.Errorf("MaxDataCenters = %d, want 32", c.MaxDataCenters)
	}
	if c.MaxNodes != 32 {
		t.Errorf("MaxNodes = %d, want 32", c.MaxNodes)
	}
	if c.MaxSequence != 4095 {
		t.Errorf("MaxSequence = %d, want 4095", c.MaxSequence)
	}
	if c.ThroughputPerWorker != 4096000 {
		t.Errorf("ThroughputPerWorker = %d, want 4096000", c.ThroughputPerWorker)
	}

	// 2^41 ms is roughly 69 years.
	years := c.Lifespan.Hours() / 24 / 365
	if years < 69 || years > 70 {
		t.Errorf("Lifespan = %.1f years, want ~69", years)
	}

	s := c.String()
	if !strings.Contains(s, "DataCenters: 32") {
		t.Errorf("Capacity string missing data-center count: %s", s)
	}
	if !strings.Contains(s, "NodesPerDC: 32") {
		t.Errorf("Capacity string missing node count: %s", s)
	}
}

func TestBitLayoutCapacityLongLife(t *testing.T) {
	c := LayoutLongLife.Capacity()

	if c.MaxDataCenters != 16 || c.MaxNodes != 16 {
		t.Errorf("capacity = %d dc x %d nodes, want 16 x 16", c.MaxDataCenters, c.MaxNodes)
	}

	// 2^43 ms is roughly 278 years.
	years := c.Lifespan.Hours() / 24 / 365
	if years < 278 || years > 280 {
		t.Errorf("Lifespan = %.1f years, want ~278", years)
	}
}

func TestBitLayoutCapacitySaturation(t *testing.T) {
	// 44 timestamp bits exceed what time.Duration can represent; Capacity
	// must report the cap instead of a wrapped negative duration.
	l := BitLayout{TimestampBits: 44, DataCenterBits: 3, NodeBits: 4, SequenceBits: 12}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	c := l.Capacity()
	if c.Lifespan <= 0 {
		t.Errorf("Lifespan = %v, must not wrap negative", c.Lifespan)
	}
	if c.Lifespan != time.Duration(1<<63-1) {
		t.Errorf("Lifespan = %v, want the duration cap", c.Lifespan)
	}
}
