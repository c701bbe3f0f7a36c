// Package idworker - layout.go defines the bit partition of a 64-bit ID.
//
// Every shift and mask used by the worker is derived from a BitLayout, never
// written as a literal constant. A layout reserves 1 sign bit and splits the
// remaining 63 bits between timestamp, data-center ID, node ID and sequence.

package idworker

import (
	"errors"
	"fmt"
	"time"
)

// BitLayout describes how the 63 usable bits of an ID are allocated.
//
// The four fields must sum to exactly 63 (a 64-bit signed integer minus the
// reserved sign bit). The partition fixes the trade-off between:
//   - Lifespan: years until the timestamp field overflows
//   - Scale: number of data-centers × nodes per data-center
//   - Throughput: IDs per millisecond per worker
//
// A layout is a deployment-time constant. Every cooperating worker in a
// deployment must use the same layout (and the same epoch), or uniqueness
// across nodes is lost. IDs produced under different layouts are mutually
// incompatible and must not be mixed in one keyspace.
//
// Example:
//
//	cfg := idworker.DefaultConfig(3, 1)
//	cfg.Layout = idworker.LayoutWideCluster
//	w, err := idworker.NewWithConfig(cfg)
type BitLayout struct {
	// TimestampBits is the width of the elapsed-milliseconds field.
	// 41 bits gives ~69 years from the epoch.
	TimestampBits int

	// DataCenterBits is the width of the data-center ID field.
	DataCenterBits int

	// NodeBits is the width of the node (machine/process) ID field.
	NodeBits int

	// SequenceBits is the width of the per-millisecond counter.
	// 12 bits allows 4096 IDs per millisecond per worker.
	SequenceBits int
}

// Predefined layouts. All satisfy the 63-bit constraint.
var (
	// LayoutDefault is the classic Twitter Snowflake partition:
	// 41-bit timestamp, 5-bit data-center, 5-bit node, 12-bit sequence.
	//
	//   - Lifespan: ~69 years from the epoch
	//   - Scale: 32 data-centers × 32 nodes
	//   - Throughput: 4096 IDs/ms per worker
	LayoutDefault = BitLayout{
		TimestampBits:  41,
		DataCenterBits: 5,
		NodeBits:       5,
		SequenceBits:   12,
	}

	// LayoutWideCluster trades timestamp range for node capacity:
	// 39+6+8+10. 256 nodes per data-center for large single-region fleets.
	//
	//   - Lifespan: ~17 years from the epoch
	//   - Scale: 64 data-centers × 256 nodes
	//   - Throughput: 1024 IDs/ms per worker
	LayoutWideCluster = BitLayout{
		TimestampBits:  39,
		DataCenterBits: 6,
		NodeBits:       8,
		SequenceBits:   10,
	}

	// LayoutLongLife extends the timestamp field for systems that must
	// outlive a normal software lifecycle: 43+4+4+12.
	//
	//   - Lifespan: ~278 years from the epoch
	//   - Scale: 16 data-centers × 16 nodes
	//   - Throughput: 4096 IDs/ms per worker
	LayoutLongLife = BitLayout{
		TimestampBits:  43,
		DataCenterBits: 4,
		NodeBits:       4,
		SequenceBits:   12,
	}

	// LayoutHighThroughput widens the sequence field for workers that must
	// sustain more than 4096 IDs per millisecond: 41+4+4+14.
	//
	//   - Lifespan: ~69 years from the epoch
	//   - Scale: 16 data-centers × 16 nodes
	//   - Throughput: 16384 IDs/ms per worker
	LayoutHighThroughput = BitLayout{
		TimestampBits:  41,
		DataCenterBits: 4,
		NodeBits:       4,
		SequenceBits:   14,
	}
)

// Errors related to bit layout validation.
var (
	// ErrInvalidBitLayout is returned when a BitLayout is invalid.
	ErrInvalidBitLayout = errors.New("invalid bit layout")

	// ErrLayoutIDTooLarge is returned when a node or data-center ID exceeds
	// the capacity of a layout field.
	ErrLayoutIDTooLarge = errors.New("id too large for layout")
)

// Validate checks that the layout is usable.
//
// A valid layout must sum to exactly 63 bits, have a non-negative width for
// every field, and keep each field inside a practical range:
//   - TimestampBits: 38-44 (8.7 to 557 years)
//   - DataCenterBits, NodeBits: 0-10 each
//   - SequenceBits: 6-16 (64 to 65536 IDs per millisecond)
//
// A zero width for the data-center field is allowed; deployments that do not
// partition by data-center simply run every worker with DataCenterID 0.
func (l BitLayout) Validate() error {
	if l.TimestampBits < 0 || l.DataCenterBits < 0 || l.NodeBits < 0 || l.SequenceBits < 0 {
		return fmt.Errorf("%w: field widths must be non-negative (%d/%d/%d/%d)",
			ErrInvalidBitLayout, l.TimestampBits, l.DataCenterBits, l.NodeBits, l.SequenceBits)
	}

	total := l.TimestampBits + l.DataCenterBits + l.NodeBits + l.SequenceBits
	if total != 63 {
		return fmt.Errorf("%w: widths must sum to 63, got %d (%d+%d+%d+%d)",
			ErrInvalidBitLayout, total, l.TimestampBits, l.DataCenterBits, l.NodeBits, l.SequenceBits)
	}

	if l.TimestampBits < 38 || l.TimestampBits > 44 {
		return fmt.Errorf("%w: timestamp bits should be 38-44 for a usable lifespan, got %d",
			ErrInvalidBitLayout, l.TimestampBits)
	}
	if l.DataCenterBits > 10 {
		return fmt.Errorf("%w: data-center bits should be 0-10, got %d",
			ErrInvalidBitLayout, l.DataCenterBits)
	}
	if l.NodeBits > 10 {
		return fmt.Errorf("%w: node bits should be 0-10, got %d",
			ErrInvalidBitLayout, l.NodeBits)
	}
	if l.SequenceBits < 6 || l.SequenceBits > 16 {
		return fmt.Errorf("%w: sequence bits should be 6-16, got %d",
			ErrInvalidBitLayout, l.SequenceBits)
	}

	return nil
}

// Shifts returns the shift amounts and field maxima derived from the layout.
//
// Field order, most significant to least: sign, timestamp, data-center, node,
// sequence. The worker caches these values at construction so the hot path
// never recomputes them.
func (l BitLayout) Shifts() (timestampShift, dataCenterShift, nodeShift int, maxDataCenter, maxNode, maxSequence int64) {
	nodeShift = l.SequenceBits
	dataCenterShift = l.SequenceBits + l.NodeBits
	timestampShift = l.SequenceBits + l.NodeBits + l.DataCenterBits
	maxDataCenter = (1 << l.DataCenterBits) - 1
	maxNode = (1 << l.NodeBits) - 1
	maxSequence = (1 << l.SequenceBits) - 1
	return
}

// ValidateNodeID checks that a node ID fits the layout's node field.
func (l BitLayout) ValidateNodeID(nodeID int64) error {
	_, _, _, _, maxNode, _ := l.Shifts()
	if nodeID < 0 || nodeID > maxNode {
		return fmt.Errorf("%w: node ID %d outside [0, %d] (%d bits)",
			ErrLayoutIDTooLarge, nodeID, maxNode, l.NodeBits)
	}
	return nil
}

// ValidateDataCenterID checks that a data-center ID fits the layout's
// data-center field.
func (l BitLayout) ValidateDataCenterID(dataCenterID int64) error {
	_, _, _, maxDataCenter, _, _ := l.Shifts()
	if dataCenterID < 0 || dataCenterID > maxDataCenter {
		return fmt.Errorf("%w: data-center ID %d outside [0, %d] (%d bits)",
			ErrLayoutIDTooLarge, dataCenterID, maxDataCenter, l.DataCenterBits)
	}
	return nil
}

// Capacity reports the theoretical limits of the layout, for capacity
// planning and deployment documentation.
func (l BitLayout) Capacity() LayoutCapacity {
	_, _, _, maxDataCenter, maxNode, maxSequence := l.Shifts()

	maxTimestamp := int64(1) << l.TimestampBits
	var lifespan time.Duration
	if l.TimestampBits > 43 {
		// time.Duration is int64 nanoseconds and saturates around 292 years;
		// report the cap rather than an overflowed value.
		lifespan = time.Duration(1<<63 - 1)
	} else {
		lifespan = time.Duration(maxTimestamp) * time.Millisecond
	}

	return LayoutCapacity{
		MaxDataCenters:      maxDataCenter + 1,
		MaxNodes:            maxNode + 1,
		MaxSequence:         maxSequence,
		MaxTimestamp:        maxTimestamp,
		Lifespan:            lifespan,
		ThroughputPerWorker: (maxSequence + 1) * 1000,
	}
}

// LayoutCapacity holds the derived limits of a BitLayout.
type LayoutCapacity struct {
	// MaxDataCenters is the number of addressable data-centers.
	MaxDataCenters int64

	// MaxNodes is the number of addressable nodes per data-center.
	MaxNodes int64

	// MaxSequence is the largest sequence value within one millisecond.
	MaxSequence int64

	// MaxTimestamp is the number of representable elapsed milliseconds.
	MaxTimestamp int64

	// Lifespan is how long after the epoch the timestamp field lasts.
	Lifespan time.Duration

	// ThroughputPerWorker is the theoretical max IDs/sec for one worker.
	ThroughputPerWorker int64
}

// String returns a one-line summary of the capacity.
func (c LayoutCapacity) String() string {
	years := int(c.Lifespan.Hours() / 24 / 365)
	return fmt.Sprintf("DataCenters: %d, NodesPerDC: %d, ThroughputPerWorker: %d/sec, Lifespan: %d years",
		c.MaxDataCenters, c.MaxNodes, c.ThroughputPerWorker, years)
}
