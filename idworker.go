// Package idworker provides a distributed unique ID worker based on the
// Snowflake scheme: 64-bit integer IDs that are roughly time-sortable and
// collision-free across nodes without any coordination service.
//
// # ID Structure (64 bits, LayoutDefault)
//
//	┌──────────────────────────────────┬────────────┬────────────┬─────────────┐
//	│  41 bits: elapsed milliseconds   │  5 bits:   │  5 bits:   │  12 bits:   │
//	│  since the epoch (~69 years)     │  dc ID     │  node ID   │  sequence   │
//	│                                  │  (0-31)    │  (0-31)    │  (0-4095)   │
//	└──────────────────────────────────┴────────────┴────────────┴─────────────┘
//
// The top bit is reserved and always zero, so every ID is a non-negative
// signed 64-bit integer.
//
// # Guarantees
//
// One retained Worker produces strictly distinct IDs whose timestamp
// component never decreases. Given disjoint (dataCenterID, nodeID) pairs and
// a shared epoch and layout, IDs are unique across the whole deployment.
// The worker does not assign node coordinates; those come from configuration
// or an external coordination system (see examples/distributed/redis).
//
// # Usage
//
//	// One worker per node, retained for the process lifetime.
//	w, err := idworker.New(nodeID, dataCenterID)
//	id, err := w.NextID()
//
//	// Package-level default worker (node 0, data-center 0).
//	id, err := idworker.NextID()
package idworker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// Epoch is the reference instant from which elapsed milliseconds are
	// measured: January 1, 2020 00:00:00 UTC. It must be identical across
	// every cooperating worker in a deployment and must never change once
	// IDs have been issued.
	Epoch int64 = 1577836800000

	// Default-layout field widths (LayoutDefault). The constants below are
	// provided for callers working with default-layout IDs; workers derive
	// their own values from the configured BitLayout.
	TimestampBits    = 41
	DataCenterIDBits = 5
	NodeIDBits       = 5
	SequenceBits     = 12

	// MaxNodeID is the largest valid node ID under LayoutDefault (31).
	MaxNodeID = -1 ^ (-1 << NodeIDBits)

	// MaxDataCenterID is the largest valid data-center ID under
	// LayoutDefault (31).
	MaxDataCenterID = -1 ^ (-1 << DataCenterIDBits)

	// MaxSequence is the largest per-millisecond sequence value under
	// LayoutDefault (4095).
	MaxSequence = -1 ^ (-1 << SequenceBits)

	// NodeIDShift positions the node ID above the sequence field.
	NodeIDShift = SequenceBits

	// DataCenterIDShift positions the data-center ID above the node field.
	DataCenterIDShift = SequenceBits + NodeIDBits

	// TimestampShift positions the timestamp above the data-center field.
	TimestampShift = SequenceBits + NodeIDBits + DataCenterIDBits
)

// Config holds the construction parameters of a Worker.
//
// The zero value is not usable; start from DefaultConfig.
type Config struct {
	// NodeID identifies the machine or process within a data-center.
	// Must be unique per (dataCenterID, layout, epoch) deployment.
	NodeID int64

	// DataCenterID identifies the data-center or partition.
	DataCenterID int64

	// Epoch is the reference instant in milliseconds since the Unix epoch.
	// Default: Epoch (2020-01-01 UTC). All cooperating workers must agree.
	Epoch int64

	// MaxClockBackward is the largest observed clock regression the worker
	// will wait out before failing. With the default of 0 any regression
	// fails immediately with a *ClockError.
	MaxClockBackward time.Duration

	// TimeSource overrides the clock, returning the current time in
	// milliseconds since the Unix epoch. Nil selects a monotonic-safe
	// system clock. Intended for tests that need a held or regressing
	// clock.
	TimeSource func() int64

	// Layout is the bit partition. The zero value selects LayoutDefault.
	Layout BitLayout
}

// DefaultConfig returns a Config with production defaults for the given
// node coordinates: the package epoch, zero clock tolerance, the system
// clock and LayoutDefault.
func DefaultConfig(nodeID, dataCenterID int64) Config {
	return Config{
		NodeID:       nodeID,
		DataCenterID: dataCenterID,
		Epoch:        Epoch,
		Layout:       LayoutDefault,
	}
}

// Validate checks the configuration and returns a *ConfigError describing
// the first violation found.
//
// Rules: the layout must be valid (defaulting to LayoutDefault when zero),
// both IDs must fit their layout fields, the epoch must be positive and the
// clock tolerance non-negative.
func (c *Config) Validate() error {
	if c.Layout == (BitLayout{}) {
		c.Layout = LayoutDefault
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}

	if err := c.Layout.ValidateNodeID(c.NodeID); err != nil {
		_, _, _, _, maxNode, _ := c.Layout.Shifts()
		return newConfigError(
			"NodeID",
			fmt.Sprintf("%d", c.NodeID),
			"out of range for layout",
			fmt.Sprintf("must be between 0 and %d (%d bits)", maxNode, c.Layout.NodeBits),
		)
	}
	if err := c.Layout.ValidateDataCenterID(c.DataCenterID); err != nil {
		_, _, _, maxDataCenter, _, _ := c.Layout.Shifts()
		return newConfigError(
			"DataCenterID",
			fmt.Sprintf("%d", c.DataCenterID),
			"out of range for layout",
			fmt.Sprintf("must be between 0 and %d (%d bits)", maxDataCenter, c.Layout.DataCenterBits),
		)
	}
	if c.Epoch <= 0 {
		return newConfigError(
			"Epoch",
			fmt.Sprintf("%d", c.Epoch),
			"must be positive",
			"epoch in milliseconds since the Unix epoch must be > 0",
		)
	}
	if c.MaxClockBackward < 0 {
		return newConfigError(
			"MaxClockBackward",
			c.MaxClockBackward.String(),
			"must be non-negative",
			"duration must be >= 0",
		)
	}
	return nil
}

// Metrics is a snapshot of a worker's counters. All counters increase
// monotonically and are read atomically; use Worker.Metrics for a snapshot.
type Metrics struct {
	Generated        int64 // IDs successfully generated
	ClockBackward    int64 // clock regressions observed (including waited-out ones)
	ClockBackwardErr int64 // clock regressions that failed generation
	SequenceWaits    int64 // sequence exhaustions that forced a wait for the next millisecond
	WaitTimeUs       int64 // total microseconds spent waiting
}

// Worker mints time-ordered unique IDs for one (dataCenterID, nodeID) pair.
//
// A Worker is safe for concurrent use: the read-check-update over
// (lastTimestamp, sequence) is one mutex-guarded critical section, so no two
// calls can interleave between the clock read and the state update. Construct
// one Worker per logical node and retain it for the process lifetime; the
// monotonicity and overflow-avoidance guarantees hold only within a retained
// instance.
type Worker struct {
	mu            sync.Mutex  // guards sequence and lastTimestamp
	now           func() int64
	epoch         int64
	nodeID        int64
	dataCenterID  int64
	sequence      int64
	lastTimestamp int64 // -1 until the first ID is generated

	maxClockBackward time.Duration

	// Shifts and masks derived once from the layout.
	timestampShift  int
	dataCenterShift int
	nodeShift       int
	maxSequence     int64

	// Counters kept apart from the mutex-guarded fields; read lock-free.
	generated        atomic.Int64
	clockBackward    atomic.Int64
	clockBackwardErr atomic.Int64
	sequenceWaits    atomic.Int64
	waitTimeUs       atomic.Int64
}

// New creates a Worker with DefaultConfig(nodeID, dataCenterID).
//
// Returns ErrInvalidConfig (as a *ConfigError) when either ID is negative or
// exceeds its LayoutDefault bound.
func New(nodeID, dataCenterID int64) (*Worker, error) {
	return NewWithConfig(DefaultConfig(nodeID, dataCenterID))
}

// NewWithConfig creates a Worker from an explicit configuration.
//
// The layout's shifts and masks are computed once here; the generation path
// only performs comparisons, bit operations and a clock read.
func NewWithConfig(cfg Config) (*Worker, error) {
	if err := (&cfg).Validate(); err != nil {
		return nil, err
	}

	now := cfg.TimeSource
	if now == nil {
		now = systemMillis()
	}

	timestampShift, dataCenterShift, nodeShift, _, _, maxSequence := cfg.Layout.Shifts()

	return &Worker{
		now:              now,
		epoch:            cfg.Epoch,
		nodeID:           cfg.NodeID,
		dataCenterID:     cfg.DataCenterID,
		sequence:         0,
		lastTimestamp:    -1,
		maxClockBackward: cfg.MaxClockBackward,
		timestampShift:   timestampShift,
		dataCenterShift:  dataCenterShift,
		nodeShift:        nodeShift,
		maxSequence:      maxSequence,
	}, nil
}

// systemMillis returns a monotonic-safe millisecond clock. The wall reading
// taken at worker construction is advanced by the monotonic duration since,
// so NTP steps cannot move this clock backwards.
func systemMillis() func() int64 {
	start := time.Now()
	return func() int64 {
		return start.Add(time.Since(start)).UnixMilli()
	}
}

// NextID returns the next ID.
//
// The call fails only with ErrClockMovedBack (as a *ClockError) when the
// clock reads earlier than the last recorded timestamp by more than the
// configured tolerance. On failure no state is mutated, so a later call after
// the clock recovers resumes normally.
//
// Safe for concurrent use.
func (w *Worker) NextID() (ID, error) {
	id, err := w.next(context.Background())
	return ID(id), err
}

// NextIDWithContext is NextID with cancellation support for the waits the
// worker may perform (clock-drift tolerance wait). The busy-wait for the
// next millisecond is bounded by one millisecond and is not cancellable.
func (w *Worker) NextIDWithContext(ctx context.Context) (ID, error) {
	id, err := w.next(ctx)
	return ID(id), err
}

// Next returns the next ID as a raw int64.
func (w *Worker) Next() (int64, error) {
	return w.next(context.Background())
}

// NextWithContext is Next with cancellation support.
func (w *Worker) NextWithContext(ctx context.Context) (int64, error) {
	return w.next(ctx)
}

// MustNextID returns the next ID and panics on error. Reserve for callers
// that cannot make progress without an ID.
func (w *Worker) MustNextID() ID {
	id, err := w.NextID()
	if err != nil {
		panic(err)
	}
	return id
}

func (w *Worker) next(ctx context.Context) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-ctx.Done():
		return 0, ErrContextCanceled
	default:
	}

	return w.nextLocked(ctx)
}

// nextLocked generates one ID. Caller must hold w.mu.
//
// Algorithm, in order: read the clock; fail on regression beyond tolerance
// (mutating nothing); same millisecond increments the sequence, spinning to
// the next millisecond on wrap; a new millisecond resets the sequence;
// record the timestamp; pack the fields.
func (w *Worker) nextLocked(ctx context.Context) (int64, error) {
	timestamp := w.now()

	if timestamp < w.lastTimestamp {
		w.clockBackward.Add(1)

		drift := w.lastTimestamp - timestamp
		if w.maxClockBackward > 0 && drift <= w.maxClockBackward.Milliseconds() {
			// Small drift: wait it out once, then re-read.
			waitStart := time.Now()
			select {
			case <-time.After(time.Duration(drift) * time.Millisecond):
				timestamp = w.now()
				w.waitTimeUs.Add(time.Since(waitStart).Microseconds())
			case <-ctx.Done():
				return 0, ErrContextCanceled
			}
		}

		if timestamp < w.lastTimestamp {
			w.clockBackwardErr.Add(1)
			return 0, newClockError(
				timestamp,
				w.lastTimestamp,
				w.maxClockBackward.Milliseconds(),
				w.dataCenterID,
				w.nodeID,
			)
		}
	}

	if timestamp == w.lastTimestamp {
		w.sequence = (w.sequence + 1) & w.maxSequence
		if w.sequence == 0 {
			// Sequence space for this millisecond is exhausted; spill into
			// the next millisecond rather than reuse a sequence value.
			w.sequenceWaits.Add(1)
			timestamp = w.untilNextMillis()
		}
	} else {
		w.sequence = 0
	}

	w.lastTimestamp = timestamp

	id := ((timestamp - w.epoch) << w.timestampShift) |
		(w.dataCenterID << w.dataCenterShift) |
		(w.nodeID << w.nodeShift) |
		w.sequence

	w.generated.Add(1)
	return id, nil
}

// untilNextMillis spins until the clock strictly advances past
// lastTimestamp and returns the new reading.
//
// The wait must be the minimal time until the clock ticks, which is
// sub-millisecond-unpredictable, so this is a tight sampling loop rather
// than a sleep. Gosched keeps the spin from starving other goroutines.
func (w *Worker) untilNextMillis() int64 {
	waitStart := time.Now()
	for {
		timestamp := w.now()
		if timestamp > w.lastTimestamp {
			w.waitTimeUs.Add(time.Since(waitStart).Microseconds())
			return timestamp
		}
		runtime.Gosched()
	}
}

// NextBatch generates count IDs under a single lock acquisition, which is
// considerably faster than count individual calls when filling buffers or
// preallocating keys.
//
// On error the IDs generated so far are returned together with the error;
// the partial batch is valid and usable. Context cancellation is checked
// every 100 IDs.
func (w *Worker) NextBatch(ctx context.Context, count int) ([]ID, error) {
	if count <= 0 {
		return []ID{}, nil
	}

	ids := make([]ID, 0, count)

	w.mu.Lock()
	defer w.mu.Unlock()

	for i := 0; i < count; i++ {
		if i%100 == 0 {
			select {
			case <-ctx.Done():
				return ids, ErrContextCanceled
			default:
			}
		}

		id, err := w.nextLocked(ctx)
		if err != nil {
			return ids, err
		}
		ids = append(ids, ID(id))
	}

	return ids, nil
}

// NodeID returns the worker's node ID. Immutable after construction.
func (w *Worker) NodeID() int64 {
	return w.nodeID
}

// DataCenterID returns the worker's data-center ID. Immutable after
// construction.
func (w *Worker) DataCenterID() int64 {
	return w.dataCenterID
}

// Metrics returns a consistent snapshot of the worker's counters.
func (w *Worker) Metrics() Metrics {
	return Metrics{
		Generated:        w.generated.Load(),
		ClockBackward:    w.clockBackward.Load(),
		ClockBackwardErr: w.clockBackwardErr.Load(),
		SequenceWaits:    w.sequenceWaits.Load(),
		WaitTimeUs:       w.waitTimeUs.Load(),
	}
}

// ResetMetrics zeroes all counters. Primarily for tests; production metrics
// should normally stay monotonic for rate calculations.
func (w *Worker) ResetMetrics() {
	w.generated.Store(0)
	w.clockBackward.Store(0)
	w.clockBackwardErr.Store(0)
	w.sequenceWaits.Store(0)
	w.waitTimeUs.Store(0)
}

// Default worker for the package-level functions: node 0, data-center 0,
// lazily initialized on first use.
//
// The original static-helper pattern of constructing a throwaway worker per
// call forfeits monotonicity and overflow avoidance between calls, so the
// package-level functions route through this single retained instance
// instead. Applications that control node assignment should construct their
// own Worker with New.
var (
	defaultWorker     *Worker
	defaultWorkerOnce sync.Once
	defaultWorkerErr  error
)

func initDefaultWorker() {
	defaultWorker, defaultWorkerErr = New(0, 0)
}

// NextID generates an ID using the package default worker (node 0,
// data-center 0). Suitable for single-node deployments; distributed systems
// must construct Workers with unique coordinates.
func NextID() (ID, error) {
	defaultWorkerOnce.Do(initDefaultWorker)
	if defaultWorkerErr != nil {
		return 0, defaultWorkerErr
	}
	return defaultWorker.NextID()
}

// NextIDWithContext generates an ID from the default worker with
// cancellation support.
func NextIDWithContext(ctx context.Context) (ID, error) {
	defaultWorkerOnce.Do(initDefaultWorker)
	if defaultWorkerErr != nil {
		return 0, defaultWorkerErr
	}
	return defaultWorker.NextIDWithContext(ctx)
}

// Next generates an ID from the default worker as a raw int64.
func Next() (int64, error) {
	defaultWorkerOnce.Do(initDefaultWorker)
	if defaultWorkerErr != nil {
		return 0, defaultWorkerErr
	}
	return defaultWorker.Next()
}

// MustNextID generates an ID from the default worker and panics on error.
func MustNextID() ID {
	id, err := NextID()
	if err != nil {
		panic(err)
	}
	return id
}

// DefaultMetrics returns the counters of the default worker.
func DefaultMetrics() (Metrics, error) {
	defaultWorkerOnce.Do(initDefaultWorker)
	if defaultWorkerErr != nil {
		return Metrics{}, defaultWorkerErr
	}
	return defaultWorker.Metrics(), nil
}
