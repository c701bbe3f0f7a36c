// idworker CLI - command-line tool for distributed ID generation and
// inspection.
//
// Usage:
//   idworker generate [flags]       Generate IDs
//   idworker parse <id>             Parse and inspect an ID
//   idworker encode <id> <format>   Convert an ID between encodings
//   idworker validate <id>          Validate an ID
//   idworker layouts                Show the predefined bit layouts
//   idworker bench [flags]          Run performance benchmarks
//
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chova/idworker"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "generate", "gen", "g":
		cmdGenerate(os.Args[2:])
	case "parse", "p":
		cmdParse(os.Args[2:])
	case "encode", "enc", "e":
		cmdEncode(os.Args[2:])
	case "validate", "val", "v":
		cmdValidate(os.Args[2:])
	case "layouts", "l":
		cmdLayouts()
	case "bench", "benchmark", "b":
		cmdBench(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("idworker CLI version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `idworker CLI - distributed unique ID worker

Usage:
  idworker <command> [flags]

Commands:
  generate, gen, g      Generate IDs
  parse, p              Parse and inspect an ID
  encode, enc, e        Convert an ID between encodings
  validate, val, v      Validate an ID structure
  layouts, l            Show the predefined bit layouts
  bench, b              Run performance benchmarks
  version               Show version information
  help                  Show this help message

Examples:
  # Generate a single ID for node 3 in data-center 1
  idworker generate --node 3 --dc 1

  # Generate 10 IDs in Base62 format
  idworker generate --count 10 --format base62 --node 3

  # Parse and inspect an ID
  idworker parse 1234567890123456789

  # Convert an ID to a different encoding
  idworker encode 1234567890123456789 base62

  # Run benchmarks
  idworker bench --duration 5s

For detailed help on a command:
  idworker <command> --help

`)
}

// ============================================================================
// Generate Command
// ============================================================================

func cmdGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	count := fs.Int("count", 1, "Number of IDs to generate")
	nodeID := fs.Int64("node", 0, "Node ID (0-31)")
	dataCenterID := fs.Int64("dc", 0, "Data-center ID (0-31)")
	format := fs.String("format", "decimal", "Output format: decimal, base32, base58, base62, hex")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	batch := fs.Bool("batch", false, "Use batch generation for better performance")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: idworker generate [flags]

Generate one or more IDs.

Flags:
  --count N          Number of IDs to generate (default: 1)
  --node N           Node ID 0-31 (default: 0)
  --dc N             Data-center ID 0-31 (default: 0)
  --format FORMAT    Output format: decimal, base32, base58, base62, hex (default: decimal)
  --json             Output as JSON with full details
  --batch            Use batch generation (faster for large counts)

Examples:
  idworker generate --node 3 --dc 1
  idworker generate --count 1000 --format base62 --node 3
  idworker generate --json --node 5
`)
	}

	fs.Parse(args)

	w, err := idworker.New(*nodeID, *dataCenterID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating worker: %v\n", err)
		os.Exit(1)
	}

	var ids []idworker.ID
	var genErr error
	startTime := time.Now()
	ctx := context.Background()

	if *batch && *count > 1 {
		ids, genErr = w.NextBatch(ctx, *count)
		if genErr != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", genErr)
			os.Exit(1)
		}
	} else {
		ids = make([]idworker.ID, *count)
		for i := 0; i < *count; i++ {
			ids[i], genErr = w.NextID()
			if genErr != nil {
				fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", genErr)
				os.Exit(1)
			}
		}
	}

	duration := time.Since(startTime)

	if *jsonOutput {
		outputJSON(ids, duration, *dataCenterID, *nodeID)
	} else {
		for _, id := range ids {
			fmt.Println(formatID(id, *format))
		}

		if *count > 100 {
			rate := float64(*count) / duration.Seconds()
			fmt.Fprintf(os.Stderr, "\nGenerated %d IDs in %v (%.0f IDs/sec)\n",
				*count, duration, rate)
		}
	}
}

func formatID(id idworker.ID, format string) string {
	return id.Format(strings.ToLower(format))
}

func outputJSON(ids []idworker.ID, duration time.Duration, dataCenterID, nodeID int64) {
	type IDInfo struct {
		ID         string    `json:"id"`
		Base62     string    `json:"base62"`
		Hex        string    `json:"hex"`
		Timestamp  time.Time `json:"timestamp"`
		DataCenter int64     `json:"data_center"`
		Node       int64     `json:"node"`
		Sequence   int64     `json:"sequence"`
	}

	type Output struct {
		Count        int      `json:"count"`
		DataCenterID int64    `json:"data_center_id"`
		NodeID       int64    `json:"node_id"`
		Duration     string   `json:"duration"`
		RatePerSec   float64  `json:"rate_per_sec"`
		IDs          []IDInfo `json:"ids"`
	}

	infos := make([]IDInfo, len(ids))
	for i, id := range ids {
		ts, dc, node, seq := id.Components()
		infos[i] = IDInfo{
			ID:         id.String(),
			Base62:     id.Base62(),
			Hex:        id.Hex(),
			Timestamp:  time.UnixMilli(ts),
			DataCenter: dc,
			Node:       node,
			Sequence:   seq,
		}
	}

	rate := float64(len(ids)) / duration.Seconds()
	output := Output{
		Count:        len(ids),
		DataCenterID: dataCenterID,
		NodeID:       nodeID,
		Duration:     duration.String(),
		RatePerSec:   rate,
		IDs:          infos,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

// ============================================================================
// Parse Command
// ============================================================================

func cmdParse(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: idworker parse <id>\n")
		fmt.Fprintf(os.Stderr, "\nParse and inspect an ID.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  idworker parse 1234567890123456789\n")
		fmt.Fprintf(os.Stderr, "  idworker parse 7n42dgm5tflk  # Base62 format\n")
		os.Exit(1)
	}

	idStr := args[0]

	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to parse ID '%s'\n", idStr)
		os.Exit(1)
	}

	ts, dc, node, seq := id.Components()
	timestamp := time.UnixMilli(ts)
	age := id.Age()

	fmt.Printf("ID: %s\n", id)
	fmt.Printf("\n")
	fmt.Printf("Components:\n")
	fmt.Printf("  Timestamp:      %s (%d ms since epoch)\n", timestamp.Format(time.RFC3339), ts)
	fmt.Printf("  Data-center ID: %d\n", dc)
	fmt.Printf("  Node ID:        %d\n", node)
	fmt.Printf("  Sequence:       %d\n", seq)
	fmt.Printf("\n")
	fmt.Printf("Encodings:\n")
	fmt.Printf("  Decimal:    %s\n", id.String())
	fmt.Printf("  Base62:     %s\n", id.Base62())
	fmt.Printf("  Base58:     %s\n", id.Base58())
	fmt.Printf("  Base32:     %s\n", id.Base32())
	fmt.Printf("  Hex:        %s\n", id.Hex())
	fmt.Printf("\n")
	fmt.Printf("Age:          %v\n", age.Round(time.Millisecond))
	fmt.Printf("Valid:        %v\n", id.IsValid())
}

// ============================================================================
// Encode Command
// ============================================================================

func cmdEncode(args []string) {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: idworker encode <id> <format>\n")
		fmt.Fprintf(os.Stderr, "\nConvert an ID to a different encoding format.\n")
		fmt.Fprintf(os.Stderr, "\nFormats:\n")
		fmt.Fprintf(os.Stderr, "  decimal, dec       Decimal string\n")
		fmt.Fprintf(os.Stderr, "  base62, b62        URL-safe Base62\n")
		fmt.Fprintf(os.Stderr, "  base58, b58        Bitcoin-style Base58\n")
		fmt.Fprintf(os.Stderr, "  base32, b32        z-base-32\n")
		fmt.Fprintf(os.Stderr, "  hex, x             Hexadecimal\n")
		fmt.Fprintf(os.Stderr, "  binary, bin        Binary string\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  idworker encode 1234567890123456789 base62\n")
		fmt.Fprintf(os.Stderr, "  idworker encode 7n42dgm5tflk decimal\n")
		os.Exit(1)
	}

	idStr := args[0]
	format := args[1]

	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Unable to parse ID '%s': %v\n", idStr, err)
		os.Exit(1)
	}

	fmt.Println(formatID(id, format))
}

// parseIDFlexible tries the common encodings in order of likelihood.
func parseIDFlexible(idStr string) (idworker.ID, error) {
	id, err := idworker.ParseString(idStr)
	if err == nil {
		return id, nil
	}

	id, err = idworker.ParseBase62(idStr)
	if err == nil {
		return id, nil
	}

	id, err = idworker.ParseBase58(idStr)
	if err == nil {
		return id, nil
	}

	id, err = idworker.ParseHex(idStr)
	if err == nil {
		return id, nil
	}

	return idworker.ParseBase32(idStr)
}

// ============================================================================
// Validate Command
// ============================================================================

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: idworker validate <id>\n")
		fmt.Fprintf(os.Stderr, "\nValidate the structure of an ID.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  idworker validate 1234567890123456789\n")
		os.Exit(1)
	}

	idStr := args[0]

	id, err := parseIDFlexible(idStr)
	if err != nil {
		fmt.Printf("INVALID: Unable to parse ID '%s'\n", idStr)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ts, dc, node, seq := id.Components()

	if !id.IsValid() {
		fmt.Printf("INVALID: ID structure is invalid\n")
		fmt.Printf("\nComponents:\n")
		fmt.Printf("  Timestamp:      %d ms since epoch\n", ts)
		fmt.Printf("  Data-center ID: %d (valid range: 0-%d)\n", dc, idworker.MaxDataCenterID)
		fmt.Printf("  Node ID:        %d (valid range: 0-%d)\n", node, idworker.MaxNodeID)
		fmt.Printf("  Sequence:       %d (valid range: 0-%d)\n", seq, idworker.MaxSequence)

		if ts <= idworker.Epoch {
			fmt.Printf("\n  Error: Timestamp is before or equal to epoch\n")
		}
		if id <= 0 {
			fmt.Printf("\n  Error: ID must be positive\n")
		}

		os.Exit(1)
	}

	fmt.Printf("VALID: ID structure is valid\n")

	timestamp := time.UnixMilli(ts)
	fmt.Printf("\nComponents:\n")
	fmt.Printf("  Timestamp:      %s\n", timestamp.Format(time.RFC3339))
	fmt.Printf("  Data-center ID: %d\n", dc)
	fmt.Printf("  Node ID:        %d\n", node)
	fmt.Printf("  Sequence:       %d\n", seq)
	fmt.Printf("  Age:            %v\n", id.Age().Round(time.Millisecond))
}

// ============================================================================
// Layouts Command
// ============================================================================

func cmdLayouts() {
	layouts := []struct {
		name   string
		layout idworker.BitLayout
	}{
		{"default", idworker.LayoutDefault},
		{"wide-cluster", idworker.LayoutWideCluster},
		{"long-life", idworker.LayoutLongLife},
		{"high-throughput", idworker.LayoutHighThroughput},
	}

	for _, l := range layouts {
		fmt.Printf("%s (%d/%d/%d/%d):\n", l.name,
			l.layout.TimestampBits, l.layout.DataCenterBits,
			l.layout.NodeBits, l.layout.SequenceBits)
		fmt.Printf("  %s\n\n", l.layout.Capacity())
	}
}

// ============================================================================
// Benchmark Command
// ============================================================================

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	duration := fs.Duration("duration", 3*time.Second, "Benchmark duration")
	nodeID := fs.Int64("node", 0, "Node ID (0-31)")
	dataCenterID := fs.Int64("dc", 0, "Data-center ID (0-31)")
	batchSize := fs.Int("batch", 100, "Batch size for batch generation test")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: idworker bench [flags]

Run performance benchmarks for ID generation.

Flags:
  --duration D      Benchmark duration (default: 3s)
  --node N          Node ID 0-31 (default: 0)
  --dc N            Data-center ID 0-31 (default: 0)
  --batch N         Batch size for batch test (default: 100)

Examples:
  idworker bench --duration 5s
  idworker bench --node 3 --duration 10s
`)
	}

	fs.Parse(args)

	w, err := idworker.New(*nodeID, *dataCenterID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating worker: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running benchmarks (duration: %v, dc: %d, node: %d)\n\n",
		*duration, *dataCenterID, *nodeID)
	ctx := context.Background()

	// Benchmark 1: single ID generation.
	fmt.Printf("1. Single ID Generation:\n")
	count := 0
	start := time.Now()
	deadline := start.Add(*duration)
	for time.Now().Before(deadline) {
		_, err := w.NextID()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating ID: %v\n", err)
			break
		}
		count++
	}
	elapsed := time.Since(start)
	rate := float64(count) / elapsed.Seconds()
	nsPerOp := float64(elapsed.Nanoseconds()) / float64(count)

	fmt.Printf("   Generated:      %d IDs\n", count)
	fmt.Printf("   Duration:       %v\n", elapsed)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n", rate, nsPerOp)
	fmt.Printf("\n")

	// Benchmark 2: batch generation.
	fmt.Printf("2. Batch Generation (batch size: %d):\n", *batchSize)
	count = 0
	batchCount := 0
	start = time.Now()
	deadline = start.Add(*duration)
	for time.Now().Before(deadline) {
		ids, err := w.NextBatch(ctx, *batchSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating batch: %v\n", err)
			break
		}
		count += len(ids)
		batchCount++
	}
	elapsed = time.Since(start)
	rate = float64(count) / elapsed.Seconds()
	nsPerOp = float64(elapsed.Nanoseconds()) / float64(count)

	fmt.Printf("   Generated:      %d IDs in %d batches\n", count, batchCount)
	fmt.Printf("   Duration:       %v\n", elapsed)
	fmt.Printf("   Rate:           %.0f IDs/sec (%.0f ns/op)\n", rate, nsPerOp)
	fmt.Printf("   Avg batch time: %.2f ms\n", float64(elapsed.Milliseconds())/float64(batchCount))
	fmt.Printf("\n")

	// Benchmark 3: encoding throughput.
	fmt.Printf("3. Encoding Performance (1000 operations):\n")
	testID, err := w.NextID()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating test ID: %v\n", err)
		os.Exit(1)
	}

	encodingTests := []struct {
		name string
		fn   func() string
	}{
		{"Decimal", func() string { return testID.String() }},
		{"Base62", func() string { return testID.Base62() }},
		{"Base58", func() string { return testID.Base58() }},
		{"Base32", func() string { return testID.Base32() }},
		{"Hex", func() string { return testID.Hex() }},
	}

	for _, test := range encodingTests {
		start := time.Now()
		for i := 0; i < 1000; i++ {
			_ = test.fn()
		}
		elapsed := time.Since(start)
		nsPerOp := float64(elapsed.Nanoseconds()) / 1000
		fmt.Printf("   %-8s %6.0f ns/op\n", test.name+":", nsPerOp)
	}

	m := w.Metrics()
	fmt.Printf("\nWorker metrics: generated=%d sequence_waits=%d wait_time=%dus\n",
		m.Generated, m.SequenceWaits, m.WaitTimeUs)

	fmt.Printf("\nBenchmark complete!\n")
}
