// Package idworker - id.go provides the ID type: component extraction,
// encodings, marshaling, database integration, validation and comparison.

package idworker

import (
	"database/sql/driver"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ID is a strongly-typed 64-bit worker-generated identifier.
//
// Using a named type instead of a raw int64 prevents mixing IDs with plain
// integers and lets the type implement the standard interfaces callers need:
//
//   - json.Marshaler/Unmarshaler (string form, safe for JavaScript numbers)
//   - encoding.TextMarshaler/Unmarshaler (XML, YAML, TOML)
//   - encoding.BinaryMarshaler/Unmarshaler (binary protocols)
//   - sql.Scanner / driver.Valuer (BIGINT columns)
//   - fmt.Stringer
//
// Component accessors without a layout argument assume LayoutDefault; IDs
// generated under another layout must use the ...WithLayout variants.
type ID int64

// ============================================================================
// Basic Conversions
// ============================================================================

// Int64 returns the ID as an int64.
func (id ID) Int64() int64 {
	return int64(id)
}

// Uint64 returns the ID as a uint64.
func (id ID) Uint64() uint64 {
	return uint64(id)
}

// String returns the decimal representation. Implements fmt.Stringer.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ============================================================================
// Encodings
// ============================================================================

// Base2 returns the binary string representation, useful when inspecting the
// bit structure by eye.
func (id ID) Base2() string {
	return strconv.FormatInt(int64(id), 2)
}

// Base32 returns a z-base-32 encoded string (~13 chars). The alphabet avoids
// visually similar characters, making it a good fit for IDs humans retype.
func (id ID) Base32() string {
	return encodeAlphabet(alphabetBase32, int64(id))
}

// Base36 returns a base36 encoded string (0-9, a-z).
func (id ID) Base36() string {
	return strconv.FormatInt(int64(id), 36)
}

// Base58 returns a Bitcoin-style base58 encoded string (~11 chars, no 0/O/I/l).
func (id ID) Base58() string {
	return encodeAlphabet(alphabetBase58, int64(id))
}

// Base62 returns a URL-safe base62 encoded string (~11 chars). The
// recommended encoding for REST API paths and short URLs.
func (id ID) Base62() string {
	return encodeAlphabet(alphabetBase62, int64(id))
}

// Base64 returns the standard base64 encoding of the decimal string form.
func (id ID) Base64() string {
	return base64.StdEncoding.EncodeToString(id.Bytes())
}

// Base64URL returns the URL-safe base64 encoding of the decimal string form.
func (id ID) Base64URL() string {
	return base64.URLEncoding.EncodeToString(id.Bytes())
}

// Hex returns the lowercase hexadecimal representation.
func (id ID) Hex() string {
	return encodeAlphabet(alphabetHex, int64(id))
}

// ============================================================================
// Binary Encoding
// ============================================================================

// Bytes returns the decimal string representation as bytes. For the binary
// integer representation use IntBytes.
func (id ID) Bytes() []byte {
	return []byte(id.String())
}

// IntBytes returns the ID as an 8-byte big-endian integer, the natural form
// for network protocols and binary file formats.
func (id ID) IntBytes() [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return b
}

// MarshalBinary implements encoding.BinaryMarshaler (8 bytes, big-endian).
func (id ID) MarshalBinary() ([]byte, error) {
	b := id.IntBytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The input must be
// exactly 8 bytes.
func (id *ID) UnmarshalBinary(data []byte) error {
	if len(data) != 8 {
		return fmt.Errorf("invalid binary data length: %d", len(data))
	}
	*id = ID(int64(binary.BigEndian.Uint64(data)))
	return nil
}

// ============================================================================
// JSON and Text Marshaling
// ============================================================================

// MarshalJSON implements json.Marshaler, emitting the ID as a JSON string.
// JavaScript numbers lose precision above 2^53, which worker IDs routinely
// exceed, so the numeric form is never emitted.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`"%d"`, id)), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting both the string form
// and, for interop with producers that emit numbers, the numeric form.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("invalid JSON data: %s", string(data))
	}

	str := string(data)
	if str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	i, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid worker ID: %w", err)
	}

	*id = ID(i)
	return nil
}

// MarshalText implements encoding.TextMarshaler (decimal form).
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	i, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return err
	}
	*id = ID(i)
	return nil
}

// ============================================================================
// SQL Database Integration
// ============================================================================

// Scan implements sql.Scanner, accepting BIGINT, VARCHAR/TEXT and NULL
// column values.
func (id *ID) Scan(value interface{}) error {
	if value == nil {
		*id = 0
		return nil
	}

	switch v := value.(type) {
	case int64:
		*id = ID(v)
	case []byte:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		*id = ID(i)
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*id = ID(i)
	default:
		return fmt.Errorf("cannot scan %T into ID", value)
	}

	return nil
}

// Value implements driver.Valuer, storing the ID as int64 for BIGINT
// columns in PostgreSQL, MySQL and SQLite.
func (id ID) Value() (driver.Value, error) {
	return int64(id), nil
}

// ============================================================================
// Parsing
// ============================================================================

// ParseString parses a decimal string into an ID.
func ParseString(s string) (ID, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseInt64 converts an int64 into an ID.
func ParseInt64(i int64) ID {
	return ID(i)
}

// ParseBase2 parses a binary string into an ID.
func ParseBase2(s string) (ID, error) {
	i, err := strconv.ParseInt(s, 2, 64)
	if err != nil {
		return 0, ErrInvalidBase2
	}
	return ID(i), nil
}

// ParseBase32 parses a z-base-32 string into an ID.
func ParseBase32(s string) (ID, error) {
	i, err := decodeAlphabet(alphabetBase32, s)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseBase36 parses a base36 string into an ID.
func ParseBase36(s string) (ID, error) {
	i, err := strconv.ParseInt(s, 36, 64)
	if err != nil {
		return 0, ErrInvalidBase36
	}
	return ID(i), nil
}

// ParseBase58 parses a Bitcoin-style base58 string into an ID.
func ParseBase58(s string) (ID, error) {
	i, err := decodeAlphabet(alphabetBase58, s)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseBase62 parses a URL-safe base62 string into an ID.
func ParseBase62(s string) (ID, error) {
	i, err := decodeAlphabet(alphabetBase62, s)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseBase64 parses a standard base64 string into an ID.
func ParseBase64(s string) (ID, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return 0, ErrInvalidBase64
	}
	return ParseBytes(b)
}

// ParseBase64URL parses a URL-safe base64 string into an ID.
func ParseBase64URL(s string) (ID, error) {
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return 0, ErrInvalidBase64
	}
	return ParseBytes(b)
}

// ParseHex parses a hexadecimal string (either case) into an ID.
func ParseHex(s string) (ID, error) {
	i, err := decodeAlphabet(alphabetHex, s)
	if err != nil {
		return 0, err
	}
	return ID(i), nil
}

// ParseBytes parses a byte slice holding the decimal form into an ID.
func ParseBytes(b []byte) (ID, error) {
	return ParseString(string(b))
}

// ParseIntBytes parses an 8-byte big-endian integer into an ID.
func ParseIntBytes(b [8]byte) ID {
	return ID(int64(binary.BigEndian.Uint64(b[:])))
}

// ============================================================================
// Component Extraction
// ============================================================================

// Timestamp returns the ID's timestamp in milliseconds since the Unix epoch
// (the encoded elapsed value plus the package Epoch). Assumes LayoutDefault.
func (id ID) Timestamp() int64 {
	return (int64(id) >> TimestampShift) + Epoch
}

// TimestampWithLayout returns the timestamp under a specific layout.
func (id ID) TimestampWithLayout(layout BitLayout) int64 {
	timestampShift, _, _, _, _, _ := layout.Shifts()
	return (int64(id) >> timestampShift) + Epoch
}

// Time returns the ID's timestamp as a time.Time. Assumes LayoutDefault.
func (id ID) Time() time.Time {
	return time.UnixMilli(id.Timestamp())
}

// TimeWithLayout returns the timestamp as a time.Time under a specific
// layout.
func (id ID) TimeWithLayout(layout BitLayout) time.Time {
	return time.UnixMilli(id.TimestampWithLayout(layout))
}

// DataCenter returns the data-center ID component. Assumes LayoutDefault.
func (id ID) DataCenter() int64 {
	return (int64(id) >> DataCenterIDShift) & MaxDataCenterID
}

// DataCenterWithLayout returns the data-center ID under a specific layout.
func (id ID) DataCenterWithLayout(layout BitLayout) int64 {
	_, dataCenterShift, _, maxDataCenter, _, _ := layout.Shifts()
	return (int64(id) >> dataCenterShift) & maxDataCenter
}

// Node returns the node ID component. Assumes LayoutDefault.
func (id ID) Node() int64 {
	return (int64(id) >> NodeIDShift) & MaxNodeID
}

// NodeWithLayout returns the node ID under a specific layout.
func (id ID) NodeWithLayout(layout BitLayout) int64 {
	_, _, nodeShift, _, maxNode, _ := layout.Shifts()
	return (int64(id) >> nodeShift) & maxNode
}

// Sequence returns the per-millisecond sequence component. Assumes
// LayoutDefault.
func (id ID) Sequence() int64 {
	return int64(id) & MaxSequence
}

// SequenceWithLayout returns the sequence under a specific layout.
func (id ID) SequenceWithLayout(layout BitLayout) int64 {
	_, _, _, _, _, maxSequence := layout.Shifts()
	return int64(id) & maxSequence
}

// Components returns all four components at once. Assumes LayoutDefault.
//
// The timestamp is absolute (milliseconds since the Unix epoch), not the
// encoded elapsed value.
func (id ID) Components() (timestamp, dataCenterID, nodeID, sequence int64) {
	timestamp = (int64(id) >> TimestampShift) + Epoch
	dataCenterID = (int64(id) >> DataCenterIDShift) & MaxDataCenterID
	nodeID = (int64(id) >> NodeIDShift) & MaxNodeID
	sequence = int64(id) & MaxSequence
	return
}

// ComponentsWithLayout returns all four components under a specific layout.
func (id ID) ComponentsWithLayout(layout BitLayout) (timestamp, dataCenterID, nodeID, sequence int64) {
	timestampShift, dataCenterShift, nodeShift, maxDataCenter, maxNode, maxSequence := layout.Shifts()
	timestamp = (int64(id) >> timestampShift) + Epoch
	dataCenterID = (int64(id) >> dataCenterShift) & maxDataCenter
	nodeID = (int64(id) >> nodeShift) & maxNode
	sequence = int64(id) & maxSequence
	return
}

// ============================================================================
// Validation and Comparison
// ============================================================================

// IsValid reports whether the ID is structurally plausible under
// LayoutDefault: positive, timestamp after the epoch and no more than one
// day in the future (allowing clock skew between observers).
func (id ID) IsValid() bool {
	if id <= 0 {
		return false
	}

	ts := id.Timestamp()
	now := time.Now().UnixMilli()

	if ts <= Epoch {
		return false
	}
	if ts > now+86400000 {
		return false
	}

	return true
}

// IsValidWithLayout reports structural plausibility under a specific layout.
func (id ID) IsValidWithLayout(layout BitLayout) bool {
	if id <= 0 {
		return false
	}
	if err := layout.Validate(); err != nil {
		return false
	}

	ts := id.TimestampWithLayout(layout)
	now := time.Now().UnixMilli()

	if ts <= Epoch {
		return false
	}
	if ts > now+86400000 {
		return false
	}

	return true
}

// Age returns the duration since the ID was generated. Assumes
// LayoutDefault.
func (id ID) Age() time.Duration {
	return time.Since(id.Time())
}

// Before reports whether this ID was generated before other. IDs are
// time-ordered, so this is a plain numeric comparison.
func (id ID) Before(other ID) bool {
	return id < other
}

// After reports whether this ID was generated after other.
func (id ID) After(other ID) bool {
	return id > other
}

// Equal reports whether two IDs are identical.
func (id ID) Equal(other ID) bool {
	return id == other
}

// Compare returns -1, 0 or 1 ordering id against other.
func (id ID) Compare(other ID) int {
	if id < other {
		return -1
	}
	if id > other {
		return 1
	}
	return 0
}

// ============================================================================
// Sharding Helpers
// ============================================================================

// Shard returns the shard for this ID under modulo distribution. Even
// spread, but not time-clustered.
func (id ID) Shard(numShards int64) int64 {
	if numShards <= 0 {
		return 0
	}
	return int64(id) % numShards
}

// ShardByNode routes all IDs minted by the same node to the same shard.
// Assumes LayoutDefault.
func (id ID) ShardByNode(numShards int64) int64 {
	if numShards <= 0 {
		return 0
	}
	return id.Node() % numShards
}

// ShardByTime returns the time bucket this ID falls into, for time-series
// partitioning and retention. Assumes LayoutDefault.
//
// Example:
//
//	day := id.ShardByTime(24 * time.Hour)
//	table := fmt.Sprintf("events_%d", day)
func (id ID) ShardByTime(bucketSize time.Duration) int64 {
	if bucketSize <= 0 {
		return 0
	}
	return id.Time().Unix() / int64(bucketSize.Seconds())
}

// Format returns the ID encoded per the format specifier: "hex"/"x",
// "binary"/"bin"/"b", "base32"/"b32", "base36"/"b36", "base58"/"b58",
// "base62"/"b62", "base64"/"b64", or "decimal"/"dec"/"d"/"" (default).
func (id ID) Format(format string) string {
	switch format {
	case "hex", "x":
		return id.Hex()
	case "binary", "bin", "b":
		return id.Base2()
	case "base32", "b32", "32":
		return id.Base32()
	case "base36", "b36", "36":
		return id.Base36()
	case "base58", "b58", "58":
		return id.Base58()
	case "base62", "b62", "62":
		return id.Base62()
	case "base64", "b64", "64":
		return id.Base64()
	default:
		return id.String()
	}
}

// IDWithFormat wraps an ID with an encoding format for JSON marshaling.
//
//	json.Marshal(idworker.IDWithFormat{ID: id, Format: "base62"})
type IDWithFormat struct {
	ID     ID
	Format string
}

// MarshalJSON marshals the ID using the wrapped format.
func (idf IDWithFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(idf.ID.Format(idf.Format))
}
