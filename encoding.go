// Package idworker - encoding.go implements the compact string encodings.
//
// All four custom bases (32, 58, 62, hex) share one table-driven codec; only
// the alphabet differs. strconv covers base 2, 10 and 36 directly, and
// encoding/base64 covers base64, so neither appears here.

package idworker

import (
	"errors"
	"math"
)

// Decode errors, one per encoding so callers can name the bad input format.
var (
	ErrInvalidBase2  = errors.New("invalid base2")
	ErrInvalidBase32 = errors.New("invalid base32")
	ErrInvalidBase36 = errors.New("invalid base36")
	ErrInvalidBase58 = errors.New("invalid base58")
	ErrInvalidBase62 = errors.New("invalid base62")
	ErrInvalidBase64 = errors.New("invalid base64")
	ErrInvalidHex    = errors.New("invalid hex")
)

// alphabet is a positional base defined by its character set. The decode
// table maps every byte to its digit value, or -1 for bytes outside the
// alphabet.
type alphabet struct {
	chars  string
	decode [256]int8
	err    error
}

func newAlphabet(chars string, err error) *alphabet {
	a := &alphabet{chars: chars, err: err}
	for i := range a.decode {
		a.decode[i] = -1
	}
	for i := 0; i < len(chars); i++ {
		a.decode[chars[i]] = int8(i)
	}
	return a
}

var (
	// z-base-32: designed for human transcription, no 0/l/v/2 confusion.
	alphabetBase32 = newAlphabet("ybndrfg8ejkmcpqxot1uwisza345h769", ErrInvalidBase32)

	// Bitcoin base58: no 0, O, I or l.
	alphabetBase58 = newAlphabet("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz", ErrInvalidBase58)

	// base62: digits, uppercase, lowercase. URL-safe without escaping.
	alphabetBase62 = newAlphabet("0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz", ErrInvalidBase62)

	alphabetHex = newAlphabet("0123456789abcdef", ErrInvalidHex)
)

// encodeAlphabet renders n in the given base. A 64-bit value needs at most
// 64 digits (base 2 worst case); 16 covers every base used here.
func encodeAlphabet(a *alphabet, n int64) string {
	base := int64(len(a.chars))
	if n == 0 {
		return a.chars[:1]
	}

	// Work in uint64 so a negative input (never produced by a worker, but
	// reachable through ID conversions) still round-trips.
	u := uint64(n)
	ub := uint64(base)

	var buf [16]byte
	i := len(buf)
	for u > 0 {
		i--
		buf[i] = a.chars[u%ub]
		u /= ub
	}
	return string(buf[i:])
}

// decodeAlphabet parses s in the given base. Empty input, bytes outside the
// alphabet and values that overflow 64 bits all return the alphabet's error.
// Hex decoding additionally folds ASCII uppercase to lowercase.
func decodeAlphabet(a *alphabet, s string) (int64, error) {
	if s == "" {
		return 0, a.err
	}

	base := uint64(len(a.chars))
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if a == alphabetHex && c >= 'A' && c <= 'F' {
			c += 'a' - 'A'
		}
		d := a.decode[c]
		if d < 0 {
			return 0, a.err
		}
		if v > (math.MaxUint64-uint64(d))/base {
			return 0, a.err
		}
		v = v*base + uint64(d)
	}
	return int64(v), nil
}
