// Package id provides lexicographically sortable document identifiers.
package id

import (
	"encoding/binary"
	"errors"
)

// ID is a 128-bit, lexicographically sortable identifier encoded as 16 bytes
// big-endian: [8 bytes ms_timestamp][8 bytes sequence]. Byte order equals
// (timestamp, sequence) order, so iterating IDs ascending yields ascending
// event time with insertion order as the tie-break.
type ID [16]byte

// Make builds an ID from a millisecond timestamp and a sequence number.
func Make(ms int64, seq uint64) ID {
	var id ID
	binary.BigEndian.PutUint64(id[0:8], uint64(ms))
	binary.BigEndian.PutUint64(id[8:16], seq)
	return id
}

// Bytes returns the raw 16-byte representation.
func (i ID) Bytes() []byte { b := make([]byte, 16); copy(b, i[:]); return b }

// Millis returns the embedded millisecond timestamp.
func (i ID) Millis() int64 { return int64(binary.BigEndian.Uint64(i[0:8])) }

// Seq returns the embedded sequence number.
func (i ID) Seq() uint64 { return binary.BigEndian.Uint64(i[8:16]) }

// String returns a hex string. Hex encoding of big-endian bytes preserves
// lexical ordering, so ID strings compare the same way the IDs do.
func (i ID) String() string { return fmtHex(i[:]) }

// Compare returns -1, 0, 1 based on lexical comparison.
func (i ID) Compare(other ID) int {
	for idx := 0; idx < 16; idx++ {
		if i[idx] < other[idx] {
			return -1
		}
		if i[idx] > other[idx] {
			return 1
		}
	}
	return 0
}

// ErrInvalid reports a malformed ID string.
var ErrInvalid = errors.New("id: invalid identifier")

// Parse decodes the hex form produced by String.
func Parse(s string) (ID, error) {
	var id ID
	if len(s) != 32 {
		return id, ErrInvalid
	}
	for i := 0; i < 16; i++ {
		hi, ok1 := unhex(s[i*2])
		lo, ok2 := unhex(s[i*2+1])
		if !ok1 || !ok2 {
			return ID{}, ErrInvalid
		}
		id[i] = hi<<4 | lo
	}
	return id, nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// fmtHex is a small, allocation-lean hex encoder for fixed-size IDs.
func fmtHex(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = hexdigits[v>>4]
		out[i*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}
