package treasurytest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/treasury"
)

var addressCounter uint64

// NewAddress returns a new, unique and valid identity. Each call returns a
// different value.
func NewAddress() treasury.Address {
	n := atomic.AddUint64(&addressCounter, 1)
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, n)
	return treasury.NewAddress(raw)
}

// ParseAddress takes an address in a human readable format and returns its
// binary representation. This function is a test helper that is using
// treasury.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) treasury.Address {
	t.Helper()

	addr, err := treasury.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// SequenceID returns the big endian encoded value of n, which is how vault
// IDs and proposal indexes are represented in keys and events.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
