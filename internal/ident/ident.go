// Package ident combines child identities into parent identities.
//
// Two schemes are provided. Hasher is a fast order-sensitive fold over 64-bit
// FNV-1a used for in-process deduplication and cache keys; it is deterministic
// but not collision-free. Digest is a domain-separated SHA-256 over a canonical
// structural encoding, stable across runs, used where identity is persisted.
package ident

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"hash/fnv"
)

// Hasher folds a kind seed and an ordered sequence of child identities.
type Hasher struct {
	h hash.Hash64
}

// New starts a fold seeded with the given kind label.
func New(seed string) *Hasher {
	h := &Hasher{h: fnv.New64a()}
	h.WriteString(seed)
	return h
}

// WriteString folds a length-prefixed string.
func (h *Hasher) WriteString(s string) {
	h.WriteUint64(uint64(len(s)))
	_, _ = h.h.Write([]byte(s))
}

func (h *Hasher) WriteUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.h.Write(buf[:])
}

func (h *Hasher) Sum() uint64 {
	return h.h.Sum64()
}

// Combine is New(seed) followed by WriteUint64 for each id.
func Combine(seed string, ids ...uint64) uint64 {
	h := New(seed)
	for _, id := range ids {
		h.WriteUint64(id)
	}
	return h.Sum()
}

// Canon accumulates a canonical byte encoding of a structure.
type Canon struct {
	buf []byte
}

func (c *Canon) Byte(b byte) {
	c.buf = append(c.buf, b)
}

func (c *Canon) Uvarint(v uint64) {
	c.buf = binary.AppendUvarint(c.buf, v)
}

func (c *Canon) String(s string) {
	c.Uvarint(uint64(len(s)))
	c.buf = append(c.buf, s...)
}

func (c *Canon) Bytes() []byte {
	return c.buf
}

// Digest computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func Digest(domain string, data []byte) [32]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Hex renders a digest as lowercase hex.
func Hex(d [32]byte) string {
	return hex.EncodeToString(d[:])
}
