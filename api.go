// Package sha1e3 implements the SHA1-E3 digest construction: a 64-byte
// position-dependent block mixing network feeding a SHA-1 accumulator,
// post-processed with a strengthened Collatz sequence and compressed to a
// fixed 32-byte digest. The construction is deterministic and
// fixed-output-length; it is not a vetted cryptographic hash.
package sha1e3

import (
	"encoding/hex"
	"io"

	"github.com/securehash/sha1e3/internal/alg/mix"
	"github.com/securehash/sha1e3/internal/consts"
)

// Strategy selects the diffusion core used for a digest computation. The
// choice is made when the Hasher is created and never changes mid-stream.
// Both strategies produce bit-identical digests for identical input.
type Strategy uint8

const (
	// Accelerated runs the diffusion network on precomputed lookup tables.
	Accelerated Strategy = iota
	// Portable runs the direct bitwise reference implementation.
	Portable
)

// Hasher is a hash.Hash for SHA1-E3.
type Hasher struct {
	h *hasher
}

// New returns a new Hasher using the Accelerated strategy.
func New() *Hasher {
	return NewStrategy(Accelerated)
}

// NewStrategy returns a new Hasher using the given strategy.
func NewStrategy(s Strategy) *Hasher {
	return &Hasher{h: newHasher(mix.Pick(s == Accelerated))}
}

// Write implements part of the hash.Hash interface. It never returns an
// error.
func (h *Hasher) Write(p []byte) (int, error) {
	h.h.update(p)
	return len(p), nil
}

// WriteString is like Write but specialized for strings.
func (h *Hasher) WriteString(p string) (int, error) {
	return h.Write([]byte(p))
}

// Reset implements part of the hash.Hash interface. It causes the Hasher
// to act as if it was newly created.
func (h *Hasher) Reset() {
	h.h.reset()
}

// Size implements part of the hash.Hash interface. It returns the number
// of bytes the hash will output.
func (h *Hasher) Size() int {
	return consts.Size
}

// BlockSize implements part of the hash.Hash interface. It returns the
// internal block size of the mixing pipeline.
func (h *Hasher) BlockSize() int {
	return consts.BlockLen
}

// Sum implements part of the hash.Hash interface. It appends the digest of
// the Hasher to the provided buffer and returns it. The running state is
// left intact, so writing may continue afterwards.
func (h *Hasher) Sum(b []byte) []byte {
	sum := h.h.finalize()
	return append(b, sum[:]...)
}

// SumHex returns the digest as a 64-character lowercase hex string.
func (h *Hasher) SumHex() string {
	sum := h.h.finalize()
	return hex.EncodeToString(sum[:])
}

// Sum256 returns the SHA1-E3 digest of data.
func Sum256(data []byte) [32]byte {
	d := newHasher(mix.Pick(true))
	d.update(data)
	return d.finalize()
}

// SumHex returns the SHA1-E3 digest of data as a 64-character lowercase
// hex string.
func SumHex(data []byte) string {
	sum := Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SumReader computes the digest of everything readable from r without
// buffering the whole input. The result is byte-identical to Sum256 over
// the same content regardless of how r chunks its reads. I/O errors are
// returned unmodified.
func SumReader(r io.Reader) ([32]byte, error) {
	h := New()
	if _, err := io.Copy(h, r); err != nil {
		return [32]byte{}, err
	}
	return h.h.finalize(), nil
}

// SumReaderHex is SumReader with the digest rendered as a 64-character
// lowercase hex string.
func SumReaderHex(r io.Reader) (string, error) {
	sum, err := SumReader(r)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}
