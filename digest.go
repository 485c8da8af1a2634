package sha1e3

import (
	"crypto/sha1"
	"encoding"
	"encoding/binary"
	"hash"
	"math/bits"

	"golang.org/x/crypto/blake2b"

	"github.com/securehash/sha1e3/internal/alg/block"
	"github.com/securehash/sha1e3/internal/alg/collatz"
	"github.com/securehash/sha1e3/internal/alg/mix"
	"github.com/securehash/sha1e3/internal/consts"
)

//
// hasher contains the incremental state for a sha1e3 digest
//

type hasher struct {
	base   hash.Hash
	n      int
	pos    uint64
	global mix.Func
	buf    [consts.BlockLen]byte
}

func newHasher(global mix.Func) *hasher {
	return &hasher{base: sha1.New(), global: global}
}

func (d *hasher) reset() {
	d.base.Reset()
	d.n = 0
	d.pos = 0
}

func (d *hasher) update(p []byte) {
	for len(p) > 0 {
		if d.n == 0 && len(p) >= consts.BlockLen {
			d.consume(p[:consts.BlockLen], d.base)
			p = p[consts.BlockLen:]
			continue
		}

		c := copy(d.buf[d.n:], p)
		d.n += c
		p = p[c:]
		if d.n == consts.BlockLen {
			d.consume(d.buf[:], d.base)
			d.n = 0
		}
	}
}

// consume mixes one full or final block at the current position and feeds
// it to acc. Accumulator updates must happen in position order; the mixed
// bytes of block i never depend on block i+1, but the accumulator is an
// ordered reduction.
func (d *hasher) consume(blk []byte, acc hash.Hash) {
	acc.Write(block.Mix(blk, d.pos, d.global))
	d.pos++
}

// finalize computes the digest without disturbing the running state, so a
// caller can keep writing after Sum. The pending partial block is flushed
// into a snapshot of the accumulator only.
func (d *hasher) finalize() [consts.Size]byte {
	acc := d.snapshot()
	if d.n > 0 {
		acc.Write(block.Mix(d.buf[:d.n], d.pos, d.global))
	}
	base := acc.Sum(nil)

	seed := binary.BigEndian.Uint32(base[:4])
	seq := collatz.Sequence(seed)

	mixed := make([]byte, len(base))
	copy(mixed, base)
	for i := 0; i < len(seq) && i < 8; i++ {
		idx := 2 * i
		if idx+1 < len(mixed) {
			mixed[idx], mixed[idx+1] = mixBytes(mixed[idx], mixed[idx+1], byte(seq[i]))
		}
	}

	return finalizeState(mixed)
}

// snapshot clones the base accumulator through its binary marshaling.
func (d *hasher) snapshot() hash.Hash {
	state, err := d.base.(encoding.BinaryMarshaler).MarshalBinary()
	if err != nil {
		panic("sha1e3: sha1 state marshal: " + err.Error())
	}
	acc := sha1.New()
	if err := acc.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		panic("sha1e3: sha1 state unmarshal: " + err.Error())
	}
	return acc
}

// mixBytes runs one Feistel round over a digest byte pair, salted with the
// low byte of a Collatz sequence value.
func mixBytes(a, b, salt byte) (byte, byte) {
	x := a*consts.FeistelM1 + salt
	y := b*consts.FeistelM2 + salt

	t := x
	x = y ^ (x*consts.FeistelM3 + salt)
	y = t ^ (y*consts.FeistelM4 + salt)

	x = bits.RotateLeft8(x, 3)
	y = bits.RotateLeft8(y, -3)
	x ^= salt & 0x33
	y ^= (salt >> 4) & 0x33
	return x, y
}

// finalizeState compresses the mixed digest buffer to exactly Size bytes
// with a salted BLAKE2b-256. The repeat/truncate guard pins the length even
// if the compression primitive's natural output were to differ.
func finalizeState(state []byte) [consts.Size]byte {
	h, _ := blake2b.New256(nil)
	h.Write(state)
	h.Write([]byte{consts.FinalSalt})
	sum := h.Sum(nil)

	for len(sum) < consts.Size {
		sum = append(sum, sum...)
	}
	var out [consts.Size]byte
	copy(out[:], sum)
	return out
}
