package utils

import (
	"math/bits"

	"github.com/securehash/sha1e3/internal/consts"
)

// Rotl rotates x left by n&7 bits.
func Rotl(x byte, n int) byte {
	return bits.RotateLeft8(x, n&7)
}

// Rotr rotates x right by n&7 bits.
func Rotr(x byte, n int) byte {
	return bits.RotateLeft8(x, -(n & 7))
}

// BalanceByte nudges the popcount of b into [3,5] by flipping one bit at a
// time, at most 8 attempts. The bit to flip is a deterministic function of
// the current value and the prime table, never a random choice. If the
// attempts run out without reaching balance, the original byte is returned
// unchanged: balancing is best-effort, not a guarantee.
func BalanceByte(b byte) byte {
	pc := bits.OnesCount8(b)
	if pc >= 3 && pc <= 5 {
		return b
	}

	orig := b
	attempts := 0

	for pc > 5 && attempts < 8 {
		var set [8]int
		n := 0
		for i := 0; i < 8; i++ {
			if b&(1<<i) != 0 {
				set[n] = i
				n++
			}
		}
		if n == 0 {
			break
		}
		idx := (int(b)*int(consts.Primes[attempts%len(consts.Primes)]) + pc) % n
		b &^= 1 << set[idx]
		pc = bits.OnesCount8(b)
		attempts++
	}

	for pc < 3 && attempts < 8 {
		var clear [8]int
		n := 0
		for i := 0; i < 8; i++ {
			if b&(1<<i) == 0 {
				clear[n] = i
				n++
			}
		}
		if n == 0 {
			break
		}
		idx := (int(b)*int(consts.Primes[(attempts+3)%len(consts.Primes)]) + pc) % n
		b |= 1 << clear[idx]
		pc = bits.OnesCount8(b)
		attempts++
	}

	if pc > 5 || pc < 3 {
		return orig
	}
	return b
}

// LongestBitRun scans buf MSB-first and returns the length of the longest
// run of identical bits. Runs of length 1 report as 0; only lengths ≥ 2 are
// distinguishable, which is all the repair threshold needs.
func LongestBitRun(buf []byte) int {
	maxRun, run, cur := 0, 0, -1
	for i := 0; i < len(buf)*8; i++ {
		bit := int(buf[i/8]>>(7-i%8)) & 1
		if bit == cur {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			cur = bit
			run = 1
		}
	}
	return maxRun
}

// BreakLongRuns flips bits in place to break up runs longer than
// consts.MaxRun. Whether a given bit flips depends on the byte it lives in
// and its stream position, keeping the repair deterministic.
func BreakLongRuns(buf []byte) {
	cur, run := -1, 0
	for i := 0; i < len(buf)*8; i++ {
		byteIdx, bitPos := i/8, 7-i%8
		bit := int(buf[byteIdx]>>bitPos) & 1

		if bit == cur {
			run++
		} else {
			cur = bit
			run = 1
		}

		if run > consts.MaxRun {
			pattern := consts.Primes[(int(buf[byteIdx])+i)%len(consts.Primes)]
			if pattern&(1<<(i%3)) != 0 {
				buf[byteIdx] ^= 1 << bitPos
				cur ^= 1
				run = 1
			}
		}
	}
}
