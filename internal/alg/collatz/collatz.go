// Package collatz evolves a 32-bit seed through a strengthened Collatz
// process: halve on even, 3n+1 on odd, with every transition routed through
// a nonlinear state mixer that breaks long bit runs and keeps the bytes of
// the state near balanced. The walk is hard-capped at 100 steps; with the
// mixer in the loop the state is not guaranteed to ever reach 1, so the cap
// is what bounds the computation.
package collatz

import (
	"math/bits"

	"github.com/securehash/sha1e3/internal/consts"
)

// Sequence returns the intermediate states visited from seed, at most
// consts.MaxSteps of them. Deterministic in seed.
func Sequence(seed uint32) []uint32 {
	seq := make([]uint32, 0, consts.MaxSteps)
	state := seed

	for steps := 0; state != 1 && steps < consts.MaxSteps; steps++ {
		seq = append(seq, state)
		prev := state

		state = mixState(state)
		if state&1 == 0 {
			state = mixState(state >> 1)
		} else {
			state = mixState(3*state + 1)
		}

		// cycle guard: a fixed point would stall the walk
		if state == prev {
			state = mixState(prev ^ uint32(steps+1))
		}

		state = flipUnbalanced(state)
	}
	return seq
}

// mixState is the nonlinear step applied at every transition: two
// rotate-multiply rounds, then run breaking, then byte-balance correction.
func mixState(v uint32) uint32 {
	v = bits.RotateLeft32(v, 7)
	v *= consts.StateP1
	v = bits.RotateLeft32(v, 13)
	v *= consts.StateP2

	v = breakRuns32(v)

	for i := 0; i < 32; i += 8 {
		switch pc := bits.OnesCount8(byte(v >> i)); {
		case pc < 3:
			v |= 0x55 << i
		case pc > 5:
			v &^= 0x55 << i
		}
	}
	return v
}

// breakRuns32 finds runs of identical bits (MSB-first) longer than
// consts.MaxRun and flips every 7th bit inside each such run. Run positions
// are taken from the input value, so later flips never move earlier ones.
func breakRuns32(v uint32) uint32 {
	var starts, lengths [32]int
	runs := 0
	last, run := -1, 0
	for i := 0; i < 32; i++ {
		bit := int(v>>(31-i)) & 1
		if bit == last {
			run++
			continue
		}
		if last >= 0 {
			starts[runs], lengths[runs] = i-run, run
			runs++
		}
		last, run = bit, 1
	}
	starts[runs], lengths[runs] = 32-run, run
	runs++

	for r := 0; r < runs; r++ {
		if lengths[r] <= consts.MaxRun {
			continue
		}
		for j := starts[r] + 7; j < starts[r]+lengths[r]; j += 7 {
			if j < 32 {
				v ^= 1 << (31 - j)
			}
		}
	}
	return v
}

// flipUnbalanced applies the hard per-byte correction used between steps:
// one low bit flipped in every byte whose popcount is outside [3,5].
func flipUnbalanced(v uint32) uint32 {
	for i := 0; i < 32; i += 8 {
		if pc := bits.OnesCount8(byte(v >> i)); pc < 3 || pc > 5 {
			v ^= 1 << i
		}
	}
	return v
}
