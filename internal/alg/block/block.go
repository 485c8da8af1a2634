// Package block turns one ≤64-byte input block plus its stream position
// into a mixed block of at least 16 bytes. The mixing is a fixed pipeline:
// position-seeded padding, 8-byte chunk diffusion with inter-chunk
// chaining, several whole-buffer diffusion and decorrelation passes, a
// value-dependent permutation, run repair, and a final gentle bit-balance
// sweep. Output depends only on the block bytes and the position.
package block

import (
	"math/bits"

	"github.com/securehash/sha1e3/internal/alg/mix"
	"github.com/securehash/sha1e3/internal/consts"
	"github.com/securehash/sha1e3/internal/utils"
)

// Mix computes the mixed block for blk at the given position. blk is not
// modified. The chunk chaining makes byte i of chunk k depend on the mixed
// chunk k-1, so chunks within one block must run in order; the caller is
// free to mix different blocks concurrently.
func Mix(blk []byte, position uint64, global mix.Func) []byte {
	outputSize := len(blk)
	if outputSize < consts.MinMixed {
		outputSize = consts.MinMixed
	}

	// position-dependent constants
	k1 := uint64(consts.Primes[(position*3)%uint64(len(consts.Primes))])
	k2 := uint64(consts.Primes[(position*5+1)%uint64(len(consts.Primes))])
	k3 := uint64(consts.Multipliers[(position*7)%uint64(len(consts.Multipliers))])

	buffer := make([]byte, len(blk), outputSize)
	copy(buffer, blk)
	if len(buffer) < outputSize {
		padBase := (k1*k2 + position) & 0xFF
		for len(buffer) < outputSize {
			pad := consts.SBox[(padBase+uint64(len(buffer))*k3)&0xFF]
			buffer = append(buffer, pad)
		}
	}

	result := make([]byte, 0, (outputSize+consts.ChunkLen-1)/consts.ChunkLen*consts.ChunkLen)
	var prev []byte
	idx := uint64(0)
	for start := 0; start < len(buffer); start += consts.ChunkLen {
		end := start + consts.ChunkLen
		if end > len(buffer) {
			end = len(buffer)
		}
		chunk := make([]byte, end-start, consts.ChunkLen)
		copy(chunk, buffer[start:end])

		// a short trailing chunk gets its own S-box filler
		padVal := (k1 + uint64(start)) & 0xFF
		for len(chunk) < consts.ChunkLen {
			padVal = uint64(consts.SBox[(padVal*k2+k3)&0xFF])
			chunk = append(chunk, byte(padVal))
		}

		// chain against the previous mixed chunk
		if prev != nil {
			for i := range chunk {
				chunk[i] ^= utils.Rotl(prev[i], int((position+uint64(i))&7))
			}
		}

		global(chunk)
		for i := range chunk {
			x := consts.SBox[chunk[i]]
			x = utils.Rotl(x, int((position+idx+uint64(i))&7))
			x = byte((uint64(x)*k3 + k1) & 0xFF)
			chunk[i] = consts.SBox[x]
		}
		global(chunk)

		prev = chunk
		result = append(result, chunk...)
		idx++
	}
	result = result[:outputSize]

	global(result)
	global(result)
	global(result)

	// cross-byte XOR sweeps at fixed distances, then one more nonlinear pass
	n := len(result)
	for i := 0; i < n; i++ {
		result[i] ^= utils.Rotl(result[(i+1)%n], 3)
	}
	for i := 0; i < n; i++ {
		result[i] ^= utils.Rotl(result[(i+5)%n], 5)
	}
	for i := n - 1; i >= 0; i-- {
		result[i] ^= utils.Rotl(result[(i+n-2)%n], 4)
	}
	for i := range result {
		result[i] = consts.SBox[result[i]]
	}
	global(result)

	// decorrelation: strided S-box fold, then the palindrome fold
	for i := 0; i < n; i++ {
		result[i] ^= consts.SBox[result[(i*7+3)%n]]
	}
	for i := 0; i < n; i++ {
		result[i] ^= result[n-1-i]
	}

	// value-dependent permutation; indices come from the buffer itself
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := (int(result[i]) + int(result[n-1-i])) % (i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	shuffled := make([]byte, n)
	for i := range shuffled {
		shuffled[i] = result[perm[i]]
	}
	for i := range result {
		result[i] ^= consts.SBox[shuffled[i]]
	}

	if utils.LongestBitRun(result) > consts.MaxRun {
		utils.BreakLongRuns(result)
	}

	for i, b := range result {
		if pc := bits.OnesCount8(b); pc > 5 || pc < 3 {
			result[i] = utils.BalanceByte(b)
		}
	}
	return result
}
