package mix_tab

import (
	"github.com/securehash/sha1e3/internal/consts"
	"github.com/securehash/sha1e3/internal/utils"
)

// Lookup tables derived from the static constants: rot[n][x] is x rotated
// left by n, mul[r][x] is x times the round-r multiplier. Deriving them once
// keeps the hot loop to table indexing and XORs only.
var (
	rot [8][256]byte
	mul [2][256]byte
)

func init() {
	for n := 0; n < 8; n++ {
		for x := 0; x < 256; x++ {
			rot[n][x] = utils.Rotl(byte(x), n)
		}
	}
	for r := 0; r < 2; r++ {
		for x := 0; x < 256; x++ {
			mul[r][x] = byte(x) * consts.Multipliers[r]
		}
	}
}

// Global is the table-driven diffusion network. It must stay bit-identical
// to mix_pure.Global; the cross-check lives in impl_test.go.
func Global(buf []byte) {
	n := len(buf)
	for r := 0; r < 2; r++ {
		fwd1, fwd2 := &rot[2+r], &rot[(8-(3+r))&7]
		fwd4 := &rot[1+r]
		for i := 0; i < n; i++ {
			b := buf[i]
			b ^= fwd1[buf[(i+n-1)%n]]
			b ^= fwd2[buf[(i+n-2)%n]]
			b ^= consts.SBox[buf[(i+1)%n]]
			b ^= fwd4[buf[(i+2)%n]]
			buf[i] = consts.SBox[b]
		}
		mulr := &mul[r]
		for i := n - 1; i >= 0; i-- {
			b := rot[3][buf[i]]
			b ^= consts.SBox[buf[(i+1)%n]]
			b ^= rot[6][buf[(i+n-1)%n]]
			buf[i] = mulr[b]
		}
	}
}
