package mix_pure

import (
	"github.com/securehash/sha1e3/internal/consts"
	"github.com/securehash/sha1e3/internal/utils"
)

// Global runs the two-round neighborhood diffusion network over buf in
// place. Each round makes a forward pass that folds four neighbors into
// every byte through rotations and the S-box, then a backward pass with a
// different neighbor pattern and a round-selected odd multiplier. All
// indices wrap, so after two rounds every byte depends on the whole buffer.
func Global(buf []byte) {
	n := len(buf)
	for r := 0; r < 2; r++ {
		for i := 0; i < n; i++ {
			b := buf[i]
			b ^= utils.Rotl(buf[(i+n-1)%n], 2+r)
			b ^= utils.Rotr(buf[(i+n-2)%n], 3+r)
			b ^= consts.SBox[buf[(i+1)%n]]
			b ^= utils.Rotl(buf[(i+2)%n], 1+r)
			buf[i] = consts.SBox[b]
		}
		for i := n - 1; i >= 0; i-- {
			b := utils.Rotl(buf[i], 3)
			b ^= consts.SBox[buf[(i+1)%n]]
			b ^= utils.Rotr(buf[(i+n-1)%n], 2)
			buf[i] = b * consts.Multipliers[r%len(consts.Multipliers)]
		}
	}
}
