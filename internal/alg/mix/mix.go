// Package mix fronts the two implementations of the global diffusion
// network. Both run the same two-round forward/backward pass and produce
// identical bytes; mix_tab trades the bitwise ops for precomputed tables.
package mix

import (
	"github.com/securehash/sha1e3/internal/alg/mix/mix_pure"
	"github.com/securehash/sha1e3/internal/alg/mix/mix_tab"
)

// Func applies the diffusion network to a buffer in place. len(buf) ≥ 1.
type Func func(buf []byte)

// Pick returns the table-accelerated network when accel is set, otherwise
// the direct reference implementation.
func Pick(accel bool) Func {
	if accel {
		return mix_tab.Global
	}
	return mix_pure.Global
}
