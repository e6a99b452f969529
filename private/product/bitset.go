// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package product

import (
	"fmt"
	"math/bits"
)

// bitset tracks resolved lines. Line counts never exceed
// blockcode.MaxLength, so 256 bits suffice.
type bitset struct {
	v [4]uint64
}

func (b bitset) String() string {
	return fmt.Sprintf("%064b%064b%064b%064b", b.v[3], b.v[2], b.v[1], b.v[0])
}

func (b *bitset) set(n byte)      { b.v[n/64] |= 1 << (n % 64) }
func (b *bitset) has(n byte) bool { return b.v[n/64]&(1<<(n%64)) != 0 }

func (b *bitset) count() int {
	x0 := bits.OnesCount64(b.v[0])
	x1 := bits.OnesCount64(b.v[1])
	x2 := bits.OnesCount64(b.v[2])
	x3 := bits.OnesCount64(b.v[3])
	return x0 + x1 + x2 + x3
}

// merge sets every line reported as resolved and returns how many of them
// were not set before.
func (b *bitset) merge(resolved []bool) (added int) {
	for i, ok := range resolved {
		if ok && !b.has(byte(i)) {
			b.set(byte(i))
			added++
		}
	}
	return added
}
