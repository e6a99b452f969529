// Copyright (C) 2023 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"storj.io/infectious"
)

// A Share represents a piece of the erasure coded data.
type Share = infectious.Share

// ErasureScheme represents the general format of any erasure scheme algorithm.
// Both the byte oriented Reed-Solomon scheme and the GF(2^64) field scheme
// implement it, so callers can swap one for the other.
type ErasureScheme interface {
	// Encode will take 'in' and call 'out' with erasure coded pieces.
	Encode(in []byte, out func(num int, data []byte)) error

	// EncodeSingle will take 'in' with the stripe and fill 'out' with the erasure share for piece 'num'.
	EncodeSingle(in, out []byte, num int) error

	// Decode will take the available shares, correct errors when there are
	// more than RequiredCount of them, and append the combined data to
	// 'out', returning it.
	Decode(out []byte, in []Share) ([]byte, error)

	// Rebuild recovers the RequiredCount data shares without any error
	// detection, calling 'out' for each.
	Rebuild(in []Share, out func(Share)) error

	// ErasureShareSize is the size of the erasure shares that come from Encode
	// and are passed to Decode.
	ErasureShareSize() int

	// StripeSize is the size the stripes that are passed to Encode and come
	// from Decode.
	StripeSize() int

	// Encode will generate this many erasure shares and therefore this many pieces.
	TotalCount() int

	// Decode requires at least this many pieces.
	RequiredCount() int
}
