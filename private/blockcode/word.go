// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package blockcode implements single dimensional block codes over GF(2^64).
//
// A code word is N field elements whose first K positions hold the message
// and whose remaining N-K positions hold redundancy. Code words may be views
// into a larger shared array, which is how the product code lays its rows and
// columns over one grid.
package blockcode

import (
	"storj.io/errorz/private/random"
)

// Word is the capability set every code word exposes.
type Word interface {
	// BlockLength returns N.
	BlockLength() int
	// MessageLength returns K.
	MessageLength() int
	// Get returns the symbol at logical index i.
	Get(i int) uint64
	// Set overwrites the symbol at logical index i.
	Set(i int, val uint64)
	// Encode recomputes positions K..N-1 from positions 0..K-1.
	Encode()
	// FixErasures recovers the symbols at the given positions, trusting
	// every other position. Repeated positions count once. At most N-K
	// positions can be recovered.
	FixErasures(idx []int)
	// FixErrors corrects errors at unknown positions. A false result leaves
	// the word unchanged. A true result may still be a miscorrection when
	// the word carried more errors than the code can correct.
	FixErrors() bool
	// Clone returns an independent deep copy.
	Clone() Word
}

// Code is a Word backed by an evaluation point per position. It can create
// further instances of the same kind over arbitrary storage.
type Code interface {
	Word

	// Locator returns the evaluation point of position i.
	Locator(i int) uint64
	// FixErrorsAndErasures corrects errors at unknown positions while
	// recovering the given erased positions. A false result leaves the
	// word unchanged.
	FixErrorsAndErasures(idx []int) bool
	// Instance creates a code word of the same kind over view. When encode
	// is true the redundancy positions are computed from the message.
	Instance(n, k int, view View, encode bool) (Code, error)
}

// View describes where the symbols of a code word live: logical index i is
// stored at Data[Offset+i*Stride]. Views over one array may cross each other,
// but every view keeps its own stride pattern.
type View struct {
	Data   []uint64
	Offset int
	Stride int
}

// Compact returns a view over data with offset 0 and stride 1.
func Compact(data []uint64) View {
	return View{Data: data, Stride: 1}
}

// index maps logical index i to a physical index.
func (v View) index(i int) int { return v.Offset + i*v.Stride }

// prepare validates the view for a code word of length n, allocating fresh
// storage with random message symbols when Data is nil.
func (v View) prepare(n, k int) (View, error) {
	if v.Data == nil {
		if v.Offset != 0 || v.Stride != 1 {
			return View{}, Error.New("parameters not consistent: no data with offset=%d stride=%d", v.Offset, v.Stride)
		}
		data := make([]uint64, n)
		random.Fill(data[:k])
		return Compact(data), nil
	}
	if v.Offset < 0 || v.Stride < 1 {
		return View{}, Error.New("invalid view: offset=%d stride=%d", v.Offset, v.Stride)
	}
	if last := v.index(n - 1); last >= len(v.Data) {
		return View{}, Error.New("view too short: position %d needs index %d of %d", n-1, last, len(v.Data))
	}
	return v, nil
}

// Fresh creates a code word of the same kind as proto whose message symbols
// come from src and whose redundancy is encoded.
func Fresh(proto Code, n, k int, src *random.Source) (Code, error) {
	if n < 1 || k < 0 || k > n {
		return nil, Error.New("invalid parameters (n,k)=(%d,%d)", n, k)
	}
	data := make([]uint64, n)
	src.Fill(data[:k])
	return proto.Instance(n, k, Compact(data), true)
}

// Snapshot copies the symbols of w in logical order.
func Snapshot(w Word) []uint64 {
	out := make([]uint64, w.BlockLength())
	for i := range out {
		out[i] = w.Get(i)
	}
	return out
}

// Equal reports whether a and b hold the same symbols.
func Equal(a, b Word) bool {
	if a.BlockLength() != b.BlockLength() {
		return false
	}
	for i := 0; i < a.BlockLength(); i++ {
		if a.Get(i) != b.Get(i) {
			return false
		}
	}
	return true
}

func checkParams(n, k, max int) error {
	if n > max {
		return Error.New("parameter n=%d exceeds %d", n, max)
	}
	if k < 1 || k >= n {
		return Error.New("invalid parameters (n,k)=(%d,%d)", n, k)
	}
	return nil
}
