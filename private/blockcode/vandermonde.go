// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blockcode

import (
	"fmt"

	"storj.io/errorz/private/gf64"
)

// MaxLength is the largest block length any locator table supports.
const MaxLength = 256

var vandermondeLocators = func() []uint64 {
	z := make([]uint64, MaxLength)
	v := gf64.One
	for i := 1; i < len(z); i++ {
		z[i] = v
		v = gf64.Mul(v, gf64.Alpha)
	}
	return z
}()

// Vandermonde is a systematic Reed-Solomon style code whose positions are
// evaluated at 0, Alpha^0, Alpha^1, ... It corrects up to (N-K)/2 errors.
//
// The zero value is a prototype: it can create instances and report
// locators, but holds no symbols.
type Vandermonde struct {
	word
}

// NewVandermonde creates a Vandermonde code word over view. A view with nil
// Data allocates fresh storage holding a random message.
func NewVandermonde(n, k int, view View, encode bool) (*Vandermonde, error) {
	w, err := newWord(n, k, view, vandermondeLocators)
	if err != nil {
		return nil, err
	}
	code := &Vandermonde{word: w}
	if encode {
		code.Encode()
	}
	return code, nil
}

// Locator returns the evaluation point of position i.
func (*Vandermonde) Locator(i int) uint64 { return vandermondeLocators[i] }

// Instance implements Code.
func (*Vandermonde) Instance(n, k int, view View, encode bool) (Code, error) {
	code, err := NewVandermonde(n, k, view, encode)
	if err != nil {
		return nil, err
	}
	return code, nil
}

// Clone implements Word.
func (code *Vandermonde) Clone() Word {
	return &Vandermonde{word: code.clone()}
}

// FixErrors implements Word.
func (code *Vandermonde) FixErrors() bool {
	return code.decode(nil, hankel)
}

// FixErrorsAndErasures implements Code.
func (code *Vandermonde) FixErrorsAndErasures(idx []int) bool {
	return code.decode(idx, hankel)
}

// String implements fmt.Stringer.
func (code *Vandermonde) String() string {
	if code.n == 0 {
		return "Vandermonde-RS code"
	}
	return fmt.Sprintf("Vandermonde-RS code (n,k)=(%d,%d)", code.n, code.k)
}
