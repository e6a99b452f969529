// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blockcode

import (
	"fmt"

	"storj.io/errorz/private/gf64"
)

const (
	// subfieldDegree is the degree D of the subfield GF(2^D) holding the
	// locators.
	subfieldDegree = 8

	// subfieldExp is (2^64-1)/(2^8-1). Alpha raised to it generates the
	// multiplicative group of GF(2^8).
	subfieldExp = 0x0101010101010101
)

var mazurovLocators = func() []uint64 {
	g := gf64.Pow(gf64.Alpha, subfieldExp)
	z := make([]uint64, MaxLength)
	v := gf64.One
	for i := 1; i < len(z); i++ {
		z[i] = v
		v = gf64.Mul(v, g)
	}
	return z
}()

// Mazurov is a code whose locators lie in the subfield GF(2^8). Since the
// Frobenius map x -> x^(2^8) fixes every locator, each syndrome equation
// yields D-1 further independent equations, which lets the decoder correct
// up to floor((N-K)*D/(D+1)) errors instead of (N-K)/2.
//
// The zero value is a prototype.
type Mazurov struct {
	word
}

// NewMazurov creates a Mazurov code word over view. A view with nil Data
// allocates fresh storage holding a random message.
func NewMazurov(n, k int, view View, encode bool) (*Mazurov, error) {
	w, err := newWord(n, k, view, mazurovLocators)
	if err != nil {
		return nil, err
	}
	code := &Mazurov{word: w}
	if encode {
		code.Encode()
	}
	return code, nil
}

// Locator returns the evaluation point of position i.
func (*Mazurov) Locator(i int) uint64 { return mazurovLocators[i] }

// Instance implements Code.
func (*Mazurov) Instance(n, k int, view View, encode bool) (Code, error) {
	code, err := NewMazurov(n, k, view, encode)
	if err != nil {
		return nil, err
	}
	return code, nil
}

// Clone implements Word.
func (code *Mazurov) Clone() Word {
	return &Mazurov{word: code.clone()}
}

// FixErrors implements Word.
func (code *Mazurov) FixErrors() bool {
	return code.decode(nil, frobenius)
}

// FixErrorsAndErasures implements Code.
func (code *Mazurov) FixErrorsAndErasures(idx []int) bool {
	return code.decode(idx, frobenius)
}

// String implements fmt.Stringer.
func (code *Mazurov) String() string {
	if code.n == 0 {
		return "Mazurov code"
	}
	return fmt.Sprintf("Mazurov code (n,k)=(%d,%d)", code.n, code.k)
}

// frobenius expands every row of the classical syndrome matrix into D rows:
// the row itself followed by its successive 2^D-power images.
func frobenius(s []uint64) [][]uint64 {
	m := len(s)
	a := make([][]uint64, (m-m/2)*subfieldDegree)
	for i := range a {
		ii, k := i/subfieldDegree, i%subfieldDegree
		row := make([]uint64, m-ii)
		if k == 0 {
			copy(row, s[ii:])
		} else {
			for j, v := range a[i-1] {
				row[j] = gf64.Frobenius(v, subfieldDegree)
			}
		}
		a[i] = row
	}
	return a
}
