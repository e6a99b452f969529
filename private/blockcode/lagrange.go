// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blockcode

import (
	"fmt"
	"sync"

	"storj.io/errorz/private/gf64"
)

// Lagrange wraps a base code so that symbols are the values of the message
// polynomial at the base locators instead of the base code's coefficients.
//
// Position i of the wrapped word relates to the base word by the factor
// c[i] = prod_{j!=i} 1/(Z_i+Z_j). Decoding scales a copy into the base
// code's coordinates, delegates, and scales back.
type Lagrange struct {
	base Code

	// tables are shared by clones and by every instance derived from the
	// same NewLagrange call with the same parameters.
	*tables
	cache *tableCache
}

// tables holds the transform for one (n,k). It must not be modified.
type tables struct {
	coeff  []uint64 // c[i]
	scale  []uint64 // 1/c[i]
	weight []uint64 // barycentric weights of the message positions
}

// tableCache memoizes tables per (n,k) for one family of instances.
type tableCache struct {
	mu     sync.Mutex
	bySize map[[2]int]*tables
}

func (c *tableCache) get(n, k int, base Code) *tables {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := [2]int{n, k}
	if t, ok := c.bySize[key]; ok {
		return t
	}
	t := newTables(n, k, base)
	if c.bySize == nil {
		c.bySize = make(map[[2]int]*tables)
	}
	c.bySize[key] = t
	return t
}

func newTables(n, k int, base Code) *tables {
	t := &tables{
		coeff:  make([]uint64, n),
		scale:  make([]uint64, n),
		weight: make([]uint64, k),
	}
	for i := 0; i < n; i++ {
		zi := base.Locator(i)
		v := gf64.One
		for j := 0; j < n; j++ {
			if j != i {
				v = gf64.Mul(v, zi^base.Locator(j))
			}
		}
		t.scale[i] = v
		t.coeff[i] = gf64.Inv(v)
	}
	for i := 0; i < k; i++ {
		zi := base.Locator(i)
		v := gf64.One
		for j := 0; j < k; j++ {
			if j != i {
				v = gf64.Mul(v, zi^base.Locator(j))
			}
		}
		t.weight[i] = gf64.Inv(v)
	}
	return t
}

// NewLagrange creates a wrapped code word of the same kind as base over view.
func NewLagrange(n, k int, base Code, view View, encode bool) (*Lagrange, error) {
	return newLagrange(n, k, base, view, encode, new(tableCache))
}

func newLagrange(n, k int, base Code, view View, encode bool, cache *tableCache) (*Lagrange, error) {
	delegate, err := base.Instance(n, k, view, false)
	if err != nil {
		return nil, err
	}
	l := &Lagrange{
		base:   delegate,
		tables: cache.get(n, k, delegate),
		cache:  cache,
	}
	if encode {
		l.Encode()
	}
	return l, nil
}

// Base returns the wrapped code word.
func (l *Lagrange) Base() Code { return l.base }

// BlockLength implements Word.
func (l *Lagrange) BlockLength() int { return l.base.BlockLength() }

// MessageLength implements Word.
func (l *Lagrange) MessageLength() int { return l.base.MessageLength() }

// Get implements Word.
func (l *Lagrange) Get(i int) uint64 { return l.base.Get(i) }

// Set implements Word.
func (l *Lagrange) Set(i int, val uint64) { l.base.Set(i, val) }

// Locator implements Code.
func (l *Lagrange) Locator(i int) uint64 { return l.base.Locator(i) }

// Instance implements Code. Instances share the transform tables of every
// earlier instance with the same parameters.
func (l *Lagrange) Instance(n, k int, view View, encode bool) (Code, error) {
	code, err := newLagrange(n, k, l.base, view, encode, l.cache)
	if err != nil {
		return nil, err
	}
	return code, nil
}

// Clone implements Word.
func (l *Lagrange) Clone() Word {
	return &Lagrange{
		base:   l.base.Clone().(Code),
		tables: l.tables,
		cache:  l.cache,
	}
}

// Encode interpolates the message values through the first K locators and
// evaluates the interpolant at the remaining ones.
func (l *Lagrange) Encode() {
	n, k := l.BlockLength(), l.MessageLength()
	msg := make([]uint64, k)
	for j := range msg {
		msg[j] = gf64.Mul(l.base.Get(j), l.weight[j])
	}

	pre := make([]uint64, k+1)
	suf := make([]uint64, k+1)
	for i := k; i < n; i++ {
		zi := l.base.Locator(i)
		pre[0] = gf64.One
		for j := 0; j < k; j++ {
			pre[j+1] = gf64.Mul(pre[j], zi^l.base.Locator(j))
		}
		suf[k] = gf64.One
		for j := k - 1; j >= 0; j-- {
			suf[j] = gf64.Mul(suf[j+1], zi^l.base.Locator(j))
		}
		var x uint64
		for j, v := range msg {
			x ^= gf64.Mul(v, gf64.Mul(pre[j], suf[j+1]))
		}
		l.base.Set(i, x)
	}
}

// FixErasures implements Word.
func (l *Lagrange) FixErasures(idx []int) {
	tmp := l.scaled()
	tmp.FixErasures(idx)
	l.unscale(tmp)
}

// FixErrors implements Word. A failed delegate leaves the word unchanged.
func (l *Lagrange) FixErrors() bool {
	tmp := l.scaled()
	if !tmp.FixErrors() {
		return false
	}
	l.unscale(tmp)
	return true
}

// FixErrorsAndErasures implements Code.
func (l *Lagrange) FixErrorsAndErasures(idx []int) bool {
	tmp := l.scaled()
	if !tmp.FixErrorsAndErasures(idx) {
		return false
	}
	l.unscale(tmp)
	return true
}

// String implements fmt.Stringer.
func (l *Lagrange) String() string {
	return fmt.Sprintf("Lagrange-RS code [%v]", l.base)
}

// scaled returns a base code word over compact scratch storage holding the
// symbols in the base code's coordinates.
func (l *Lagrange) scaled() Code {
	n, k := l.BlockLength(), l.MessageLength()
	scratch := make([]uint64, n)
	for i := range scratch {
		scratch[i] = gf64.Mul(l.base.Get(i), l.coeff[i])
	}
	tmp, err := l.base.Instance(n, k, Compact(scratch), false)
	if err != nil {
		// the parameters were already accepted by the wrapped word.
		panic(err)
	}
	return tmp
}

func (l *Lagrange) unscale(tmp Code) {
	for i := 0; i < l.BlockLength(); i++ {
		l.base.Set(i, gf64.Mul(tmp.Get(i), l.scale[i]))
	}
}
