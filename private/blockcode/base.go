// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blockcode

import (
	"storj.io/errorz/private/gf64"
)

// word holds the state shared by the locator based codes.
type word struct {
	n, k int
	view View
	z    []uint64
}

func newWord(n, k int, view View, z []uint64) (word, error) {
	if err := checkParams(n, k, len(z)); err != nil {
		return word{}, err
	}
	view, err := view.prepare(n, k)
	if err != nil {
		return word{}, err
	}
	return word{n: n, k: k, view: view, z: z}, nil
}

// BlockLength returns N.
func (w *word) BlockLength() int { return w.n }

// MessageLength returns K.
func (w *word) MessageLength() int { return w.k }

// Get returns the symbol at logical index i.
func (w *word) Get(i int) uint64 { return w.view.Data[w.view.index(i)] }

// Set overwrites the symbol at logical index i.
func (w *word) Set(i int, val uint64) { w.view.Data[w.view.index(i)] = val }

// Encode recomputes the redundancy by fixing erasures at K..N-1.
func (w *word) Encode() {
	idx := make([]int, w.n-w.k)
	for i := range idx {
		idx[i] = w.k + i
	}
	w.FixErasures(idx)
}

// FixErasures recovers the symbols at idx by interpolating through every
// other position. Repeated positions count once. Nothing is written until every value is known, so readers
// of the same storage never observe a partially zeroed word.
func (w *word) FixErasures(idx []int) {
	if len(idx) == 0 {
		return
	}
	erased := w.mask(idx)
	idx = distinct(idx, erased)

	// den[i] is the Lagrange basis polynomial of idx[i] at its own point.
	den := make([]uint64, len(idx))
	for i := range idx {
		zi := w.z[idx[i]]
		v := gf64.One
		for j := range idx {
			if j != i {
				v = gf64.Mul(v, zi^w.z[idx[j]])
			}
		}
		den[i] = v
	}

	acc := make([]uint64, len(idx))
	pre := make([]uint64, len(idx)+1)
	suf := make([]uint64, len(idx)+1)
	for k := 0; k < w.n; k++ {
		if erased[k] {
			continue
		}
		x := w.Get(k)
		if x == 0 {
			continue
		}
		zk := w.z[k]
		pre[0] = gf64.One
		for j := range idx {
			pre[j+1] = gf64.Mul(pre[j], zk^w.z[idx[j]])
		}
		suf[len(idx)] = gf64.One
		for j := len(idx) - 1; j >= 0; j-- {
			suf[j] = gf64.Mul(suf[j+1], zk^w.z[idx[j]])
		}
		for i := range idx {
			acc[i] ^= gf64.Mul(x, gf64.Mul(pre[i], suf[i+1]))
		}
	}

	for i, p := range idx {
		w.Set(p, gf64.Div(acc[i], den[i]))
	}
}

// distinct returns the marked positions of erased in the order they first
// appear in idx. idx itself is returned when it has no repeats.
func distinct(idx []int, erased []bool) []int {
	count := 0
	for _, e := range erased {
		if e {
			count++
		}
	}
	if count == len(idx) {
		return idx
	}
	out := make([]int, 0, count)
	seen := make([]bool, len(erased))
	for _, p := range idx {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func (w *word) mask(idx []int) []bool {
	erased := make([]bool, w.n)
	for _, p := range idx {
		erased[p] = true
	}
	return erased
}

// clone copies the symbols into compact storage.
func (w *word) clone() word {
	data := make([]uint64, w.n)
	for i := range data {
		data[i] = w.Get(i)
	}
	return word{n: w.n, k: w.k, view: Compact(data), z: w.z}
}
