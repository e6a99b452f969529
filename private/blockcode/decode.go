// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blockcode

import (
	"storj.io/errorz/private/gf64"
)

// system builds the linear system for the error locator coefficients out of
// a run of syndromes.
type system func(s []uint64) [][]uint64

// correction is a pending error fix.
type correction struct {
	pos int
	val uint64
}

// syndromes computes S_j = sum X_i Z_i^j for j < m, treating erased
// positions as zero.
func (w *word) syndromes(m int, erased []bool) []uint64 {
	s := make([]uint64, m)
	for i := 0; i < w.n; i++ {
		if erased != nil && erased[i] {
			continue
		}
		x := w.Get(i)
		if x == 0 {
			continue
		}
		z := w.z[i]
		for j := range s {
			s[j] ^= x
			x = gf64.Mul(x, z)
		}
	}
	return s
}

// decode corrects errors at unknown positions while treating idx as erasures.
// The word is only modified when decoding succeeds.
func (w *word) decode(idx []int, build system) bool {
	m := w.n - w.k

	var erased []bool
	if len(idx) > 0 {
		erased = w.mask(idx)
		idx = distinct(idx, erased)
	}
	if len(idx) > m {
		mon.Meter("fix_errors_too_many_erasures").Mark(1)
		return false
	}

	var gamma []uint64
	if len(idx) > 0 {
		gamma = w.erasureLocator(idx)
	}
	s := w.syndromes(m, erased)
	if gamma != nil {
		s = transform(s, gamma)
	}

	p := solve(build(s))
	if p == nil {
		mon.Meter("fix_errors_rank_deficient").Mark(1)
		return false
	}

	fixes, ok := w.locate(p, s, erased)
	if !ok {
		return false
	}
	for _, fix := range fixes {
		val := fix.val
		if gamma != nil {
			val = gf64.Div(val, horner(gamma, w.z[fix.pos]))
		}
		w.Set(fix.pos, w.Get(fix.pos)^val)
	}
	mon.IntVal("fix_errors_corrected").Observe(int64(len(fixes)))

	if len(idx) > 0 {
		w.FixErasures(idx)
	}
	return true
}

// erasureLocator returns the coefficients of prod_{p in idx} (z + Z_p),
// lowest degree first.
func (w *word) erasureLocator(idx []int) []uint64 {
	g := make([]uint64, 1, len(idx)+1)
	g[0] = gf64.One
	for _, p := range idx {
		zp := w.z[p]
		g = append(g, 0)
		for j := len(g) - 1; j > 0; j-- {
			g[j] = g[j-1] ^ gf64.Mul(g[j], zp)
		}
		g[0] = gf64.Mul(g[0], zp)
	}
	return g
}

// transform folds the erasure locator into the syndromes so that the
// remaining len(s)-deg(gamma) values only see the unknown errors.
func transform(s, gamma []uint64) []uint64 {
	n := len(s) - (len(gamma) - 1)
	out := make([]uint64, n)
	for j := range out {
		var v uint64
		for t, g := range gamma {
			v ^= gf64.Mul(g, s[j+t])
		}
		out[j] = v
	}
	return out
}

// hankel returns the classical syndrome matrix: m-m/2 rows where row i holds
// the syndromes from i onwards.
func hankel(s []uint64) [][]uint64 {
	m := len(s)
	a := make([][]uint64, m-m/2)
	for i := range a {
		a[i] = append([]uint64(nil), s[i:]...)
	}
	return a
}

// solve runs Gaussian elimination over the ragged rows of a and returns the
// monic error locator polynomial, lowest degree first. It returns nil when
// back substitution would need entries the rows do not have. The rows of a
// are clobbered.
func solve(a [][]uint64) []uint64 {
	var e int
	for e = 0; e < len(a) && e < len(a[e]); e++ {
		i := e
		for j := i; j < len(a) && i < len(a[j]); j++ {
			if a[j][i] != 0 {
				if j != i {
					a[i], a[j] = a[j], a[i]
				}
				break
			}
		}
		if a[i][i] == 0 {
			break
		}

		d := gf64.Inv(a[i][i])
		for j := i; j < len(a[i]); j++ {
			a[i][j] = gf64.Mul(a[i][j], d)
		}
		for k := i + 1; k < len(a) && i < len(a[k]); k++ {
			v := a[k][i]
			if v == 0 {
				continue
			}
			maxj := min(len(a[i]), len(a[k]))
			for j := i; j < maxj; j++ {
				a[k][j] ^= gf64.Mul(a[i][j], v)
			}
		}
	}

	res := make([]uint64, e+1)
	res[e] = gf64.One
	for i := e - 1; i >= 0; i-- {
		if len(a[i]) <= e {
			return nil
		}
		var v uint64
		for j := e; j > i; j-- {
			v ^= gf64.Mul(a[i][j], res[j])
		}
		res[i] = v
	}
	return res
}

// locate scans the non-erased positions for roots of p and computes the
// error magnitude of each root from the syndromes s.
func (w *word) locate(p, s []uint64, erased []bool) ([]correction, bool) {
	deg := len(p) - 1
	if deg == 0 {
		return nil, true
	}

	fixes := make([]correction, 0, deg)
	p0 := make([]uint64, deg)
	for i := 0; i < w.n; i++ {
		if erased != nil && erased[i] {
			continue
		}
		z := w.z[i]
		r := p[deg]
		for j := deg - 1; j >= 0; j-- {
			p0[j] = r
			r = gf64.Mul(r, z) ^ p[j]
		}
		if r != 0 {
			continue
		}
		if len(fixes) == deg {
			mon.Meter("fix_errors_root_mismatch").Mark(1)
			return nil, false
		}

		den := horner(p0, z)
		if den == 0 {
			mon.Meter("fix_errors_repeated_root").Mark(1)
			return nil, false
		}
		var num uint64
		for j, c := range p0 {
			num ^= gf64.Mul(c, s[j])
		}
		fixes = append(fixes, correction{pos: i, val: gf64.Div(num, den)})
	}

	if len(fixes) != deg {
		mon.Meter("fix_errors_root_mismatch").Mark(1)
		return nil, false
	}
	return fixes, true
}

// horner evaluates the polynomial p, lowest degree first, at z.
func horner(p []uint64, z uint64) uint64 {
	var r uint64
	for j := len(p) - 1; j >= 0; j-- {
		r = gf64.Mul(r, z) ^ p[j]
	}
	return r
}
