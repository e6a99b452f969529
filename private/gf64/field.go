// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package gf64 implements arithmetic in the binary field GF(2^64).
//
// Elements are uint64 values read as polynomials over GF(2) reduced modulo
// x^64 + x^4 + x^3 + x + 1. Addition and subtraction are both XOR.
package gf64

import (
	"math/bits"

	"github.com/zeebo/errs"
)

const (
	// Zero is the additive identity.
	Zero uint64 = 0
	// One is the multiplicative identity.
	One uint64 = 1
	// Alpha is the element x, used to derive locator sequences.
	Alpha uint64 = 2

	// root is the reduction polynomial without its x^64 term.
	root  = 27
	msbit = 1 << 63
	// invExp is |GF(2^64)*| - 1 = 2^64 - 2, so a^invExp = 1/a.
	invExp = ^uint64(1)
)

var (
	// Error is the gf64 errs class.
	Error = errs.Class("gf64")

	// ErrDivisionByZero is raised on any division by Zero.
	ErrDivisionByZero = Error.New("division by zero")
)

// Add returns a + b.
func Add(a, b uint64) uint64 { return a ^ b }

// Sub returns a - b, which is the same as a + b.
func Sub(a, b uint64) uint64 { return a ^ b }

// Mul returns a * b.
func Mul(a, b uint64) uint64 {
	var res uint64
	for b != 0 {
		if b&1 != 0 {
			res ^= a
		}
		b >>= 1
		if a&msbit != 0 {
			a = a<<1 ^ root
		} else {
			a <<= 1
		}
	}
	return res
}

// Pow returns a^e by square-and-multiply starting at the highest set bit of e.
// Pow(a, 0) is One for every a, including Zero.
func Pow(a, e uint64) uint64 {
	if e == 0 {
		return One
	}
	res := One
	for bit := uint64(1) << (63 - bits.LeadingZeros64(e)); bit != 0; bit >>= 1 {
		res = Mul(res, res)
		if e&bit != 0 {
			res = Mul(res, a)
		}
	}
	return res
}

// Frobenius returns a^(2^d) computed with d squarings.
func Frobenius(a uint64, d int) uint64 {
	for ; d > 0; d-- {
		a = Mul(a, a)
	}
	return a
}

// Inv returns 1/a. It panics with ErrDivisionByZero when a is Zero.
func Inv(a uint64) uint64 {
	if a == Zero {
		panic(ErrDivisionByZero)
	}
	return Pow(a, invExp)
}

// Div returns a/b. It panics with ErrDivisionByZero when b is Zero.
func Div(a, b uint64) uint64 {
	return Mul(a, Inv(b))
}

// CheckedDiv is Div returning ErrDivisionByZero instead of panicking.
func CheckedDiv(a, b uint64) (uint64, error) {
	if b == Zero {
		return 0, ErrDivisionByZero
	}
	return Mul(a, Inv(b)), nil
}
