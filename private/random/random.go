// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package random provides reproducible streams of field elements and indices
// for building messages and injecting errors.
package random

import (
	"sync"

	"github.com/zeebo/mwc"
)

// DefaultSeed seeds the package level source until Reset is called.
const DefaultSeed = 1

// Source is a seeded generator. It is not safe for concurrent use.
type Source struct {
	rng *mwc.T
}

// New returns a Source whose output is fully determined by seed.
func New(seed uint64) *Source {
	return &Source{rng: mwc.New(seed, seed^0x9e3779b97f4a7c15)}
}

// Uint64 returns a uniformly distributed field element.
func (s *Source) Uint64() uint64 { return s.rng.Uint64() }

// Intn returns a value in [0, n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("random: invalid argument to Intn")
	}
	return s.rng.Intn(n)
}

// Fill overwrites every element of dst.
func (s *Source) Fill(dst []uint64) {
	for i := range dst {
		dst[i] = s.rng.Uint64()
	}
}

var (
	mu     sync.Mutex
	global = New(DefaultSeed)
)

// Reset reseeds the package level source.
func Reset(seed uint64) {
	mu.Lock()
	defer mu.Unlock()
	global = New(seed)
}

// Uint64 returns the next value of the package level source.
func Uint64() uint64 {
	mu.Lock()
	defer mu.Unlock()
	return global.Uint64()
}

// Fill overwrites dst from the package level source.
func Fill(dst []uint64) {
	mu.Lock()
	defer mu.Unlock()
	global.Fill(dst)
}
