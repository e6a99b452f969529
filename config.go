// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package errorz builds erasure and error correcting codes over GF(2^64).
package errorz

import (
	"strings"

	"storj.io/errorz/private/blockcode"
	"storj.io/errorz/private/eestream"
	"storj.io/errorz/private/product"
	"storj.io/errorz/private/random"
)

// Strategy selects how locators are chosen and errors are decoded.
type Strategy string

const (
	// Vandermonde corrects up to (N-K)/2 errors.
	Vandermonde Strategy = "vandermonde"
	// Mazurov uses subfield locators and corrects up to (N-K)*8/9 errors.
	Mazurov Strategy = "mazurov"
)

// ParseStrategy parses a strategy name, ignoring case.
func ParseStrategy(s string) (Strategy, error) {
	switch strategy := Strategy(strings.ToLower(s)); strategy {
	case Vandermonde, Mazurov:
		return strategy, nil
	default:
		return "", Error.New("unknown strategy %q", s)
	}
}

// String implements fmt.Stringer.
func (s Strategy) String() string { return string(s) }

// Set implements pflag.Value.
func (s *Strategy) Set(v string) error {
	strategy, err := ParseStrategy(v)
	if err != nil {
		return err
	}
	*s = strategy
	return nil
}

// Type implements pflag.Value.
func (s *Strategy) Type() string { return "strategy" }

// Config defines a code.
type Config struct {
	Strategy Strategy

	// N is the block length and K the message length of a row.
	N, K int

	// Lagrange makes symbols the values of the message polynomial at the
	// locators instead of its coefficients.
	Lagrange bool

	// Columns and ColumnMessage, when set, make the code two dimensional
	// with Columns rows of which the first ColumnMessage carry the message.
	Columns, ColumnMessage int

	// Parallelism limits concurrent row and column decoding. Zero means
	// GOMAXPROCS.
	Parallelism int
}

// Product reports whether the config describes a two dimensional code.
func (config Config) Product() bool { return config.Columns > 0 }

// Prototype returns a code of the configured kind that creates rows.
func (config Config) Prototype() (blockcode.Code, error) {
	var base blockcode.Code
	switch config.Strategy {
	case Vandermonde:
		base = &blockcode.Vandermonde{}
	case Mazurov:
		base = &blockcode.Mazurov{}
	default:
		return nil, Error.New("unknown strategy %q", string(config.Strategy))
	}
	if !config.Lagrange {
		return base, nil
	}

	lagrange, err := blockcode.NewLagrange(config.N, config.K, base, blockcode.Compact(make([]uint64, max(config.N, 0))), false)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return lagrange, nil
}

// NewWord returns a freshly encoded code word whose message comes from src.
func (config Config) NewWord(src *random.Source) (blockcode.Word, error) {
	proto, err := config.Prototype()
	if err != nil {
		return nil, err
	}

	if !config.Product() {
		code, err := blockcode.Fresh(proto, config.N, config.K, src)
		return code, Error.Wrap(err)
	}

	data := make([]uint64, config.N*config.Columns)
	src.Fill(data)
	code, err := product.Wrap(config.N, config.K, config.Columns, config.ColumnMessage, proto,
		data, product.Options{Parallelism: config.Parallelism})
	if err != nil {
		return nil, Error.Wrap(err)
	}
	code.Encode()
	return code, nil
}

// Scheme returns a byte erasure scheme where K of N shares of shareSize
// bytes recover a stripe. Two dimensional configs are not supported.
func (config Config) Scheme(shareSize int) (eestream.ErasureScheme, error) {
	if config.Product() {
		return nil, Error.New("two dimensional codes have no erasure scheme")
	}
	proto, err := config.Prototype()
	if err != nil {
		return nil, err
	}
	scheme, err := eestream.NewFieldScheme(proto, config.K, config.N, shareSize)
	return scheme, Error.Wrap(err)
}
