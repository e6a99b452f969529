// Copyright (C) 2019 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"storj.io/common/sync2/race2"
	"storj.io/infectious"
)

// NewFEC creates a byte oriented Reed-Solomon *FEC using k required pieces
// and n total pieces.
func NewFEC(k, n int) (*infectious.FEC, error) {
	fc, err := infectious.NewFEC(k, n)
	return fc, Error.Wrap(err)
}

type rsScheme struct {
	fc               *infectious.FEC
	erasureShareSize int
	errorDetection   bool
}

// NewRSScheme returns a Reed-Solomon ErasureScheme over GF(2^8). It is the
// baseline the field schemes are measured against. Without errorDetection,
// Decode only rebuilds and never notices corrupted shares.
func NewRSScheme(fc *infectious.FEC, erasureShareSize int, errorDetection bool) ErasureScheme {
	return &rsScheme{fc: fc, erasureShareSize: erasureShareSize, errorDetection: errorDetection}
}

func (s *rsScheme) EncodeSingle(input, output []byte, num int) (err error) {
	return Error.Wrap(s.fc.EncodeSingle(input, output, num))
}

func (s *rsScheme) Encode(input []byte, output func(num int, data []byte)) (err error) {
	return Error.Wrap(s.fc.Encode(input, func(s Share) {
		output(s.Number, s.Data)
	}))
}

func (s *rsScheme) Decode(out []byte, in []Share) (_ []byte, err error) {
	for _, share := range in {
		race2.ReadSlice(share.Data)
	}
	race2.WriteSlice(out)

	if len(in) < s.RequiredCount() {
		return nil, Error.Wrap(infectious.NotEnoughShares)
	}

	if s.errorDetection {
		out, err = s.fc.Decode(out, in)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		return out, nil
	}

	expectedCap := s.StripeSize()
	if cap(out) < expectedCap {
		out = make([]byte, expectedCap)
	} else {
		out = out[:expectedCap]
	}
	err = s.fc.Rebuild(in, func(share Share) {
		copy(out[share.Number*s.erasureShareSize:], share.Data)
	})
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return out, nil
}

func (s *rsScheme) Rebuild(in []Share, out func(Share)) error {
	for _, v := range in {
		race2.ReadSlice(v.Data)
	}
	if len(in) < s.RequiredCount() {
		return Error.Wrap(infectious.NotEnoughShares)
	}
	return Error.Wrap(s.fc.Rebuild(in, out))
}

func (s *rsScheme) ErasureShareSize() int { return s.erasureShareSize }

func (s *rsScheme) StripeSize() int { return s.erasureShareSize * s.fc.Required() }

func (s *rsScheme) TotalCount() int { return s.fc.Total() }

func (s *rsScheme) RequiredCount() int { return s.fc.Required() }
