// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"github.com/klauspost/reedsolomon"

	"storj.io/common/sync2/race2"
	"storj.io/infectious"
)

type shardScheme struct {
	enc       reedsolomon.Encoder
	required  int
	total     int
	shareSize int
}

// NewShardScheme returns an ErasureScheme backed by the SIMD Reed-Solomon
// encoder of github.com/klauspost/reedsolomon. It rebuilds missing shares but
// cannot locate corrupted ones: when every share is present Decode verifies
// the parity and reports TooManyErrors on a mismatch.
func NewShardScheme(required, total, shareSize int) (ErasureScheme, error) {
	if shareSize <= 0 {
		return nil, Error.New("invalid share size %d", shareSize)
	}
	enc, err := reedsolomon.New(required, total-required)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return &shardScheme{
		enc:       enc,
		required:  required,
		total:     total,
		shareSize: shareSize,
	}, nil
}

func (s *shardScheme) encode(input []byte) ([][]byte, error) {
	if len(input) != s.StripeSize() {
		return nil, Error.New("stripe is %d bytes, want %d", len(input), s.StripeSize())
	}
	race2.ReadSlice(input)

	shards := make([][]byte, s.total)
	for i := range shards {
		shards[i] = make([]byte, s.shareSize)
		if i < s.required {
			copy(shards[i], input[i*s.shareSize:])
		}
	}
	if err := s.enc.Encode(shards); err != nil {
		return nil, Error.Wrap(err)
	}
	return shards, nil
}

func (s *shardScheme) Encode(input []byte, output func(num int, data []byte)) error {
	shards, err := s.encode(input)
	if err != nil {
		return err
	}
	for num, data := range shards {
		output(num, data)
	}
	return nil
}

func (s *shardScheme) EncodeSingle(input, output []byte, num int) error {
	if num < 0 || num >= s.total {
		return Error.New("share number %d out of range [0, %d)", num, s.total)
	}
	if len(output) < s.shareSize {
		return Error.New("output is %d bytes, want %d", len(output), s.shareSize)
	}
	race2.WriteSlice(output)

	shards, err := s.encode(input)
	if err != nil {
		return err
	}
	copy(output, shards[num])
	return nil
}

// gather arranges the shares by number, leaving missing ones nil.
func (s *shardScheme) gather(in []Share) (shards [][]byte, present int, err error) {
	shards = make([][]byte, s.total)
	for _, share := range in {
		race2.ReadSlice(share.Data)
		if share.Number < 0 || share.Number >= s.total {
			return nil, 0, Error.New("share number %d out of range [0, %d)", share.Number, s.total)
		}
		if len(share.Data) != s.shareSize {
			return nil, 0, Error.New("share %d is %d bytes, want %d", share.Number, len(share.Data), s.shareSize)
		}
		if shards[share.Number] != nil {
			continue
		}
		shards[share.Number] = append([]byte(nil), share.Data...)
		present++
	}
	if present < s.required {
		return nil, present, Error.Wrap(infectious.NotEnoughShares)
	}
	return shards, present, nil
}

func (s *shardScheme) Decode(out []byte, in []Share) ([]byte, error) {
	race2.WriteSlice(out)

	shards, present, err := s.gather(in)
	if err != nil {
		return nil, err
	}
	if present == s.total {
		ok, err := s.enc.Verify(shards)
		if err != nil {
			return nil, Error.Wrap(err)
		}
		if !ok {
			mon.Meter("shard_decode_verify_failed").Mark(1)
			return nil, Error.Wrap(infectious.TooManyErrors)
		}
	} else if err := s.enc.ReconstructData(shards); err != nil {
		return nil, Error.Wrap(err)
	}

	if cap(out) < s.StripeSize() {
		out = make([]byte, s.StripeSize())
	} else {
		out = out[:s.StripeSize()]
	}
	for num := 0; num < s.required; num++ {
		copy(out[num*s.shareSize:], shards[num])
	}
	return out, nil
}

func (s *shardScheme) Rebuild(in []Share, out func(Share)) error {
	shards, _, err := s.gather(in)
	if err != nil {
		return err
	}
	if err := s.enc.ReconstructData(shards); err != nil {
		return Error.Wrap(err)
	}
	for num := 0; num < s.required; num++ {
		out(Share{Number: num, Data: shards[num]})
	}
	return nil
}

func (s *shardScheme) ErasureShareSize() int { return s.shareSize }

func (s *shardScheme) StripeSize() int { return s.shareSize * s.required }

func (s *shardScheme) TotalCount() int { return s.total }

func (s *shardScheme) RequiredCount() int { return s.required }
