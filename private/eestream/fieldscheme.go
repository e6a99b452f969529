// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"encoding/binary"

	"storj.io/common/sync2/race2"
	"storj.io/errorz/private/blockcode"
	"storj.io/infectious"
)

// symbolSize is the number of bytes in one field element.
const symbolSize = 8

// fieldScheme erasure codes stripes with GF(2^64) block codes. A stripe is
// split into RequiredCount segments of ErasureShareSize bytes. Every 8 byte
// lane across the segments is one message of big-endian field elements,
// and share i carries symbol i of every lane.
type fieldScheme struct {
	proto     blockcode.Code
	required  int
	total     int
	shareSize int
}

// NewFieldScheme returns an ErasureScheme that encodes with codes of the same
// kind as proto. The share size must be a positive multiple of 8 bytes.
func NewFieldScheme(proto blockcode.Code, required, total, shareSize int) (ErasureScheme, error) {
	if shareSize <= 0 || shareSize%symbolSize != 0 {
		return nil, Error.New("share size %d is not a positive multiple of %d", shareSize, symbolSize)
	}
	if total <= 0 {
		return nil, Error.New("invalid total count %d", total)
	}
	if _, err := proto.Instance(total, required, blockcode.Compact(make([]uint64, total)), false); err != nil {
		return nil, Error.Wrap(err)
	}
	return &fieldScheme{
		proto:     proto,
		required:  required,
		total:     total,
		shareSize: shareSize,
	}, nil
}

func (s *fieldScheme) lanes() int { return s.shareSize / symbolSize }

// word returns the code word of lane l within grid.
func (s *fieldScheme) word(grid []uint64, l int) blockcode.Code {
	view := blockcode.View{Data: grid, Offset: l * s.total, Stride: 1}
	w, err := s.proto.Instance(s.total, s.required, view, false)
	if err != nil {
		// the parameters were accepted by NewFieldScheme.
		panic(err)
	}
	return w
}

// encode returns the encoded symbols of every lane, lane major.
func (s *fieldScheme) encode(input []byte) ([]uint64, error) {
	if len(input) != s.StripeSize() {
		return nil, Error.New("stripe is %d bytes, want %d", len(input), s.StripeSize())
	}
	race2.ReadSlice(input)

	grid := make([]uint64, s.lanes()*s.total)
	for l := 0; l < s.lanes(); l++ {
		for j := 0; j < s.required; j++ {
			off := j*s.shareSize + l*symbolSize
			grid[l*s.total+j] = binary.BigEndian.Uint64(input[off:])
		}
		s.word(grid, l).Encode()
	}
	return grid, nil
}

func (s *fieldScheme) share(grid []uint64, num int, out []byte) {
	for l := 0; l < s.lanes(); l++ {
		binary.BigEndian.PutUint64(out[l*symbolSize:], grid[l*s.total+num])
	}
}

func (s *fieldScheme) Encode(input []byte, output func(num int, data []byte)) error {
	grid, err := s.encode(input)
	if err != nil {
		return err
	}
	for num := 0; num < s.total; num++ {
		data := make([]byte, s.shareSize)
		s.share(grid, num, data)
		output(num, data)
	}
	return nil
}

func (s *fieldScheme) EncodeSingle(input, output []byte, num int) error {
	if num < 0 || num >= s.total {
		return Error.New("share number %d out of range [0, %d)", num, s.total)
	}
	if len(output) < s.shareSize {
		return Error.New("output is %d bytes, want %d", len(output), s.shareSize)
	}
	race2.WriteSlice(output)

	if num < s.required {
		if len(input) != s.StripeSize() {
			return Error.New("stripe is %d bytes, want %d", len(input), s.StripeSize())
		}
		copy(output, input[num*s.shareSize:(num+1)*s.shareSize])
		return nil
	}

	grid, err := s.encode(input)
	if err != nil {
		return err
	}
	s.share(grid, num, output)
	return nil
}

// gather loads the shares into a lane major grid and returns the missing
// share numbers.
func (s *fieldScheme) gather(in []Share) (grid []uint64, missing []int, present int, err error) {
	seen := make([]bool, s.total)
	grid = make([]uint64, s.lanes()*s.total)
	for _, share := range in {
		race2.ReadSlice(share.Data)
		if share.Number < 0 || share.Number >= s.total {
			return nil, nil, 0, Error.New("share number %d out of range [0, %d)", share.Number, s.total)
		}
		if len(share.Data) != s.shareSize {
			return nil, nil, 0, Error.New("share %d is %d bytes, want %d", share.Number, len(share.Data), s.shareSize)
		}
		if seen[share.Number] {
			continue
		}
		seen[share.Number] = true
		present++
		for l := 0; l < s.lanes(); l++ {
			grid[l*s.total+share.Number] = binary.BigEndian.Uint64(share.Data[l*symbolSize:])
		}
	}
	if present < s.required {
		return nil, nil, present, Error.Wrap(infectious.NotEnoughShares)
	}
	for num, ok := range seen {
		if !ok {
			missing = append(missing, num)
		}
	}
	return grid, missing, present, nil
}

func (s *fieldScheme) Decode(out []byte, in []Share) ([]byte, error) {
	race2.WriteSlice(out)

	grid, missing, present, err := s.gather(in)
	if err != nil {
		return nil, err
	}

	for l := 0; l < s.lanes(); l++ {
		w := s.word(grid, l)
		if present == s.required {
			w.FixErasures(missing)
			continue
		}
		if !w.FixErrorsAndErasures(missing) {
			mon.Meter("field_decode_too_many_errors").Mark(1)
			return nil, Error.Wrap(infectious.TooManyErrors)
		}
	}

	if cap(out) < s.StripeSize() {
		out = make([]byte, s.StripeSize())
	} else {
		out = out[:s.StripeSize()]
	}
	for num := 0; num < s.required; num++ {
		s.share(grid, num, out[num*s.shareSize:])
	}
	return out, nil
}

func (s *fieldScheme) Rebuild(in []Share, out func(Share)) error {
	grid, missing, _, err := s.gather(in)
	if err != nil {
		return err
	}
	for l := 0; l < s.lanes(); l++ {
		s.word(grid, l).FixErasures(missing)
	}
	for num := 0; num < s.required; num++ {
		data := make([]byte, s.shareSize)
		s.share(grid, num, data)
		out(Share{Number: num, Data: data})
	}
	return nil
}

func (s *fieldScheme) ErasureShareSize() int { return s.shareSize }

func (s *fieldScheme) StripeSize() int { return s.shareSize * s.required }

func (s *fieldScheme) TotalCount() int { return s.total }

func (s *fieldScheme) RequiredCount() int { return s.required }
