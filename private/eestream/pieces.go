// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"errors"

	"storj.io/infectious"
)

// EncodePieces erasure codes data stripe by stripe and returns one piece per
// share number. Piece i is the concatenation of share i of every stripe.
// data must be padded to a multiple of the stripe size.
func EncodePieces(scheme ErasureScheme, data []byte) ([][]byte, error) {
	if len(data)%scheme.StripeSize() != 0 {
		return nil, Error.New("data is %d bytes, not a multiple of the stripe size %d", len(data), scheme.StripeSize())
	}
	stripes := len(data) / scheme.StripeSize()
	shareSize := scheme.ErasureShareSize()

	pieces := make([][]byte, scheme.TotalCount())
	for i := range pieces {
		pieces[i] = make([]byte, stripes*shareSize)
	}
	for stripe := 0; stripe < stripes; stripe++ {
		in := data[stripe*scheme.StripeSize() : (stripe+1)*scheme.StripeSize()]
		err := scheme.Encode(in, func(num int, share []byte) {
			copy(pieces[num][stripe*shareSize:], share)
		})
		if err != nil {
			return nil, Error.Wrap(err)
		}
	}
	return pieces, nil
}

// DecodePieces recombines the available pieces, keyed by share number, into
// the original data. With errorDetection, every stripe goes through Decode,
// which corrects corrupted shares when more than the required number of
// pieces is present. Otherwise stripes are only rebuilt.
func DecodePieces(scheme ErasureScheme, pieces map[int][]byte, errorDetection bool) ([]byte, error) {
	shareSize := scheme.ErasureShareSize()
	pieceSize := -1
	for num, piece := range pieces {
		if len(piece)%shareSize != 0 {
			return nil, Error.New("piece %d is %d bytes, not a multiple of the share size %d", num, len(piece), shareSize)
		}
		if pieceSize >= 0 && len(piece) != pieceSize {
			return nil, Error.New("piece %d is %d bytes, others are %d", num, len(piece), pieceSize)
		}
		pieceSize = len(piece)
	}
	if pieceSize < 0 {
		return nil, Error.Wrap(infectious.NotEnoughShares)
	}
	stripes := pieceSize / shareSize

	out := make([]byte, stripes*scheme.StripeSize())
	shares := make([]Share, 0, len(pieces))
	for stripe := 0; stripe < stripes; stripe++ {
		end := (stripe + 1) * scheme.StripeSize()
		outslice := out[stripe*scheme.StripeSize() : end : end]

		shares = shares[:0]
		for num, piece := range pieces {
			// Decode may correct the share data in place, so hand out copies.
			data := append([]byte(nil), piece[stripe*shareSize:(stripe+1)*shareSize]...)
			shares = append(shares, Share{Number: num, Data: data})
		}

		var err error
		if errorDetection {
			var res []byte
			res, err = scheme.Decode(outslice, shares)
			copy(outslice, res)
		} else {
			err = scheme.Rebuild(shares, func(r Share) {
				copy(outslice[r.Number*len(r.Data):(r.Number+1)*len(r.Data)], r.Data)
			})
		}
		if err != nil {
			mon.Meter("decode_pieces_failed").Mark(1)
			return nil, Error.New("error decoding stripe %d: %w", stripe, err)
		}
	}
	return out, nil
}

// NeedsMoreShares reports whether err means that decoding could succeed
// with more shares.
func NeedsMoreShares(err error) bool {
	return errors.Is(err, infectious.NotEnoughShares) ||
		errors.Is(err, infectious.TooManyErrors)
}
