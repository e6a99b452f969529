// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/errorz/private/blockcode"
	"storj.io/infectious"
)

func mustRSScheme(t *testing.T, errorDetection bool) ErasureScheme {
	fc, err := NewFEC(8, 16)
	require.NoError(t, err)
	return NewRSScheme(fc, 32, errorDetection)
}

func TestRSSchemeRoundTrip(t *testing.T) {
	scheme := mustRSScheme(t, true)
	require.Equal(t, 256, scheme.StripeSize())
	require.Equal(t, 8, scheme.RequiredCount())
	require.Equal(t, 16, scheme.TotalCount())

	stripe := randomBytes(scheme.StripeSize())
	shares := encodeShares(t, scheme, stripe)
	for _, share := range shares[:8] {
		require.Equal(t, stripe[share.Number*32:(share.Number+1)*32], share.Data)
	}
	corruptShares(shares, 3, 12)
	out, err := scheme.Decode(nil, shares)
	require.NoError(t, err)
	require.Equal(t, stripe, out)

	_, err = scheme.Decode(nil, shares[:7])
	require.True(t, NeedsMoreShares(err))
}

func TestRSSchemeWithoutDetection(t *testing.T) {
	scheme := mustRSScheme(t, false)
	stripe := randomBytes(scheme.StripeSize())
	shares := encodeShares(t, scheme, stripe)

	out, err := scheme.Decode(nil, shares[8:])
	require.NoError(t, err)
	require.Equal(t, stripe, out)

	// corruption goes unnoticed without error detection.
	corruptShares(shares, 8)
	out, err = scheme.Decode(nil, shares[8:])
	require.NoError(t, err)
	require.NotEqual(t, stripe, out)
}

func TestNewFECErrors(t *testing.T) {
	_, err := NewFEC(0, 300)
	require.Error(t, err)
	require.True(t, Error.Has(err))
}

func TestSchemesAgreeOnData(t *testing.T) {
	field, err := NewFieldScheme(&blockcode.Vandermonde{}, 8, 16, 32)
	require.NoError(t, err)
	schemes := []ErasureScheme{mustRSScheme(t, true), field}

	stripe := randomBytes(256)
	for _, scheme := range schemes {
		shares := encodeShares(t, scheme, stripe)
		corruptShares(shares, 5)
		out, err := scheme.Decode(nil, shares[2:])
		require.NoError(t, err)
		require.Equal(t, stripe, out)
	}

	// both are systematic: the first shares are the stripe itself.
	for _, scheme := range schemes {
		out := make([]byte, 32)
		require.NoError(t, scheme.EncodeSingle(stripe, out, 2))
		require.Equal(t, stripe[64:96], out)
	}
}

func TestRSSchemeNotEnoughShares(t *testing.T) {
	for _, errorDetection := range []bool{true, false} {
		t.Run(fmt.Sprint("error detection ", errorDetection), func(t *testing.T) {
			scheme := mustRSScheme(t, errorDetection)
			pieces, err := EncodePieces(scheme, randomBytes(2*scheme.StripeSize()))
			require.NoError(t, err)

			available := map[int][]byte{}
			for num := 0; num < 7; num++ {
				available[num] = pieces[num]
			}
			for _, detect := range []bool{true, false} {
				_, err = DecodePieces(scheme, available, detect)
				require.Error(t, err)
				require.True(t, Error.Has(err))
				require.True(t, NeedsMoreShares(err))
			}

			shares := make([]Share, 0, 7)
			for num := 0; num < 7; num++ {
				shares = append(shares, Share{Number: num, Data: pieces[num][:32]})
			}
			_, err = scheme.Decode(nil, shares)
			require.ErrorIs(t, err, infectious.NotEnoughShares)
			err = scheme.Rebuild(shares, func(Share) {})
			require.ErrorIs(t, err, infectious.NotEnoughShares)
		})
	}
}
