// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package eestream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/errorz/private/blockcode"
)

func TestPieces(t *testing.T) {
	field, err := NewFieldScheme(&blockcode.Mazurov{}, 8, 16, 32)
	require.NoError(t, err)

	for _, scheme := range []ErasureScheme{mustRSScheme(t, true), field} {
		data := randomBytes(scheme.StripeSize() * 5)

		pieces, err := EncodePieces(scheme, data)
		require.NoError(t, err)
		require.Len(t, pieces, 16)
		for _, piece := range pieces {
			require.Len(t, piece, 5*32)
		}

		available := map[int][]byte{}
		for num := 4; num < 16; num++ {
			available[num] = pieces[num]
		}
		// one corrupted piece is corrected in every stripe.
		corrupted := append([]byte(nil), pieces[9]...)
		for i := range corrupted {
			corrupted[i] ^= 0xa5
		}
		available[9] = append([]byte(nil), corrupted...)

		out, err := DecodePieces(scheme, available, true)
		require.NoError(t, err)
		require.Equal(t, data, out)

		// the corrupted piece itself is left untouched.
		require.Equal(t, corrupted, available[9])

		delete(available, 9)
		out, err = DecodePieces(scheme, available, false)
		require.NoError(t, err)
		require.Equal(t, data, out)
	}
}

func TestPiecesErrors(t *testing.T) {
	scheme := mustRSScheme(t, true)

	_, err := EncodePieces(scheme, make([]byte, 100))
	require.Error(t, err)

	_, err = DecodePieces(scheme, map[int][]byte{}, true)
	require.True(t, NeedsMoreShares(err))

	_, err = DecodePieces(scheme, map[int][]byte{0: make([]byte, 32), 1: make([]byte, 64)}, true)
	require.Error(t, err)

	pieces, err := EncodePieces(scheme, randomBytes(512))
	require.NoError(t, err)
	available := map[int][]byte{}
	for num := 0; num < 7; num++ {
		available[num] = pieces[num]
	}
	_, err = DecodePieces(scheme, available, true)
	require.True(t, NeedsMoreShares(err))
}
