// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package product

import (
	"testing"

	"github.com/stretchr/testify/require"

	"storj.io/errorz/private/blockcode"
	"storj.io/errorz/private/random"
)

func mustNew(t *testing.T, base blockcode.Code, opts Options) *Code {
	code, err := New(16, 12, 16, 12, base, opts)
	require.NoError(t, err)
	return code
}

// damage flips the symbols at the given (row, col) cells.
func damage(code *Code, src *random.Source, cells ...[2]int) {
	for _, cell := range cells {
		i := cell[0]*code.n1 + cell[1]
		code.Set(i, code.Get(i)^(src.Uint64()|1))
	}
}

// crossPattern puts three errors in each of the first three rows with all
// of them sharing column 0. No row with errors decodes on its own and
// column 0 never does either.
var crossPattern = [][2]int{
	{0, 0}, {0, 1}, {0, 2},
	{1, 0}, {1, 3}, {1, 4},
	{2, 0}, {2, 5}, {2, 6},
}

func TestEncodedLinesAreCodeWords(t *testing.T) {
	code := mustNew(t, &blockcode.Vandermonde{}, Options{})
	for r := 0; r < 16; r++ {
		row := code.Row(r)
		clone := row.Clone()
		clone.Encode()
		require.True(t, blockcode.Equal(clone, row), "row %d", r)
	}
	for c := 0; c < 16; c++ {
		col := code.Column(c)
		clone := col.Clone()
		clone.Encode()
		require.True(t, blockcode.Equal(clone, col), "column %d", c)
	}
}

func TestFixErrorsIterates(t *testing.T) {
	src := random.New(1)
	for _, base := range []blockcode.Code{&blockcode.Vandermonde{}, &blockcode.Mazurov{}} {
		code := mustNew(t, base, Options{})
		t.Run(code.String(), func(t *testing.T) {
			damaged := code.Clone().(*Code)
			damage(damaged, src, crossPattern...)

			require.True(t, damaged.FixErrors())
			require.Equal(t, code.data, damaged.data)
		})
	}
}

func TestFixErrorsSingleDimensionFails(t *testing.T) {
	src := random.New(2)
	code := mustNew(t, &blockcode.Vandermonde{}, Options{})
	damaged := code.Clone().(*Code)
	damage(damaged, src, crossPattern...)

	for r := 0; r < 3; r++ {
		require.False(t, damaged.Row(r).Clone().FixErrors(), "row %d", r)
	}
	require.False(t, damaged.Column(0).Clone().FixErrors())
}

func TestFixErrorsFixedPoint(t *testing.T) {
	src := random.New(3)
	code := mustNew(t, &blockcode.Vandermonde{}, Options{})
	damaged := code.Clone().(*Code)

	// a 3x3 block defeats every affected row and column.
	var cells [][2]int
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			cells = append(cells, [2]int{r, c})
		}
	}
	damage(damaged, src, cells...)
	before := append([]uint64(nil), damaged.data...)

	require.False(t, damaged.FixErrors())
	require.Equal(t, before, damaged.data)
}

func TestParallelismAgrees(t *testing.T) {
	src := random.New(4)
	code := mustNew(t, &blockcode.Mazurov{}, Options{})

	serial := code.Clone().(*Code)
	serial.opts.Parallelism = 1
	parallel := code.Clone().(*Code)
	parallel.opts.Parallelism = 8

	for i := 0; i < 60; i++ {
		p, v := src.Intn(len(code.data)), src.Uint64()
		serial.Set(p, v)
		parallel.Set(p, v)
	}

	require.Equal(t, serial.FixErrors(), parallel.FixErrors())
	require.Equal(t, serial.data, parallel.data)
}

func TestCloneIndependent(t *testing.T) {
	code := mustNew(t, &blockcode.Vandermonde{}, Options{})
	clone := code.Clone().(*Code)

	clone.Set(5, ^code.Get(5))
	require.NotEqual(t, code.Get(5), clone.Get(5))
	require.Equal(t, clone.Get(5), clone.Row(0).Get(5))
	require.Equal(t, code.Get(5), code.Column(5).Get(0))
}

func TestPeelErasures(t *testing.T) {
	src := random.New(5)
	code := mustNew(t, &blockcode.Vandermonde{}, Options{})

	t.Run("needs both dimensions", func(t *testing.T) {
		damaged := code.Clone().(*Code)
		// six erasures in row 0 exceed its redundancy, but every column
		// involved only loses one symbol.
		var idx []int
		for c := 0; c < 6; c++ {
			idx = append(idx, c)
		}
		// five erasures in column 15 rows 1..5 need the rows first.
		for r := 1; r <= 5; r++ {
			idx = append(idx, r*16+15)
		}
		for _, i := range idx {
			damaged.Set(i, src.Uint64())
		}

		require.True(t, damaged.PeelErasures(idx))
		require.Equal(t, code.data, damaged.data)
	})

	t.Run("stuck", func(t *testing.T) {
		damaged := code.Clone().(*Code)
		var idx []int
		for r := 0; r < 5; r++ {
			for c := 0; c < 5; c++ {
				idx = append(idx, r*16+c)
			}
		}
		require.False(t, damaged.PeelErasures(idx))
	})

	t.Run("fix erasures", func(t *testing.T) {
		damaged := code.Clone().(*Code)
		idx := []int{17, 34, 200, 255}
		for _, i := range idx {
			damaged.Set(i, 0)
		}
		damaged.FixErasures(idx)
		require.Equal(t, code.data, damaged.data)
	})
}

func TestLagrangeBase(t *testing.T) {
	src := random.New(6)
	base, err := blockcode.NewLagrange(16, 12, &blockcode.Vandermonde{}, blockcode.View{Stride: 1}, false)
	require.NoError(t, err)

	code := mustNew(t, base, Options{Parallelism: 2})
	damaged := code.Clone().(*Code)
	damage(damaged, src, crossPattern...)
	require.True(t, damaged.FixErrors())
	require.Equal(t, code.data, damaged.data)
}

func TestLagrangeBaseColumnShape(t *testing.T) {
	src := random.New(7)
	base, err := blockcode.NewLagrange(16, 12, &blockcode.Mazurov{}, blockcode.View{Stride: 1}, false)
	require.NoError(t, err)

	// columns have a different shape than the base.
	code, err := New(16, 12, 10, 6, base, Options{})
	require.NoError(t, err)
	for c := 0; c < 16; c++ {
		col := code.Column(c)
		require.Equal(t, 10, col.BlockLength())
		require.Equal(t, 6, col.MessageLength())
	}

	damaged := code.Clone().(*Code)
	damage(damaged, src, [2]int{0, 0}, [2]int{4, 7}, [2]int{9, 15})
	require.True(t, damaged.FixErrors())
	require.Equal(t, code.data, damaged.data)
}

func TestWrapErrors(t *testing.T) {
	_, err := Wrap(16, 12, 16, 12, &blockcode.Vandermonde{}, make([]uint64, 10), Options{})
	require.Error(t, err)
	require.True(t, Error.Has(err))

	_, err = New(300, 12, 16, 12, &blockcode.Vandermonde{}, Options{})
	require.Error(t, err)
	require.True(t, Error.Has(err))
	require.True(t, blockcode.Error.Has(err))
}

func TestString(t *testing.T) {
	code := mustNew(t, &blockcode.Mazurov{}, Options{})
	require.Equal(t, "2-dimensional Mazurov code (n,k)=(256,144)=(16,12)*(16,12)", code.String())
}
