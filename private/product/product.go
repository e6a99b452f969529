// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package product implements two dimensional product codes: an n2 x n1 grid
// where every row is a code word of length n1 and every column is a code
// word of length n2, all sharing one backing array.
package product

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"storj.io/errorz/private/blockcode"
	"storj.io/errorz/private/random"
	"storj.io/eventkit"
)

// Options configures the decoder.
type Options struct {
	// Parallelism limits how many rows or columns are decoded at once.
	// Zero means runtime.GOMAXPROCS(0).
	Parallelism int
}

func (opts Options) limit() int {
	if opts.Parallelism > 0 {
		return opts.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// Code is a two dimensional code word. Symbol i lives at row i/n1 and
// column i%n1; the message is the top left k2 x k1 corner.
type Code struct {
	n1, k1 int
	n2, k2 int

	base blockcode.Code
	opts Options

	data []uint64
	rows []blockcode.Code
	cols []blockcode.Code
}

var _ blockcode.Word = (*Code)(nil)

// New creates a product code word with rows of base kind (n1,k1) and columns
// of base kind (n2,k2), fills it with random symbols and encodes it.
func New(n1, k1, n2, k2 int, base blockcode.Code, opts Options) (*Code, error) {
	data := make([]uint64, n1*n2)
	random.Fill(data)

	code, err := Wrap(n1, k1, n2, k2, base, data, opts)
	if err != nil {
		return nil, err
	}
	code.Encode()
	return code, nil
}

// Wrap creates a product code word over data without encoding it. data must
// hold n1*n2 symbols in row major order.
func Wrap(n1, k1, n2, k2 int, base blockcode.Code, data []uint64, opts Options) (*Code, error) {
	if len(data) != n1*n2 {
		return nil, Error.New("data holds %d symbols, want %d", len(data), n1*n2)
	}

	code := &Code{
		n1: n1, k1: k1,
		n2: n2, k2: k2,
		base: base,
		opts: opts,
		data: data,
	}
	if err := code.views(); err != nil {
		return nil, Error.Wrap(err)
	}
	return code, nil
}

func (code *Code) views() error {
	code.rows = make([]blockcode.Code, code.n2)
	for r := range code.rows {
		row, err := code.base.Instance(code.n1, code.k1, blockcode.View{Data: code.data, Offset: r * code.n1, Stride: 1}, false)
		if err != nil {
			return err
		}
		code.rows[r] = row
	}

	code.cols = make([]blockcode.Code, code.n1)
	for c := range code.cols {
		col, err := code.base.Instance(code.n2, code.k2, blockcode.View{Data: code.data, Offset: c, Stride: code.n1}, false)
		if err != nil {
			return err
		}
		code.cols[c] = col
	}
	return nil
}

// BlockLength returns n1*n2.
func (code *Code) BlockLength() int { return code.n1 * code.n2 }

// MessageLength returns k1*k2.
func (code *Code) MessageLength() int { return code.k1 * code.k2 }

// Get returns the symbol at i = row*n1 + col.
func (code *Code) Get(i int) uint64 { return code.data[i] }

// Set overwrites the symbol at i = row*n1 + col.
func (code *Code) Set(i int, val uint64) { code.data[i] = val }

// Row returns the code word of row r.
func (code *Code) Row(r int) blockcode.Code { return code.rows[r] }

// Column returns the code word of column c.
func (code *Code) Column(c int) blockcode.Code { return code.cols[c] }

// Encode encodes every row and then every column. Rows below k2 get their
// contents from the column encoding.
func (code *Code) Encode() {
	encode := func(_ int, w blockcode.Code) bool {
		w.Encode()
		return true
	}
	code.pass(code.rows, encode)
	code.pass(code.cols, encode)
}

// Clone returns an independent copy sharing only the base prototype.
func (code *Code) Clone() blockcode.Word {
	clone := &Code{
		n1: code.n1, k1: code.k1,
		n2: code.n2, k2: code.k2,
		base: code.base,
		opts: code.opts,
		data: append([]uint64(nil), code.data...),
	}
	if err := clone.views(); err != nil {
		// the same parameters were accepted when code was created.
		panic(err)
	}
	return clone
}

// FixErrors decodes rows and columns alternately until every row or every
// column decodes, or until a full iteration makes no progress. Rows and
// columns that decoded once are not retried.
func (code *Code) FixErrors() bool {
	ctx := context.Background()
	defer mon.Task()(&ctx)(nil)

	var rows, cols bitset
	for iteration := 1; ; iteration++ {
		nrows := rows.merge(code.pass(code.rows, skip(&rows, blockcode.Code.FixErrors)))
		if rows.count() == len(code.rows) {
			mon.IntVal("fix_errors_iterations").Observe(int64(iteration))
			return true
		}

		ncols := cols.merge(code.pass(code.cols, skip(&cols, blockcode.Code.FixErrors)))
		if cols.count() == len(code.cols) {
			mon.IntVal("fix_errors_iterations").Observe(int64(iteration))
			return true
		}

		if nrows == 0 && ncols == 0 {
			mon.Meter("fix_errors_fixed_point").Mark(1)
			evs.Event("fixed-point",
				eventkit.String("code", code.String()),
				eventkit.Int64("iterations", int64(iteration)),
				eventkit.Int64("rows_resolved", int64(rows.count())),
				eventkit.Int64("cols_resolved", int64(cols.count())),
				eventkit.String("rows", rows.String()),
				eventkit.String("cols", cols.String()),
			)
			return false
		}
	}
}

// skip wraps fn so that lines already marked in done are not attempted.
// Their results are reported as false, which merge ignores.
func skip(done *bitset, fn func(blockcode.Code) bool) func(int, blockcode.Code) bool {
	return func(i int, w blockcode.Code) bool {
		if done.has(byte(i)) {
			return false
		}
		return fn(w)
	}
}

// FixErasures recovers the symbols at idx. Use PeelErasures to learn
// whether every erasure could be recovered.
func (code *Code) FixErasures(idx []int) {
	_ = code.PeelErasures(idx)
}

// PeelErasures repeatedly interpolates every row and then every column that
// holds at least one and at most n-k outstanding erasures. It reports
// whether every erasure was recovered. Erasures it could not reach keep
// their current values.
func (code *Code) PeelErasures(idx []int) bool {
	ctx := context.Background()
	defer mon.Task()(&ctx)(nil)

	erased := make([]bool, len(code.data))
	outstanding := 0
	for _, i := range idx {
		if !erased[i] {
			erased[i] = true
			outstanding++
		}
	}

	for outstanding > 0 {
		progress := 0
		for _, dim := range []struct {
			lines []blockcode.Code
			at    func(line, pos int) int
		}{
			{code.rows, func(r, c int) int { return r*code.n1 + c }},
			{code.cols, func(c, r int) int { return r*code.n1 + c }},
		} {
			fixed := code.pass(dim.lines, func(line int, w blockcode.Code) bool {
				var lost []int
				for pos := 0; pos < w.BlockLength(); pos++ {
					if erased[dim.at(line, pos)] {
						lost = append(lost, pos)
					}
				}
				if len(lost) == 0 || len(lost) > w.BlockLength()-w.MessageLength() {
					return false
				}
				w.FixErasures(lost)
				for _, pos := range lost {
					erased[dim.at(line, pos)] = false
				}
				return true
			})
			for _, ok := range fixed {
				if ok {
					progress++
				}
			}
		}
		if progress == 0 {
			break
		}

		outstanding = 0
		for _, e := range erased {
			if e {
				outstanding++
			}
		}
	}

	mon.IntVal("peel_erasures_outstanding").Observe(int64(outstanding))
	return outstanding == 0
}

// pass runs fn over every line concurrently and returns which lines
// reported true. Lines of one pass are disjoint, so no two workers touch
// the same symbol.
func (code *Code) pass(lines []blockcode.Code, fn func(int, blockcode.Code) bool) []bool {
	results := make([]bool, len(lines))

	var eg errgroup.Group
	eg.SetLimit(code.opts.limit())
	for i, line := range lines {
		eg.Go(func() error {
			results[i] = fn(i, line)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}

// String implements fmt.Stringer.
func (code *Code) String() string {
	return fmt.Sprintf("2-dimensional %v (n,k)=(%d,%d)=(%d,%d)*(%d,%d)",
		code.base, code.BlockLength(), code.MessageLength(), code.n1, code.k1, code.n2, code.k2)
}
