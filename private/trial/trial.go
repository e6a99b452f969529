// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package trial measures how well code words survive injected errors.
package trial

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
	"golang.org/x/sync/errgroup"

	"storj.io/errorz/private/blockcode"
	"storj.io/errorz/private/random"
	"storj.io/eventkit"
)

var (
	// Error is the default trial errs class.
	Error = errs.Class("trial")

	mon = monkit.Package()
	evs = eventkit.Package()
)

// Outcome classifies a single decoding attempt.
type Outcome int

const (
	// Decoded means FixErrors succeeded and restored the original.
	Decoded Outcome = iota
	// Rejected means FixErrors reported failure.
	Rejected
	// Failed means FixErrors reported success with the wrong symbols.
	Failed
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Decoded:
		return "decoded"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// AddErrors overwrites e distinct random positions of w with values that
// differ from the current ones and returns the positions.
func AddErrors(w blockcode.Word, src *random.Source, e int) ([]int, error) {
	n := w.BlockLength()
	if e < 0 || e > n {
		return nil, Error.New("cannot add %d errors to %d symbols", e, n)
	}

	idx := make([]int, 0, e)
	marks := make([]bool, n)
	for len(idx) < e {
		next := src.Intn(n)
		if marks[next] {
			continue
		}
		val := src.Uint64()
		if w.Get(next) == val {
			continue
		}
		w.Set(next, val)
		marks[next] = true
		idx = append(idx, next)
	}
	return idx, nil
}

// Attempt corrupts a clone of w with e errors, decodes it and classifies the
// result. w is not modified.
func Attempt(w blockcode.Word, src *random.Source, e int) (Outcome, error) {
	damaged := w.Clone()
	if _, err := AddErrors(damaged, src, e); err != nil {
		return 0, err
	}
	if !damaged.FixErrors() {
		return Rejected, nil
	}
	if !blockcode.Equal(damaged, w) {
		return Failed, nil
	}
	return Decoded, nil
}

// Result summarizes a batch of attempts at one error count.
type Result struct {
	Code       string
	Redundancy int
	Errors     int
	Runs       int

	Decoded  int
	Rejected int
	Failed   int
}

// String implements fmt.Stringer.
func (r Result) String() string {
	return fmt.Sprintf("%s, redundancy: %d, errors: %d, runs: %d, decoded: %d, rejected: %d, failed: %d",
		r.Code, r.Redundancy, r.Errors, r.Runs, r.Decoded, r.Rejected, r.Failed)
}

// Run performs runs attempts with e errors each. Attempts run concurrently,
// each with its own source seeded from src, so results only depend on src.
func Run(ctx context.Context, w blockcode.Word, src *random.Source, runs, e int) (_ Result, err error) {
	defer mon.Task()(&ctx)(&err)
	start := time.Now()

	seeds := make([]uint64, runs)
	for i := range seeds {
		seeds[i] = src.Uint64()
	}

	outcomes := make([]Outcome, runs)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, seed := range seeds {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcome, err := Attempt(w, random.New(seed), e)
			outcomes[i] = outcome
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, Error.Wrap(err)
	}

	result := Result{
		Code:       fmt.Sprint(w),
		Redundancy: w.BlockLength() - w.MessageLength(),
		Errors:     e,
		Runs:       runs,
	}
	for _, outcome := range outcomes {
		switch outcome {
		case Decoded:
			result.Decoded++
		case Rejected:
			result.Rejected++
		case Failed:
			result.Failed++
		}
	}

	mon.Meter("trial_decoded").Mark(result.Decoded)
	mon.Meter("trial_rejected").Mark(result.Rejected)
	mon.Meter("trial_failed").Mark(result.Failed)
	evs.Event("run",
		eventkit.String("code", result.Code),
		eventkit.Int64("errors", int64(e)),
		eventkit.Int64("runs", int64(runs)),
		eventkit.Int64("decoded", int64(result.Decoded)),
		eventkit.Int64("rejected", int64(result.Rejected)),
		eventkit.Int64("failed", int64(result.Failed)),
		eventkit.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// Step is one probe of a capacity search.
type Step struct {
	Errors  int
	Decoded bool
}

// String implements fmt.Stringer.
func (s Step) String() string {
	if s.Decoded {
		return fmt.Sprintf("errors: %d  OK", s.Errors)
	}
	return fmt.Sprintf("errors: %d  FAIL", s.Errors)
}

// Bracket is the outcome of a capacity search. MinFailed is math.MaxInt
// when no probe failed.
type Bracket struct {
	MinFailed  int
	MaxDecoded int
	Steps      []Step
}

// String implements fmt.Stringer.
func (b Bracket) String() string {
	return fmt.Sprintf("[min failed, max decoded]: [%d, %d]", b.MinFailed, b.MaxDecoded)
}

// Capacity binary searches for the error count that decodes about half of
// the time, probing steps times between 0 and N-K errors.
func Capacity(ctx context.Context, w blockcode.Word, src *random.Source, steps int) (_ Bracket, err error) {
	defer mon.Task()(&ctx)(&err)

	bracket := Bracket{MinFailed: math.MaxInt}
	lo, hi := 0, w.BlockLength()-w.MessageLength()
	for t := 0; t < steps; t++ {
		if err := ctx.Err(); err != nil {
			return bracket, Error.Wrap(err)
		}

		e := (lo + hi) / 2
		outcome, err := Attempt(w, src, e)
		if err != nil {
			return bracket, err
		}

		decoded := outcome == Decoded
		bracket.Steps = append(bracket.Steps, Step{Errors: e, Decoded: decoded})
		if decoded {
			bracket.MaxDecoded = max(bracket.MaxDecoded, e)
			lo = e + 1
			if lo > hi {
				hi = lo
			}
		} else {
			bracket.MinFailed = min(bracket.MinFailed, e)
			hi = max(e-1, 0)
			if lo > hi {
				lo = hi
			}
		}
	}
	return bracket, nil
}
