// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storj.io/errorz"
	"storj.io/errorz/private/trial"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run the correction benchmark suite",
	Long: `bench checks that each code decodes every trial at its correction
capacity and none one error beyond it, then searches the capacity of two
dimensional codes.`,
	RunE: runBench,
}

func init() {
	f := benchCmd.Flags()
	f.Int("runs", 1000, "trials per error count")
	f.Int("product-steps", 25, "capacity search steps for two dimensional codes (0 to skip)")
	_ = viper.BindPFlags(f)
}

// benchCase is one row of the suite. Negative cases expect no trial to
// decode at Capacity+1 errors.
type benchCase struct {
	config   errorz.Config
	capacity int
	negative bool
}

var benchSuite = []benchCase{
	{errorz.Config{Strategy: errorz.Vandermonde, N: 256, K: 248}, 4, true},
	{errorz.Config{Strategy: errorz.Vandermonde, N: 256, K: 240}, 8, true},
	{errorz.Config{Strategy: errorz.Vandermonde, N: 256, K: 232}, 12, true},
	{errorz.Config{Strategy: errorz.Mazurov, N: 256, K: 248}, 7, false},
	{errorz.Config{Strategy: errorz.Mazurov, N: 256, K: 240}, 14, true},
	{errorz.Config{Strategy: errorz.Mazurov, N: 256, K: 232}, 21, true},
}

var benchProducts = []errorz.Config{
	{Strategy: errorz.Vandermonde, N: 256, K: 224, Columns: 256, ColumnMessage: 224},
	{Strategy: errorz.Mazurov, N: 256, K: 224, Columns: 256, ColumnMessage: 224},
}

func runBench(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	flags := NewFlagLoader(cmd)
	out := cmd.OutOrStdout()
	runs := flags.Int("runs")

	report := func(result trial.Result, pass bool) {
		fmt.Fprintln(out, result)
		verdict := "PASS"
		if !pass {
			verdict = "FAIL"
		}
		fmt.Fprintln(out, "Test result:", verdict)
		env.log.Info("trial",
			zap.String("code", result.Code),
			zap.Int("errors", result.Errors),
			zap.Int("runs", result.Runs),
			zap.Int("decoded", result.Decoded),
			zap.Int("rejected", result.Rejected),
			zap.Int("failed", result.Failed),
			zap.Bool("pass", pass))
	}

	var failures int
	for _, bc := range benchSuite {
		w, err := bc.config.NewWord(env.src)
		if err != nil {
			return err
		}

		result, err := trial.Run(ctx, w, env.src, runs, bc.capacity)
		if err != nil {
			return err
		}
		pass := result.Decoded == runs
		report(result, pass)
		if !pass {
			failures++
		}

		if !bc.negative {
			continue
		}
		result, err = trial.Run(ctx, w, env.src, runs, bc.capacity+1)
		if err != nil {
			return err
		}
		pass = result.Decoded == 0
		report(result, pass)
		if !pass {
			failures++
		}
	}

	if steps := flags.Int("product-steps"); steps > 0 {
		for _, config := range benchProducts {
			w, err := config.NewWord(env.src)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, w)
			bracket, err := trial.Capacity(ctx, w, env.src, steps)
			if err != nil {
				return err
			}
			for _, step := range bracket.Steps {
				fmt.Fprintln(out, "    "+step.String())
			}
			fmt.Fprintln(out, "    "+bracket.String())
			env.log.Info("capacity",
				zap.String("code", fmt.Sprint(w)),
				zap.Int("min_failed", bracket.MinFailed),
				zap.Int("max_decoded", bracket.MaxDecoded))
		}
	}

	if failures > 0 {
		return errorz.Error.New("%d benchmark cases failed", failures)
	}
	return nil
}
