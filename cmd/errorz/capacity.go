// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storj.io/errorz/private/trial"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Search the error count a code decodes half of the time",
	RunE:  runCapacity,
}

func init() {
	codeFlags(capacityCmd)
	f := capacityCmd.Flags()
	f.Int("steps", 25, "number of probes")
	f.Int("verify-runs", 0, "also run this many trials at the largest decoded error count")
	_ = viper.BindPFlags(f)
}

func runCapacity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := NewFlagLoader(cmd)
	out := cmd.OutOrStdout()

	config, err := flags.Config()
	if err != nil {
		return err
	}
	w, err := config.NewWord(env.src)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, w)
	bracket, err := trial.Capacity(ctx, w, env.src, flags.Int("steps"))
	if err != nil {
		return err
	}
	for _, step := range bracket.Steps {
		fmt.Fprintln(out, "    "+step.String())
	}
	fmt.Fprintln(out, "    "+bracket.String())
	env.log.Info("capacity",
		zap.String("strategy", config.Strategy.String()),
		zap.Int("n", config.N),
		zap.Int("k", config.K),
		zap.Int("min_failed", bracket.MinFailed),
		zap.Int("max_decoded", bracket.MaxDecoded))

	if runs := flags.Int("verify-runs"); runs > 0 {
		result, err := trial.Run(ctx, w, env.src, runs, bracket.MaxDecoded)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result)
	}
	return nil
}
