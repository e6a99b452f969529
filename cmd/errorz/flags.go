// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storj.io/errorz"
)

// FlagLoader loads values with CLI flag precedence. An explicitly set flag
// wins; otherwise viper's order applies: env > default.
type FlagLoader struct {
	cmd *cobra.Command
}

// NewFlagLoader creates a FlagLoader for the given cobra command.
func NewFlagLoader(cmd *cobra.Command) *FlagLoader {
	return &FlagLoader{cmd: cmd}
}

// String returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) String(flagName string) string {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetString(flagName)
		return val
	}
	return viper.GetString(flagName)
}

// Int returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Int(flagName string) int {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetInt(flagName)
		return val
	}
	return viper.GetInt(flagName)
}

// Uint64 returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Uint64(flagName string) uint64 {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetUint64(flagName)
		return val
	}
	return viper.GetUint64(flagName)
}

// Bool returns CLI flag value if explicitly set, otherwise viper value.
func (f *FlagLoader) Bool(flagName string) bool {
	if f.cmd.Flags().Changed(flagName) {
		val, _ := f.cmd.Flags().GetBool(flagName)
		return val
	}
	return viper.GetBool(flagName)
}

// codeFlags registers the flags describing a code on cmd.
func codeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("strategy", string(errorz.Mazurov), "decoding strategy: vandermonde or mazurov")
	f.Int("n", 256, "block length")
	f.Int("k", 240, "message length")
	f.Bool("lagrange", false, "use the Lagrange transform")
	f.Int("columns", 0, "column length of a two dimensional code (0 for one dimension)")
	f.Int("column-k", 0, "column message length of a two dimensional code")
	f.Int("parallelism", 0, "rows or columns decoded at once (0 for GOMAXPROCS)")
	_ = viper.BindPFlags(f)
}

// Config reads the flags registered by codeFlags.
func (f *FlagLoader) Config() (errorz.Config, error) {
	strategy, err := errorz.ParseStrategy(f.String("strategy"))
	if err != nil {
		return errorz.Config{}, err
	}
	return errorz.Config{
		Strategy:      strategy,
		N:             f.Int("n"),
		K:             f.Int("k"),
		Lagrange:      f.Bool("lagrange"),
		Columns:       f.Int("columns"),
		ColumnMessage: f.Int("column-k"),
		Parallelism:   f.Int("parallelism"),
	}, nil
}
