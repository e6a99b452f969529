// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Command errorz benchmarks GF(2^64) erasure and error correcting codes.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spacemonkeygo/monkit/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storj.io/errorz/private/random"
)

var rootCmd = &cobra.Command{
	Use:   "errorz",
	Short: "errorz - erasure and error correction over GF(2^64)",
	Long: `errorz encodes random messages with Vandermonde, Mazurov, Lagrange and
product codes, injects errors and reports how often decoding succeeds.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// env holds what setup prepares for the subcommands.
var env struct {
	log  *zap.Logger
	seed uint64
	src  *random.Source
}

func init() {
	f := rootCmd.PersistentFlags()
	f.Uint64("seed", 0, "random seed (default: current time in milliseconds)")
	f.String("log-level", "info", "log level")
	f.Bool("dev", false, "use human readable development logging")
	f.Bool("stats", false, "print collected metrics when done")

	viper.SetEnvPrefix("ERRORZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(f)

	rootCmd.AddCommand(benchCmd, capacityCmd, stripeCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	flags := NewFlagLoader(cmd)

	log, err := newLogger(flags.Bool("dev"), flags.String("log-level"))
	if err != nil {
		return err
	}
	env.log = log.Named(cmd.Name())

	env.seed = flags.Uint64("seed")
	if env.seed == 0 {
		env.seed = uint64(time.Now().UnixMilli())
	}
	random.Reset(env.seed)
	env.src = random.New(env.seed)

	fmt.Fprintln(cmd.OutOrStdout(), "seed:", env.seed)
	env.log.Debug("starting", zap.Uint64("seed", env.seed))
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if NewFlagLoader(cmd).Bool("stats") {
		out := cmd.OutOrStdout()
		monkit.Default.Stats(func(key monkit.SeriesKey, field string, val float64) {
			fmt.Fprintf(out, "%s.%s %v\n", key.Measurement, field, val)
		})
	}
	_ = env.log.Sync()
	return nil
}

func newLogger(dev bool, level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if dev {
		config = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	config.Level = lvl
	return config.Build()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
