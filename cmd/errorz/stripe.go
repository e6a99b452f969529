// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"storj.io/errorz/private/eestream"
)

var stripeCmd = &cobra.Command{
	Use:   "stripe",
	Short: "Push random bytes through the field scheme and the byte level baselines",
	Long: `stripe erasure codes random data into pieces, drops and corrupts some of
them and reports which schemes recover the data.`,
	RunE: runStripe,
}

func init() {
	codeFlags(stripeCmd)
	f := stripeCmd.Flags()
	f.Int("share-size", 64, "bytes per erasure share, a multiple of 8")
	f.Int("stripes", 16, "number of stripes")
	f.Int("missing", 0, "number of pieces to drop")
	f.Int("corrupt", 2, "number of pieces to corrupt")
	_ = viper.BindPFlags(f)
}

func runStripe(cmd *cobra.Command, args []string) error {
	flags := NewFlagLoader(cmd)
	out := cmd.OutOrStdout()

	config, err := flags.Config()
	if err != nil {
		return err
	}
	shareSize := flags.Int("share-size")
	missing, corrupt := flags.Int("missing"), flags.Int("corrupt")
	if missing < 0 || corrupt < 0 || missing+corrupt > config.N {
		return eestream.Error.New("cannot drop %d and corrupt %d of %d pieces", missing, corrupt, config.N)
	}

	field, err := config.Scheme(shareSize)
	if err != nil {
		return err
	}
	fc, err := eestream.NewFEC(config.K, config.N)
	if err != nil {
		return err
	}
	shard, err := eestream.NewShardScheme(config.K, config.N, shareSize)
	if err != nil {
		return err
	}

	data := make([]byte, field.StripeSize()*flags.Int("stripes"))
	for i := 0; i+8 <= len(data); i += 8 {
		binary.BigEndian.PutUint64(data[i:], env.src.Uint64())
	}

	// pick the pieces to drop and corrupt once so every scheme sees the
	// same damage.
	perm := make([]int, config.N)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < missing+corrupt; i++ {
		j := i + env.src.Intn(len(perm)-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	dropped, corrupted := perm[:missing], perm[missing:missing+corrupt]

	var failures int
	for _, s := range []struct {
		name   string
		scheme eestream.ErasureScheme
	}{
		{fmt.Sprintf("%s (%d,%d)", config.Strategy, config.N, config.K), field},
		{"infectious", eestream.NewRSScheme(fc, shareSize, true)},
		{"reedsolomon", shard},
	} {
		pieces, err := eestream.EncodePieces(s.scheme, data)
		if err != nil {
			return err
		}

		available := make(map[int][]byte, len(pieces))
		for num, piece := range pieces {
			available[num] = piece
		}
		for _, num := range dropped {
			delete(available, num)
		}
		for _, num := range corrupted {
			piece := available[num]
			for i := range piece {
				piece[i] ^= byte(1 + env.src.Intn(255))
			}
		}

		decoded, err := eestream.DecodePieces(s.scheme, available, true)
		ok := err == nil && string(decoded) == string(data)
		verdict := "OK"
		if !ok {
			verdict = "FAIL"
			failures++
		}
		fmt.Fprintf(out, "%-24s missing: %d, corrupted: %d  %s\n", s.name, missing, corrupt, verdict)

		fields := []zap.Field{
			zap.String("scheme", s.name),
			zap.Int("missing", missing),
			zap.Int("corrupted", corrupt),
			zap.Bool("recovered", ok),
		}
		if err != nil {
			fields = append(fields, zap.Error(err), zap.Bool("needs_more_shares", eestream.NeedsMoreShares(err)))
		}
		env.log.Info("stripe", fields...)
	}

	if failures > 0 {
		env.log.Warn("some schemes could not recover the data", zap.Int("failures", failures))
	}
	return nil
}
