// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestCapacityCommand(t *testing.T) {
	out := execute(t, "capacity", "--seed", "1", "--log-level", "warn",
		"--strategy", "vandermonde", "--n", "32", "--k", "24", "--steps", "8")
	require.Contains(t, out, "seed: 1")
	require.Contains(t, out, "Vandermonde-RS code (n,k)=(32,24)")
	require.Contains(t, out, "[min failed, max decoded]: [5, 4]")
}

func TestBenchCommand(t *testing.T) {
	out := execute(t, "bench", "--seed", "2", "--log-level", "warn", "--runs", "2", "--product-steps", "0")
	require.Contains(t, out, "Mazurov code (n,k)=(256,240), redundancy: 16, errors: 14, runs: 2, decoded: 2")
	require.NotContains(t, out, "FAIL")
}

func TestStripeCommand(t *testing.T) {
	out := execute(t, "stripe", "--seed", "3", "--log-level", "warn",
		"--strategy", "mazurov", "--n", "16", "--k", "8", "--share-size", "16",
		"--stripes", "2", "--missing", "2", "--corrupt", "2")
	require.Contains(t, out, "mazurov (16,8)")
	require.Regexp(t, `mazurov \(16,8\)\s+missing: 2, corrupted: 2  OK`, out)
	require.Regexp(t, `infectious\s+missing: 2, corrupted: 2  OK`, out)
}
