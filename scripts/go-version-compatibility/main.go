// Copyright (C) 2022 Storj Labs, Inc.
// See LICENSE for copying information.

// go-version-compatibility vets the module for every supported platform.
// The field arithmetic relies on 64-bit words, so 32-bit targets are
// included explicitly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"storj.io/common/sync2"
)

type target struct {
	os   string
	arch string
}

func (t target) String() string { return t.os + "/" + t.arch }

var targets = []target{
	{"linux", "amd64"},
	{"linux", "386"},
	{"linux", "arm64"},
	{"linux", "arm"},
	{"windows", "amd64"},
	{"windows", "386"},
	{"windows", "arm64"},
	{"darwin", "amd64"},
	{"darwin", "arm64"},
}

type result struct {
	target target
	out    string
	err    error
}

func main() {
	parallel := flag.Int("parallel", runtime.GOMAXPROCS(0), "number of vets to run in parallel")
	compiler := flag.String("go", "go", "go command to use")
	pkg := flag.String("pkg", "storj.io/errorz/...", "package pattern to vet")
	flag.Parse()

	ctx := context.Background()
	results := make([]result, len(targets))

	lim := sync2.NewLimiter(*parallel)
	for i, t := range targets {
		lim.Go(ctx, func() {
			cmd := exec.Command(*compiler, "vet", *pkg)
			cmd.Env = append(os.Environ(),
				"GOOS="+t.os,
				"GOARCH="+t.arch,
			)
			data, err := cmd.CombinedOutput()
			results[i] = result{target: t, out: strings.TrimSpace(string(data)), err: err}
		})
	}
	lim.Wait()

	exit := 0
	for _, r := range results {
		if r.err == nil {
			fmt.Println("#", *compiler, r.target, "SUCCESS")
			continue
		}
		fmt.Println("#", *compiler, r.target, "FAILED", r.err)
		fmt.Println(r.out)
		fmt.Println()
		exit = 1
	}
	os.Exit(exit)
}
