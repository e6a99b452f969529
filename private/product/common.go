// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package product

import (
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"

	"storj.io/eventkit"
)

var (
	// Error is the default product errs class.
	Error = errs.Class("product")

	mon = monkit.Package()
	evs = eventkit.Package()
)
