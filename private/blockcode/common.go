// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package blockcode

import (
	"github.com/spacemonkeygo/monkit/v3"
	"github.com/zeebo/errs"
)

var (
	// Error is the default blockcode errs class.
	Error = errs.Class("blockcode")

	mon = monkit.Package()
)
