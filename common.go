// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package errorz

import (
	"github.com/zeebo/errs"
)

// Error is default error class for errorz.
var Error = errs.Class("errorz")
