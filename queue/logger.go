// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package queue

import (
	"log/slog"

	"github.com/gogpu/gfxcore"
)

// slogger returns the shared gfxcore logger.
func slogger() *slog.Logger { return gfxcore.Logger() }
