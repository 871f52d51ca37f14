// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !release

package queue

// debugChecks enables reading the driver error flag after every command
// and deletion. Build with -tags release to compile the checks out.
const debugChecks = true
