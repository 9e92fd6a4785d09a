//go:build !linux

package hwcaps

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

type sveController struct{}

func (sveController) Current() int {
	return -1
}

func (sveController) SetAndGet(vl int) int {
	return -1
}
