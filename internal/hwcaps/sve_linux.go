//go:build linux

package hwcaps

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"golang.org/x/sys/unix"
)

type sveController struct{}

func (sveController) Current() int {
	ret, err := unix.PrctlRetInt(unix.PR_SVE_GET_VL, 0, 0, 0, 0)
	if err != nil {
		return -1
	}
	return ret & unix.PR_SVE_VL_LEN_MASK
}

func (sveController) SetAndGet(vl int) int {
	ret, err := unix.PrctlRetInt(unix.PR_SVE_SET_VL, uintptr(vl), 0, 0, 0)
	if err != nil {
		return -1
	}
	return ret & unix.PR_SVE_VL_LEN_MASK
}
