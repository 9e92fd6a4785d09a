package hwcaps

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

// VectorLengthController queries and constrains the SVE vector length for
// the current process. A negative return value means the query or update
// could not be performed on this system.
type VectorLengthController interface {
	// Current returns the active SVE vector length in bytes, or -1.
	Current() int
	// SetAndGet requests vector length vl and returns the length actually
	// granted by the kernel, or -1.
	SetAndGet(vl int) int
}

// SystemVectorLength returns the platform implementation of
// VectorLengthController.
func SystemVectorLength() VectorLengthController {
	return sveController{}
}
