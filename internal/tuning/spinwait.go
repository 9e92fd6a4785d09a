package tuning

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"

	"cputune/internal/tuneflags"
)

// SpinWaitInst is the instruction emitted for spin-wait hints.
type SpinWaitInst int

const (
	SpinWaitNone SpinWaitInst = iota
	SpinWaitNop
	SpinWaitIsb
	SpinWaitYield
)

func (i SpinWaitInst) String() string {
	switch i {
	case SpinWaitNop:
		return "nop"
	case SpinWaitIsb:
		return "isb"
	case SpinWaitYield:
		return "yield"
	}
	return "none"
}

// SpinWait describes the spin-wait hint sequence.
type SpinWait struct {
	Inst  SpinWaitInst
	Count int64
}

// spinWaitFromFlags parses the OnSpinWaitInst flag into its closed
// enumeration. An unrecognized instruction name, or a positive count
// combined with "none", is a hard initialization failure.
func spinWaitFromFlags(fs *tuneflags.FlagSet) (SpinWait, error) {
	count := fs.Int(tuneflags.OnSpinWaitInstCount)
	switch inst := fs.Str(tuneflags.OnSpinWaitInst); inst {
	case "nop":
		return SpinWait{Inst: SpinWaitNop, Count: count}, nil
	case "isb":
		return SpinWait{Inst: SpinWaitIsb, Count: count}, nil
	case "yield":
		return SpinWait{Inst: SpinWaitYield, Count: count}, nil
	case "none":
	default:
		return SpinWait{}, fmt.Errorf("the options for OnSpinWaitInst are nop, isb, yield, and none: %q", inst)
	}
	if !fs.IsDefault(tuneflags.OnSpinWaitInstCount) && count > 0 {
		return SpinWait{}, fmt.Errorf("OnSpinWaitInstCount cannot be used for OnSpinWaitInst 'none'")
	}
	return SpinWait{}, nil
}
