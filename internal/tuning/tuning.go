// Package tuning reconciles runtime tuning flags against probed hardware
// capabilities. The single entry point, Initialize, runs once at startup:
// it applies hardware-derived defaults, corrects or rejects conflicting
// user choices, applies the silicon-specific vendor tuning table, and
// freezes the flag set.
package tuning

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"cputune/internal/hwcaps"
	"cputune/internal/tuneflags"
)

// Options adjusts initialization behavior.
type Options struct {
	// VectorLength queries and constrains the SVE vector length. Nil
	// selects the platform implementation.
	VectorLength hwcaps.VectorLengthController
	// MapSync indicates the host supports synchronous memory mapping;
	// together with the dcpop feature it enables cache line writeback.
	MapSync bool
}

// AtomicSupport lists the atomic operation classes the architecture
// guarantees. All are unconditionally available on aarch64.
type AtomicSupport struct {
	CX8     bool
	GetSet4 bool
	GetAdd4 bool
	GetSet8 bool
	GetAdd8 bool
}

// Result is the immutable outcome of initialization, consumed by the
// compiler backend and memory subsystem.
type Result struct {
	Identity hwcaps.ProcessorIdentity
	// Features is the probed set plus any model-derived bits added by
	// vendor rules.
	Features hwcaps.FeatureSet
	Cache    hwcaps.CacheGeometry
	Flags    *tuneflags.FlagSet

	// FeaturesString is the stable diagnostics line for logging.
	FeaturesString string
	Warnings       []string

	SpinWait        SpinWait
	SVEVectorLength int64
	// DataCacheLineFlushSize is nonzero when cache line writeback is
	// usable on this host.
	DataCacheLineFlushSize int
	Atomics                AtomicSupport
}

// Initialize reconciles the flag set against the probed hardware and
// freezes it. A returned error is terminal: the configuration cannot be
// corrected and the process must not continue. Warnings for corrected
// flags are collected in the result and logged as they occur.
func Initialize(probe hwcaps.Probe, flags *tuneflags.FlagSet, opts Options) (*Result, error) {
	e := newEngine(probe, flags, opts)
	if err := e.run(); err != nil {
		return nil, err
	}
	spinWait, err := spinWaitFromFlags(flags)
	if err != nil {
		return nil, err
	}
	flags.Freeze()
	return &Result{
		Identity:               probe.Identity,
		Features:               e.features,
		Cache:                  probe.Cache,
		Flags:                  flags,
		FeaturesString:         hwcaps.FeaturesString(probe.Identity, e.features),
		Warnings:               e.warnings,
		SpinWait:               spinWait,
		SVEVectorLength:        e.sveVectorLength,
		DataCacheLineFlushSize: e.dataCacheLineFlushSize,
		Atomics: AtomicSupport{
			CX8:     true,
			GetSet4: true,
			GetAdd4: true,
			GetSet8: true,
			GetAdd8: true,
		},
	}, nil
}
