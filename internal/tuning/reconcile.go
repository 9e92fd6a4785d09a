package tuning

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"

	"cputune/internal/hwcaps"
	"cputune/internal/tuneflags"
)

const (
	// Minimum SVE vector length in bytes; detected lengths must be a
	// power of two and a multiple of this.
	sveVectorLengthMin = 16

	neonMinVectorSize = 8
	neonMaxVectorSize = 16

	prefetchIntervalLimit = 32768
)

type engine struct {
	probe hwcaps.Probe
	flags *tuneflags.FlagSet
	vl    hwcaps.VectorLengthController

	// features starts as the probed set; vendor rules may add
	// model-derived bits.
	features hwcaps.FeatureSet

	mapSync bool

	warnings []string
	warned   mapset.Set[string]

	sveVectorLength        int64
	dataCacheLineFlushSize int
}

func newEngine(probe hwcaps.Probe, flags *tuneflags.FlagSet, opts Options) *engine {
	vl := opts.VectorLength
	if vl == nil {
		vl = hwcaps.SystemVectorLength()
	}
	return &engine{
		probe:    probe,
		flags:    flags,
		vl:       vl,
		features: probe.Features,
		mapSync:  opts.MapSync,
		warned:   mapset.NewSet[string](),
	}
}

func (e *engine) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !e.warned.Add(msg) {
		return
	}
	e.warnings = append(e.warnings, msg)
	slog.Warn(msg)
}

// run performs one full reconciliation pass. Running it again on an already
// reconciled flag set changes nothing and emits no further warnings.
func (e *engine) run() error {
	e.cacheDerivedDefaults()
	e.alignmentCorrections()
	if err := e.applyVendorRules(); err != nil {
		return err
	}
	e.capabilityCascades()
	e.blockZeroing()
	if err := e.vectorSizes(); err != nil {
		return err
	}
	e.compilerIntrinsics()
	return nil
}

// unset reports whether no stage has touched the flag yet. Stages that
// derive one-shot defaults must gate on this rather than IsDefault, so a
// corrected user value (demoted to default-applied) is not re-derived on a
// later pass.
func (e *engine) unset(name string) bool {
	return e.flags.Origin(name) == tuneflags.OriginUnset
}

// cacheDerivedDefaults computes prefetch distances from the data cache line
// size for flags nothing has touched yet.
func (e *engine) cacheDerivedDefaults() {
	fs := e.flags
	dcache := int64(e.probe.Cache.DCacheLineSize)

	// Keep AllocatePrefetchDistance below the backend's constraint limit.
	if e.unset(tuneflags.AllocatePrefetchDistance) {
		fs.SetDefaultInt(tuneflags.AllocatePrefetchDistance, min(512, 3*dcache))
	}
	if e.unset(tuneflags.AllocatePrefetchStepSize) {
		fs.SetDefaultInt(tuneflags.AllocatePrefetchStepSize, dcache)
	}
	if e.unset(tuneflags.PrefetchScanIntervalInBytes) {
		fs.SetDefaultInt(tuneflags.PrefetchScanIntervalInBytes, 3*dcache)
	}
	if e.unset(tuneflags.PrefetchCopyIntervalInBytes) {
		fs.SetDefaultInt(tuneflags.PrefetchCopyIntervalInBytes, 3*dcache)
	}
	if e.unset(tuneflags.SoftwarePrefetchHintDistance) {
		fs.SetDefaultInt(tuneflags.SoftwarePrefetchHintDistance, 3*dcache)
	}
	if e.unset(tuneflags.ContendedPaddingWidth) && dcache > fs.Int(tuneflags.ContendedPaddingWidth) {
		fs.SetDefaultInt(tuneflags.ContendedPaddingWidth, dcache)
	}
	if e.mapSync && e.features.Has(hwcaps.FeatureDCPOP) {
		// dcpop allows publishing the flush size; zero leaves writeback
		// disabled.
		e.dataCacheLineFlushSize = e.probe.Cache.DCacheLineSize
	}
}

// alignmentCorrections masks or clamps numeric flags that violate their
// alignment constraints. Violations are corrected, never rejected.
func (e *engine) alignmentCorrections() {
	fs := e.flags

	if v := fs.Int(tuneflags.PrefetchCopyIntervalInBytes); v != -1 && (v&7 != 0 || v >= prefetchIntervalLimit) {
		e.warnf("PrefetchCopyIntervalInBytes must be -1, or a multiple of 8 and < %d", prefetchIntervalLimit)
		v &^= 7
		if v >= prefetchIntervalLimit {
			v = prefetchIntervalLimit - 8
		}
		fs.SetDefaultInt(tuneflags.PrefetchCopyIntervalInBytes, v)
	}
	if v := fs.Int(tuneflags.AllocatePrefetchDistance); v != -1 && v&7 != 0 {
		e.warnf("AllocatePrefetchDistance must be multiple of 8")
		fs.SetDefaultInt(tuneflags.AllocatePrefetchDistance, v&^7)
	}
	if v := fs.Int(tuneflags.AllocatePrefetchStepSize); v&7 != 0 {
		e.warnf("AllocatePrefetchStepSize must be multiple of 8")
		fs.SetDefaultInt(tuneflags.AllocatePrefetchStepSize, v&^7)
	}
	if v := fs.Int(tuneflags.SoftwarePrefetchHintDistance); v != -1 && v&7 != 0 {
		e.warnf("SoftwarePrefetchHintDistance must be -1, or a multiple of 8")
		fs.SetDefaultInt(tuneflags.SoftwarePrefetchHintDistance, v&^7)
	}
}

// shaIntrinsicRules drives the per-extension SHA intrinsic reconciliation.
// Auto-enable for SHA3 and SHA512 is intentionally withheld until the
// intrinsics have been validated on hardware; the rule entries stay listed
// so the intent to enable them later is explicit.
var shaIntrinsicRules = []struct {
	flag       string
	feature    hwcaps.Feature
	autoEnable bool
	warning    string
}{
	{tuneflags.UseSHA1Intrinsics, hwcaps.FeatureSHA1, true,
		"Intrinsics for SHA-1 crypto hash functions not available on this CPU."},
	{tuneflags.UseSHA256Intrinsics, hwcaps.FeatureSHA2, true,
		"Intrinsics for SHA-224 and SHA-256 crypto hash functions not available on this CPU."},
	{tuneflags.UseSHA3Intrinsics, hwcaps.FeatureSHA3, false,
		"Intrinsics for SHA3-224, SHA3-256, SHA3-384 and SHA3-512 crypto hash functions not available on this CPU."},
	{tuneflags.UseSHA512Intrinsics, hwcaps.FeatureSHA512, false,
		"Intrinsics for SHA-384 and SHA-512 crypto hash functions not available on this CPU."},
}

// capabilityCascades reconciles every capability-gated flag against the
// feature set: hardware-derived defaults where unset, forced disables with
// a warning where the user asked for something the CPU cannot do.
func (e *engine) capabilityCascades() {
	fs := e.flags

	if fs.IsDefault(tuneflags.UseCRC32) {
		fs.SetDefaultBool(tuneflags.UseCRC32, e.features.Has(hwcaps.FeatureCRC32))
	}
	if fs.Bool(tuneflags.UseCRC32) && !e.features.Has(hwcaps.FeatureCRC32) {
		e.warnf("UseCRC32 specified, but not supported on this CPU")
		fs.SetDefaultBool(tuneflags.UseCRC32, false)
	}

	if fs.IsDefault(tuneflags.UseAdler32Intrinsics) {
		fs.SetDefaultBool(tuneflags.UseAdler32Intrinsics, true)
	}

	// No vectorized mismatch implementation exists for this architecture.
	if fs.Bool(tuneflags.UseVectorizedMismatchIntrinsic) {
		e.warnf("UseVectorizedMismatchIntrinsic specified, but not available on this CPU.")
		fs.SetDefaultBool(tuneflags.UseVectorizedMismatchIntrinsic, false)
	}

	if e.features.Has(hwcaps.FeatureLSE) {
		if fs.IsDefault(tuneflags.UseLSE) {
			fs.SetDefaultBool(tuneflags.UseLSE, true)
		}
	} else if fs.Bool(tuneflags.UseLSE) {
		e.warnf("UseLSE specified, but not supported on this CPU")
		fs.SetDefaultBool(tuneflags.UseLSE, false)
	}

	if e.features.Has(hwcaps.FeatureAES) {
		if fs.IsDefault(tuneflags.UseAES) && !fs.Bool(tuneflags.UseAES) {
			fs.SetDefaultBool(tuneflags.UseAES, true)
		}
		if !fs.Bool(tuneflags.UseAESIntrinsics) && fs.Bool(tuneflags.UseAES) && fs.IsDefault(tuneflags.UseAESIntrinsics) {
			fs.SetDefaultBool(tuneflags.UseAESIntrinsics, true)
		}
		if fs.Bool(tuneflags.UseAESIntrinsics) && !fs.Bool(tuneflags.UseAES) {
			e.warnf("UseAESIntrinsics enabled, but UseAES not, enabling")
			fs.SetDefaultBool(tuneflags.UseAES, true)
		}
		if fs.IsDefault(tuneflags.UseAESCTRIntrinsics) {
			fs.SetDefaultBool(tuneflags.UseAESCTRIntrinsics, true)
		}
	} else {
		if fs.Bool(tuneflags.UseAES) {
			e.warnf("AES instructions are not available on this CPU")
			fs.SetDefaultBool(tuneflags.UseAES, false)
		}
		if fs.Bool(tuneflags.UseAESIntrinsics) {
			e.warnf("AES intrinsics are not available on this CPU")
			fs.SetDefaultBool(tuneflags.UseAESIntrinsics, false)
		}
		if fs.Bool(tuneflags.UseAESCTRIntrinsics) {
			e.warnf("AES/CTR intrinsics are not available on this CPU")
			fs.SetDefaultBool(tuneflags.UseAESCTRIntrinsics, false)
		}
	}

	if fs.IsDefault(tuneflags.UseCRC32Intrinsics) {
		fs.SetDefaultBool(tuneflags.UseCRC32Intrinsics, true)
	}

	if e.features.Has(hwcaps.FeatureCRC32) {
		if fs.IsDefault(tuneflags.UseCRC32CIntrinsics) {
			fs.SetDefaultBool(tuneflags.UseCRC32CIntrinsics, true)
		}
	} else if fs.Bool(tuneflags.UseCRC32CIntrinsics) {
		e.warnf("CRC32C is not available on the CPU")
		fs.SetDefaultBool(tuneflags.UseCRC32CIntrinsics, false)
	}

	if fs.IsDefault(tuneflags.UseFMA) {
		fs.SetDefaultBool(tuneflags.UseFMA, true)
	}
	if fs.IsDefault(tuneflags.UseMD5Intrinsics) {
		fs.SetDefaultBool(tuneflags.UseMD5Intrinsics, true)
	}

	shaFeatures := []hwcaps.Feature{hwcaps.FeatureSHA1, hwcaps.FeatureSHA2, hwcaps.FeatureSHA3, hwcaps.FeatureSHA512}
	if e.features.HasAny(shaFeatures...) {
		if fs.IsDefault(tuneflags.UseSHA) {
			fs.SetDefaultBool(tuneflags.UseSHA, true)
		}
	} else if fs.Bool(tuneflags.UseSHA) {
		e.warnf("SHA instructions are not available on this CPU")
		fs.SetDefaultBool(tuneflags.UseSHA, false)
	}

	anyIntrinsic := false
	for _, rule := range shaIntrinsicRules {
		if fs.Bool(tuneflags.UseSHA) && e.features.Has(rule.feature) {
			if rule.autoEnable && fs.IsDefault(rule.flag) {
				fs.SetDefaultBool(rule.flag, true)
			}
		} else if fs.Bool(rule.flag) {
			e.warnf("%s", rule.warning)
			fs.SetDefaultBool(rule.flag, false)
		}
		anyIntrinsic = anyIntrinsic || fs.Bool(rule.flag)
	}
	// Nothing left to use the SHA family; drop the aggregate flag.
	if !anyIntrinsic && fs.Bool(tuneflags.UseSHA) {
		fs.SetDefaultBool(tuneflags.UseSHA, false)
	}

	if e.features.Has(hwcaps.FeaturePMULL) {
		if fs.IsDefault(tuneflags.UseGHASHIntrinsics) {
			fs.SetDefaultBool(tuneflags.UseGHASHIntrinsics, true)
		}
	} else if fs.Bool(tuneflags.UseGHASHIntrinsics) {
		e.warnf("GHASH intrinsics are not available on this CPU")
		fs.SetDefaultBool(tuneflags.UseGHASHIntrinsics, false)
	}

	if fs.IsDefault(tuneflags.UseBASE64Intrinsics) {
		fs.SetDefaultBool(tuneflags.UseBASE64Intrinsics, true)
	}

	if fs.IsDefault(tuneflags.UseUnalignedAccesses) {
		fs.SetDefaultBool(tuneflags.UseUnalignedAccesses, true)
	}

	if fs.IsDefault(tuneflags.UsePopCountInstruction) {
		fs.SetDefaultBool(tuneflags.UsePopCountInstruction, true)
	}
	if !fs.Bool(tuneflags.UsePopCountInstruction) {
		e.warnf("UsePopCountInstruction is always enabled on this CPU")
		fs.SetDefaultBool(tuneflags.UsePopCountInstruction, true)
	}
}

func (e *engine) blockZeroing() {
	fs := e.flags
	if e.probe.Cache.ZVAEnabled() {
		if fs.IsDefault(tuneflags.UseBlockZeroing) {
			fs.SetDefaultBool(tuneflags.UseBlockZeroing, true)
		}
		if fs.IsDefault(tuneflags.BlockZeroingLowLimit) {
			fs.SetDefaultInt(tuneflags.BlockZeroingLowLimit, 4*int64(e.probe.Cache.ZVALength))
		}
	} else if fs.Bool(tuneflags.UseBlockZeroing) {
		e.warnf("DC ZVA is not available on this CPU")
		fs.SetDefaultBool(tuneflags.UseBlockZeroing, false)
	}
}

// vectorSizes reconciles SVE level, SVE vector length, and MaxVectorSize.
// This is the one area with genuinely fatal misconfigurations: a vector
// width the hardware cannot provide would make the compiler backend emit
// invalid instructions, so initialization stops instead of correcting.
func (e *engine) vectorSizes() error {
	fs := e.flags

	if e.features.Has(hwcaps.FeatureSVE) {
		if fs.IsDefault(tuneflags.UseSVE) {
			level := int64(1)
			if e.features.Has(hwcaps.FeatureSVE2) {
				level = 2
			}
			fs.SetDefaultInt(tuneflags.UseSVE, level)
		}
	} else if fs.Int(tuneflags.UseSVE) > 0 {
		e.warnf("UseSVE specified, but not supported on current CPU. Disabling SVE.")
		fs.SetDefaultInt(tuneflags.UseSVE, 0)
	}

	if fs.Int(tuneflags.UseSVE) > 0 {
		vl := int64(e.vl.Current())
		switch {
		case vl < 0:
			e.warnf("Unable to get SVE vector length on this system. Disabling SVE. Set UseSVE=0 to shun this warning.")
			fs.SetDefaultInt(tuneflags.UseSVE, 0)
		case vl == 0 || vl%sveVectorLengthMin != 0 || !isPowerOfTwo(vl):
			e.warnf("Detected SVE vector length (%d) should be a power of two and a multiple of %d. Disabling SVE. Set UseSVE=0 to shun this warning.", vl, sveVectorLengthMin)
			fs.SetDefaultInt(tuneflags.UseSVE, 0)
		default:
			e.sveVectorLength = vl
		}
	}

	if fs.Int(tuneflags.UseSVE) > 0 {
		if fs.IsDefault(tuneflags.MaxVectorSize) {
			fs.SetDefaultInt(tuneflags.MaxVectorSize, e.sveVectorLength)
		} else {
			mvs := fs.Int(tuneflags.MaxVectorSize)
			switch {
			case mvs < sveVectorLengthMin:
				e.warnf("SVE does not support vector length less than %d bytes. Disabling SVE.", sveVectorLengthMin)
				fs.SetDefaultInt(tuneflags.UseSVE, 0)
			case mvs%sveVectorLengthMin == 0 && isPowerOfTwo(mvs):
				newVL := int64(e.vl.SetAndGet(int(mvs)))
				if newVL < 0 {
					return fmt.Errorf("current system does not support SVE vector length for MaxVectorSize: %d", mvs)
				}
				if newVL != mvs {
					e.warnf("Current system only supports max SVE vector length %d. Set MaxVectorSize to %d", newVL, newVL)
				}
				e.sveVectorLength = newVL
				fs.SetDefaultInt(tuneflags.MaxVectorSize, newVL)
			default:
				return fmt.Errorf("unsupported MaxVectorSize: %d", mvs)
			}
		}
	}

	if fs.Int(tuneflags.UseSVE) == 0 { // NEON
		if e.unset(tuneflags.MaxVectorSize) {
			fs.SetDefaultInt(tuneflags.MaxVectorSize, neonMaxVectorSize)
		} else if !fs.IsDefault(tuneflags.MaxVectorSize) {
			mvs := fs.Int(tuneflags.MaxVectorSize)
			switch {
			case !isPowerOfTwo(mvs):
				return fmt.Errorf("unsupported MaxVectorSize: %d", mvs)
			case mvs < neonMinVectorSize:
				e.warnf("MaxVectorSize must be at least %d on this platform", neonMinVectorSize)
				fs.SetDefaultInt(tuneflags.MaxVectorSize, neonMinVectorSize)
			case mvs > neonMaxVectorSize:
				e.warnf("MaxVectorSize must be at most %d on this platform", neonMaxVectorSize)
				fs.SetDefaultInt(tuneflags.MaxVectorSize, neonMaxVectorSize)
			}
		}
	}
	return nil
}

// compilerIntrinsics enables the always-profitable optimizing-compiler
// intrinsics and derives the vector alignment policy.
func (e *engine) compilerIntrinsics() {
	fs := e.flags
	for _, flag := range []string{
		tuneflags.UseMultiplyToLenIntrinsic,
		tuneflags.UseSquareToLenIntrinsic,
		tuneflags.UseMulAddIntrinsic,
		tuneflags.UseMontgomeryMultiplyIntrinsic,
		tuneflags.UseMontgomerySquareIntrinsic,
		tuneflags.OptoScheduling,
	} {
		if fs.IsDefault(flag) {
			fs.SetDefaultBool(flag, true)
		}
	}
	if fs.IsDefault(tuneflags.AlignVector) {
		fs.SetDefaultBool(tuneflags.AlignVector, fs.Bool(tuneflags.AvoidUnalignedAccesses))
	}
}

func isPowerOfTwo(v int64) bool {
	return v > 0 && v&(v-1) == 0
}
