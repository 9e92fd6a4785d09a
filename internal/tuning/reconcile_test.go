package tuning

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cputune/internal/hwcaps"
	"cputune/internal/tuneflags"
)

// fakeVL stands in for the kernel's vector length control in tests.
type fakeVL struct {
	current int
	// setResult maps a requested length to the granted one; nil grants
	// every request as-is.
	setResult func(vl int) int
}

func (f *fakeVL) Current() int { return f.current }

func (f *fakeVL) SetAndGet(vl int) int {
	if f.setResult != nil {
		return f.setResult(vl)
	}
	return vl
}

func testFeatures(features ...hwcaps.Feature) hwcaps.FeatureSet {
	var fs hwcaps.FeatureSet
	for _, f := range features {
		fs = fs.Add(f)
	}
	return fs
}

func testProbe(vendor hwcaps.Vendor, model, variant, revision int, features ...hwcaps.Feature) hwcaps.Probe {
	return hwcaps.Probe{
		Identity: hwcaps.ProcessorIdentity{Vendor: vendor, Model: model, Variant: variant, Revision: revision},
		Features: testFeatures(features...),
		Cache:    hwcaps.CacheGeometry{DCacheLineSize: 64, ICacheLineSize: 64},
	}
}

var neoverseFeatures = []hwcaps.Feature{
	hwcaps.FeatureFP, hwcaps.FeatureASIMD, hwcaps.FeatureAES, hwcaps.FeaturePMULL,
	hwcaps.FeatureSHA1, hwcaps.FeatureSHA2, hwcaps.FeatureCRC32, hwcaps.FeatureLSE,
	hwcaps.FeatureDCPOP,
}

func TestInitializeNeoverseDefaults(t *testing.T) {
	probe := testProbe(hwcaps.VendorARM, 0xd0c, 3, 1, neoverseFeatures...)
	flags := tuneflags.NewFlagSet()
	result, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: -1}})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.True(t, flags.Frozen())

	// capability-derived defaults
	assert.True(t, flags.Bool(tuneflags.UseCRC32))
	assert.True(t, flags.Bool(tuneflags.UseLSE))
	assert.True(t, flags.Bool(tuneflags.UseAES))
	assert.True(t, flags.Bool(tuneflags.UseAESIntrinsics))
	assert.True(t, flags.Bool(tuneflags.UseAESCTRIntrinsics))
	assert.True(t, flags.Bool(tuneflags.UseSHA))
	assert.True(t, flags.Bool(tuneflags.UseSHA1Intrinsics))
	assert.True(t, flags.Bool(tuneflags.UseSHA256Intrinsics))
	assert.False(t, flags.Bool(tuneflags.UseSHA3Intrinsics))
	assert.False(t, flags.Bool(tuneflags.UseSHA512Intrinsics))
	assert.True(t, flags.Bool(tuneflags.UseGHASHIntrinsics))
	assert.True(t, flags.Bool(tuneflags.UsePopCountInstruction))

	// cache-derived prefetch defaults, 64 byte lines
	assert.Equal(t, int64(192), flags.Int(tuneflags.AllocatePrefetchDistance))
	assert.Equal(t, int64(64), flags.Int(tuneflags.AllocatePrefetchStepSize))
	assert.Equal(t, int64(192), flags.Int(tuneflags.PrefetchScanIntervalInBytes))
	assert.Equal(t, int64(192), flags.Int(tuneflags.PrefetchCopyIntervalInBytes))
	assert.Equal(t, int64(128), flags.Int(tuneflags.ContendedPaddingWidth))

	// vendor rule for Neoverse
	assert.True(t, flags.Bool(tuneflags.UseSIMDForMemoryOps))
	assert.Equal(t, SpinWaitIsb, result.SpinWait.Inst)
	assert.Equal(t, int64(1), result.SpinWait.Count)

	// no SVE feature, NEON vector sizing
	assert.Equal(t, int64(0), flags.Int(tuneflags.UseSVE))
	assert.Equal(t, int64(neonMaxVectorSize), flags.Int(tuneflags.MaxVectorSize))

	assert.True(t, result.Atomics.CX8)
	assert.True(t, result.Atomics.GetAdd8)
}

func TestInitializeWideCacheLines(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	probe.Cache.DCacheLineSize = 256
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(512), flags.Int(tuneflags.AllocatePrefetchDistance))
	assert.Equal(t, int64(768), flags.Int(tuneflags.PrefetchCopyIntervalInBytes))
	assert.Equal(t, int64(256), flags.Int(tuneflags.ContendedPaddingWidth))
}

func TestUnsupportedUserFlagCorrected(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0) // no features at all
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.UseCRC32, "true"))
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)

	assert.False(t, flags.Bool(tuneflags.UseCRC32))
	// the corrected flag is demoted so later stages treat it as default
	assert.Equal(t, tuneflags.OriginDefault, flags.Origin(tuneflags.UseCRC32))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "UseCRC32 specified, but not supported")
}

func TestAlignmentMasking(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.PrefetchCopyIntervalInBytes, "100"))
	require.NoError(t, flags.SetUser(tuneflags.AllocatePrefetchDistance, "100"))
	require.NoError(t, flags.SetUser(tuneflags.AllocatePrefetchStepSize, "12"))
	require.NoError(t, flags.SetUser(tuneflags.SoftwarePrefetchHintDistance, "9"))
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)

	assert.Equal(t, int64(96), flags.Int(tuneflags.PrefetchCopyIntervalInBytes))
	assert.Equal(t, int64(96), flags.Int(tuneflags.AllocatePrefetchDistance))
	assert.Equal(t, int64(8), flags.Int(tuneflags.AllocatePrefetchStepSize))
	assert.Equal(t, int64(8), flags.Int(tuneflags.SoftwarePrefetchHintDistance))
	assert.Len(t, result.Warnings, 4)
}

func TestPrefetchCopyIntervalClamped(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.PrefetchCopyIntervalInBytes, "40000"))
	_, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(32760), flags.Int(tuneflags.PrefetchCopyIntervalInBytes))
}

func TestReconcileIdempotent(t *testing.T) {
	probe := testProbe(hwcaps.VendorARM, 0xd0c, 3, 1, neoverseFeatures...)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.PrefetchCopyIntervalInBytes, "100"))

	e := newEngine(probe, flags, Options{VectorLength: &fakeVL{current: -1}})
	require.NoError(t, e.run())
	warnings := len(e.warnings)
	var snapshot []string
	flags.Visit(func(f *tuneflags.Flag) {
		snapshot = append(snapshot, f.Name+"="+f.ValueString())
	})

	require.NoError(t, e.run())
	assert.Len(t, e.warnings, warnings)
	i := 0
	flags.Visit(func(f *tuneflags.Flag) {
		assert.Equal(t, snapshot[i], f.Name+"="+f.ValueString())
		i++
	})
}

func TestMaskedUserValueSurvivesRerun(t *testing.T) {
	// a corrected user value is demoted to default-applied; a later pass
	// must keep the correction, not re-derive the hardware default
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.PrefetchCopyIntervalInBytes, "100"))

	e := newEngine(probe, flags, Options{})
	require.NoError(t, e.run())
	assert.Equal(t, int64(96), flags.Int(tuneflags.PrefetchCopyIntervalInBytes))
	assert.Equal(t, tuneflags.OriginDefault, flags.Origin(tuneflags.PrefetchCopyIntervalInBytes))

	require.NoError(t, e.run())
	assert.Equal(t, int64(96), flags.Int(tuneflags.PrefetchCopyIntervalInBytes))
}

func TestCorrectedVectorSizeSurvivesRerun(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "4"))

	e := newEngine(probe, flags, Options{})
	require.NoError(t, e.run())
	assert.Equal(t, int64(neonMinVectorSize), flags.Int(tuneflags.MaxVectorSize))

	require.NoError(t, e.run())
	assert.Equal(t, int64(neonMinVectorSize), flags.Int(tuneflags.MaxVectorSize))
}

func TestVendorRuleRespectsUserChoice(t *testing.T) {
	probe := testProbe(hwcaps.VendorARM, 0xd0c, 3, 1, neoverseFeatures...)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.UseSIMDForMemoryOps, "false"))
	_, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: -1}})
	require.NoError(t, err)
	assert.False(t, flags.Bool(tuneflags.UseSIMDForMemoryOps))
	assert.Equal(t, tuneflags.OriginUser, flags.Origin(tuneflags.UseSIMDForMemoryOps))
}

func TestCortexA53(t *testing.T) {
	probe := testProbe(hwcaps.VendorARM, 0xd03, 0, 4)
	flags := tuneflags.NewFlagSet()
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)

	assert.True(t, result.Features.Has(hwcaps.FeatureA53MAC))
	assert.False(t, flags.Bool(tuneflags.UseSIMDForArrayEquals))
	assert.False(t, flags.Bool(tuneflags.UseSimpleArrayEquals))
	// ARM-wide rule
	assert.True(t, flags.Bool(tuneflags.UseSignumIntrinsic))
}

func TestHeterogeneousAppliesBothModels(t *testing.T) {
	probe := testProbe(hwcaps.VendorARM, 0xd03, 0, 4)
	probe.Identity.ModelSecondary = 0xd09
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	// A53 and A73 rules both match through the secondary model
	assert.False(t, flags.Bool(tuneflags.UseSIMDForArrayEquals))
	assert.True(t, flags.Bool(tuneflags.UseSimpleArrayEquals))
}

func TestAmpereEMAGRevisions(t *testing.T) {
	for _, tt := range []struct {
		revision int
		expected bool
	}{
		{0, true},
		{1, false},
		{2, false},
		{3, true},
	} {
		probe := testProbe(hwcaps.VendorAMCC, 0x0, 3, tt.revision)
		flags := tuneflags.NewFlagSet()
		_, err := Initialize(probe, flags, Options{})
		require.NoError(t, err)
		assert.Equal(t, tt.expected, flags.Bool(tuneflags.UseSIMDForArrayEquals), "revision %d", tt.revision)
		assert.True(t, flags.Bool(tuneflags.AvoidUnalignedAccesses))
		assert.True(t, flags.Bool(tuneflags.UseSIMDForMemoryOps))
	}
}

func TestThunderXGuard(t *testing.T) {
	probe := testProbe(hwcaps.VendorCavium, 0xa1, 0, 0)
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-release hardware is no longer supported")
}

func TestThunderXVariants(t *testing.T) {
	probe := testProbe(hwcaps.VendorCavium, 0xa1, 1, 0)
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.True(t, flags.Bool(tuneflags.AvoidUnalignedAccesses))
	assert.True(t, flags.Bool(tuneflags.UseSIMDForMemoryOps))
	assert.False(t, flags.Bool(tuneflags.UseSIMDForArrayEquals))
}

func TestAmpereOneSpinWait(t *testing.T) {
	probe := testProbe(hwcaps.VendorAmpere, 0xac3, 0, 0)
	flags := tuneflags.NewFlagSet()
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.Equal(t, SpinWaitIsb, result.SpinWait.Inst)
	assert.Equal(t, int64(2), result.SpinWait.Count)
	assert.True(t, flags.Bool(tuneflags.UseSignumIntrinsic))
}

func TestSHAWithoutIntrinsicsDisabled(t *testing.T) {
	// sha3 present but its intrinsics are withheld; with nothing usable
	// the aggregate flag drops back to false
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSHA3)
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.False(t, flags.Bool(tuneflags.UseSHA3Intrinsics))
	assert.False(t, flags.Bool(tuneflags.UseSHA))
}

func TestSHAUserForcedWithoutHardware(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.UseSHA, "true"))
	require.NoError(t, flags.SetUser(tuneflags.UseSHA512Intrinsics, "true"))
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.False(t, flags.Bool(tuneflags.UseSHA))
	assert.False(t, flags.Bool(tuneflags.UseSHA512Intrinsics))
	assert.Contains(t, result.Warnings, "SHA instructions are not available on this CPU")
	assert.Contains(t, result.Warnings, "Intrinsics for SHA-384 and SHA-512 crypto hash functions not available on this CPU.")
}

func TestAESIntrinsicsImplyAES(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureAES)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.UseAES, "false"))
	require.NoError(t, flags.SetUser(tuneflags.UseAESIntrinsics, "true"))
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.True(t, flags.Bool(tuneflags.UseAES))
	assert.Contains(t, result.Warnings, "UseAESIntrinsics enabled, but UseAES not, enabling")
}

func TestPopCountAlwaysOn(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.UsePopCountInstruction, "false"))
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.True(t, flags.Bool(tuneflags.UsePopCountInstruction))
	assert.Contains(t, result.Warnings, "UsePopCountInstruction is always enabled on this CPU")
}

func TestBlockZeroing(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	probe.Cache.ZVALength = 128
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.True(t, flags.Bool(tuneflags.UseBlockZeroing))
	assert.Equal(t, int64(512), flags.Int(tuneflags.BlockZeroingLowLimit))
}

func TestBlockZeroingUnavailable(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.UseBlockZeroing, "true"))
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.False(t, flags.Bool(tuneflags.UseBlockZeroing))
	assert.Contains(t, result.Warnings, "DC ZVA is not available on this CPU")
}

func TestCacheLineFlushSize(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureDCPOP)
	flags := tuneflags.NewFlagSet()
	result, err := Initialize(probe, flags, Options{MapSync: true})
	require.NoError(t, err)
	assert.Equal(t, 64, result.DataCacheLineFlushSize)

	result, err = Initialize(probe, tuneflags.NewFlagSet(), Options{MapSync: false})
	require.NoError(t, err)
	assert.Equal(t, 0, result.DataCacheLineFlushSize)
}

func TestSVEDefaults(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSVE)
	flags := tuneflags.NewFlagSet()
	result, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: 32}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), flags.Int(tuneflags.UseSVE))
	assert.Equal(t, int64(32), flags.Int(tuneflags.MaxVectorSize))
	assert.Equal(t, int64(32), result.SVEVectorLength)
}

func TestSVE2Defaults(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSVE, hwcaps.FeatureSVE2)
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: 32}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), flags.Int(tuneflags.UseSVE))
}

func TestSVEUnsupportedUserChoice(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.UseSVE, "2"))
	result, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), flags.Int(tuneflags.UseSVE))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "UseSVE specified, but not supported")
}

func TestSVEVectorLengthUnavailable(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSVE)
	flags := tuneflags.NewFlagSet()
	result, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: -1}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), flags.Int(tuneflags.UseSVE))
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "Unable to get SVE vector length")
}

func TestSVEVectorLengthMalformed(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSVE)
	flags := tuneflags.NewFlagSet()
	result, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: 48}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), flags.Int(tuneflags.UseSVE))
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "should be a power of two")
}

func TestSVEMaxVectorSizeConstrained(t *testing.T) {
	vl := &fakeVL{current: 64, setResult: func(int) int { return 16 }}
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSVE)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "32"))
	result, err := Initialize(probe, flags, Options{VectorLength: vl})
	require.NoError(t, err)
	assert.Equal(t, int64(16), flags.Int(tuneflags.MaxVectorSize))
	assert.Equal(t, int64(16), result.SVEVectorLength)
	assert.Contains(t, result.Warnings[0], "only supports max SVE vector length 16")
}

func TestSVEMaxVectorSizeRejected(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSVE)

	// not a power of two
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "48"))
	_, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: 64}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported MaxVectorSize: 48")

	// the kernel refuses the requested length
	vl := &fakeVL{current: 64, setResult: func(int) int { return -1 }}
	flags = tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "32"))
	_, err = Initialize(probe, flags, Options{VectorLength: vl})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support SVE vector length for MaxVectorSize: 32")
}

func TestSVEMaxVectorSizeTooSmall(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0, hwcaps.FeatureSVE)
	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "8"))
	result, err := Initialize(probe, flags, Options{VectorLength: &fakeVL{current: 64}})
	require.NoError(t, err)
	// SVE is disabled and the NEON path accepts 8
	assert.Equal(t, int64(0), flags.Int(tuneflags.UseSVE))
	assert.Equal(t, int64(8), flags.Int(tuneflags.MaxVectorSize))
	assert.Contains(t, result.Warnings[0], "SVE does not support vector length less than")
}

func TestNEONVectorSizeBounds(t *testing.T) {
	probe := testProbe(hwcaps.VendorUnknown, 0, 0, 0)

	flags := tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "7"))
	_, err := Initialize(probe, flags, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported MaxVectorSize: 7")

	flags = tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "4"))
	_, err = Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(neonMinVectorSize), flags.Int(tuneflags.MaxVectorSize))

	flags = tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "32"))
	_, err = Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(neonMaxVectorSize), flags.Int(tuneflags.MaxVectorSize))

	flags = tuneflags.NewFlagSet()
	require.NoError(t, flags.SetUser(tuneflags.MaxVectorSize, "16"))
	_, err = Initialize(probe, flags, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(16), flags.Int(tuneflags.MaxVectorSize))
}

func TestAlignVectorFollowsUnalignedPolicy(t *testing.T) {
	probe := testProbe(hwcaps.VendorHiSilicon, 0xd01, 0, 0)
	flags := tuneflags.NewFlagSet()
	_, err := Initialize(probe, flags, Options{})
	require.NoError(t, err)
	// TSV110 avoids unaligned accesses, so vectors get aligned
	assert.True(t, flags.Bool(tuneflags.AvoidUnalignedAccesses))
	assert.True(t, flags.Bool(tuneflags.AlignVector))
	assert.True(t, flags.Bool(tuneflags.UseMultiplyToLenIntrinsic))
	assert.True(t, flags.Bool(tuneflags.OptoScheduling))
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []int64{1, 2, 4, 8, 16, 256, 1 << 40} {
		assert.True(t, isPowerOfTwo(v), "%d", v)
	}
	for _, v := range []int64{0, -1, -8, 3, 6, 48, 100} {
		assert.False(t, isPowerOfTwo(v), "%d", v)
	}
}
