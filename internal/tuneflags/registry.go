package tuneflags

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

// Flag names. Referencing flags through these constants keeps typos out of
// the tuning rules.
const (
	UseCRC32                       = "UseCRC32"
	UseCRC32Intrinsics             = "UseCRC32Intrinsics"
	UseCRC32CIntrinsics            = "UseCRC32CIntrinsics"
	UseAdler32Intrinsics           = "UseAdler32Intrinsics"
	UseVectorizedMismatchIntrinsic = "UseVectorizedMismatchIntrinsic"
	UseLSE                         = "UseLSE"
	UseAES                         = "UseAES"
	UseAESIntrinsics               = "UseAESIntrinsics"
	UseAESCTRIntrinsics            = "UseAESCTRIntrinsics"
	UseFMA                         = "UseFMA"
	UseMD5Intrinsics               = "UseMD5Intrinsics"
	UseSHA                         = "UseSHA"
	UseSHA1Intrinsics              = "UseSHA1Intrinsics"
	UseSHA256Intrinsics            = "UseSHA256Intrinsics"
	UseSHA3Intrinsics              = "UseSHA3Intrinsics"
	UseSHA512Intrinsics            = "UseSHA512Intrinsics"
	UseGHASHIntrinsics             = "UseGHASHIntrinsics"
	UseBASE64Intrinsics            = "UseBASE64Intrinsics"
	UseBlockZeroing                = "UseBlockZeroing"
	BlockZeroingLowLimit           = "BlockZeroingLowLimit"
	UseSIMDForMemoryOps            = "UseSIMDForMemoryOps"
	UseSIMDForArrayEquals          = "UseSIMDForArrayEquals"
	UseSimpleArrayEquals           = "UseSimpleArrayEquals"
	UseSignumIntrinsic             = "UseSignumIntrinsic"
	AvoidUnalignedAccesses         = "AvoidUnalignedAccesses"
	UseUnalignedAccesses           = "UseUnalignedAccesses"
	UsePopCountInstruction         = "UsePopCountInstruction"
	UseMultiplyToLenIntrinsic      = "UseMultiplyToLenIntrinsic"
	UseSquareToLenIntrinsic        = "UseSquareToLenIntrinsic"
	UseMulAddIntrinsic             = "UseMulAddIntrinsic"
	UseMontgomeryMultiplyIntrinsic = "UseMontgomeryMultiplyIntrinsic"
	UseMontgomerySquareIntrinsic   = "UseMontgomerySquareIntrinsic"
	OptoScheduling                 = "OptoScheduling"
	AlignVector                    = "AlignVector"
	UseSVE                         = "UseSVE"
	MaxVectorSize                  = "MaxVectorSize"
	AllocatePrefetchDistance       = "AllocatePrefetchDistance"
	AllocatePrefetchStepSize       = "AllocatePrefetchStepSize"
	PrefetchScanIntervalInBytes    = "PrefetchScanIntervalInBytes"
	PrefetchCopyIntervalInBytes    = "PrefetchCopyIntervalInBytes"
	SoftwarePrefetchHintDistance   = "SoftwarePrefetchHintDistance"
	ContendedPaddingWidth          = "ContendedPaddingWidth"
	OnSpinWaitInst                 = "OnSpinWaitInst"
	OnSpinWaitInstCount            = "OnSpinWaitInstCount"
)

type flagDefinition struct {
	name         string
	kind         Kind
	boolDefault  bool
	intDefault   int64
	strDefault   string
	help         string
}

func boolFlag(name string, def bool, help string) flagDefinition {
	return flagDefinition{name: name, kind: KindBool, boolDefault: def, help: help}
}

func intFlag(name string, def int64, help string) flagDefinition {
	return flagDefinition{name: name, kind: KindInt, intDefault: def, help: help}
}

func strFlag(name string, def string, help string) flagDefinition {
	return flagDefinition{name: name, kind: KindString, strDefault: def, help: help}
}

// definitions lists every tuning flag with its declared default. Declared
// defaults are placeholders until reconciliation applies hardware-derived
// values.
var definitions = []flagDefinition{
	boolFlag(UseCRC32, false, "use CRC32 instructions for CRC32 computation"),
	boolFlag(UseCRC32Intrinsics, false, "use intrinsics for java.util.zip.CRC32"),
	boolFlag(UseCRC32CIntrinsics, false, "use intrinsics for CRC32C computation"),
	boolFlag(UseAdler32Intrinsics, false, "use intrinsics for java.util.zip.Adler32"),
	boolFlag(UseVectorizedMismatchIntrinsic, false, "use vectorized mismatch intrinsic"),
	boolFlag(UseLSE, false, "use large system extensions for atomic operations"),
	boolFlag(UseAES, false, "use AES instructions"),
	boolFlag(UseAESIntrinsics, false, "use intrinsics for AES encrypt and decrypt"),
	boolFlag(UseAESCTRIntrinsics, false, "use intrinsics for AES/CTR crypto operations"),
	boolFlag(UseFMA, false, "use fused multiply-add instructions"),
	boolFlag(UseMD5Intrinsics, false, "use intrinsics for MD5 hashing"),
	boolFlag(UseSHA, false, "use SHA instruction family"),
	boolFlag(UseSHA1Intrinsics, false, "use intrinsics for SHA-1 hashing"),
	boolFlag(UseSHA256Intrinsics, false, "use intrinsics for SHA-224 and SHA-256 hashing"),
	boolFlag(UseSHA3Intrinsics, false, "use intrinsics for SHA3 hashing"),
	boolFlag(UseSHA512Intrinsics, false, "use intrinsics for SHA-384 and SHA-512 hashing"),
	boolFlag(UseGHASHIntrinsics, false, "use intrinsics for GHASH computation"),
	boolFlag(UseBASE64Intrinsics, false, "use intrinsics for Base64 coding"),
	boolFlag(UseBlockZeroing, false, "use hardware block zeroing"),
	intFlag(BlockZeroingLowLimit, 256, "minimum size in bytes for block zeroing"),
	boolFlag(UseSIMDForMemoryOps, false, "use SIMD instructions for memory copy and fill"),
	boolFlag(UseSIMDForArrayEquals, true, "use SIMD instructions for array equality checks"),
	boolFlag(UseSimpleArrayEquals, false, "use short looping variant of array equality checks"),
	boolFlag(UseSignumIntrinsic, false, "use intrinsic for Math.signum"),
	boolFlag(AvoidUnalignedAccesses, false, "avoid generating unaligned memory accesses"),
	boolFlag(UseUnalignedAccesses, false, "allow unaligned memory accesses in runtime helpers"),
	boolFlag(UsePopCountInstruction, false, "use population count instruction"),
	boolFlag(UseMultiplyToLenIntrinsic, false, "use intrinsic for BigInteger multiplyToLen"),
	boolFlag(UseSquareToLenIntrinsic, false, "use intrinsic for BigInteger squareToLen"),
	boolFlag(UseMulAddIntrinsic, false, "use intrinsic for BigInteger mulAdd"),
	boolFlag(UseMontgomeryMultiplyIntrinsic, false, "use intrinsic for Montgomery multiply"),
	boolFlag(UseMontgomerySquareIntrinsic, false, "use intrinsic for Montgomery square"),
	boolFlag(OptoScheduling, false, "enable instruction scheduling in the optimizing compiler"),
	boolFlag(AlignVector, false, "align vector memory accesses"),
	intFlag(UseSVE, 0, "highest supported SVE instruction set level (0 disables SVE)"),
	intFlag(MaxVectorSize, 64, "maximum vector size in bytes for auto-vectorization"),
	intFlag(AllocatePrefetchDistance, -1, "distance in bytes to prefetch ahead of allocation pointer"),
	intFlag(AllocatePrefetchStepSize, 16, "step size in bytes for sequential allocation prefetches"),
	intFlag(PrefetchScanIntervalInBytes, -1, "prefetch distance for scanning arrays"),
	intFlag(PrefetchCopyIntervalInBytes, -1, "prefetch distance for copying arrays"),
	intFlag(SoftwarePrefetchHintDistance, -1, "distance for software prefetch hints (-1 disables)"),
	intFlag(ContendedPaddingWidth, 128, "padding bytes between contended fields"),
	strFlag(OnSpinWaitInst, "none", "instruction to emit for spin-wait hints: nop, isb, yield, or none"),
	intFlag(OnSpinWaitInstCount, 0, "number of spin-wait instructions to emit"),
}

// NewFlagSet builds the registry with every flag at its declared default in
// the unset state.
func NewFlagSet() *FlagSet {
	fs := &FlagSet{flags: make(map[string]*Flag, len(definitions))}
	for _, def := range definitions {
		f := &Flag{
			Name:        def.name,
			Kind:        def.kind,
			Help:        def.help,
			boolValue:   def.boolDefault,
			intValue:    def.intDefault,
			stringValue: def.strDefault,
			origin:      OriginUnset,
		}
		fs.flags[def.name] = f
		fs.order = append(fs.order, def.name)
	}
	return fs
}
