// Package hwcaps probes the CPU's identity, instruction-set extensions, and
// cache geometry on Linux/aarch64 systems. The probed state is captured once
// at startup and treated as read-only afterward.
package hwcaps

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"
)

// Feature identifies one instruction-set extension.
type Feature int

// Feature enumeration. The declared order is the order features appear in
// the diagnostics string produced by FeaturesString.
const (
	FeatureFP Feature = iota
	FeatureASIMD
	FeatureEVTSTRM
	FeatureAES
	FeaturePMULL
	FeatureSHA1
	FeatureSHA2
	FeatureCRC32
	FeatureLSE
	FeatureDCPOP
	FeatureSHA3
	FeatureSHA512
	FeatureSVE
	FeatureSVE2
	FeatureSTXRPrefetch
	FeatureA53MAC
	numFeatures
)

// featureNames maps each Feature to the short name used in diagnostics
// output. Indexed by Feature value.
var featureNames = [numFeatures]string{
	"fp",
	"simd",
	"evtstrm",
	"aes",
	"pmull",
	"sha1",
	"sha256",
	"crc",
	"lse",
	"dcpop",
	"sha3",
	"sha512",
	"sve",
	"sve2",
	"stxr_prefetch",
	"a53mac",
}

// hwcapTokens maps tokens from the Features line of /proc/cpuinfo to
// features. Tokens not listed here are ignored by the prober.
var hwcapTokens = map[string]Feature{
	"fp":      FeatureFP,
	"asimd":   FeatureASIMD,
	"evtstrm": FeatureEVTSTRM,
	"aes":     FeatureAES,
	"pmull":   FeaturePMULL,
	"sha1":    FeatureSHA1,
	"sha2":    FeatureSHA2,
	"crc32":   FeatureCRC32,
	"atomics": FeatureLSE,
	"dcpop":   FeatureDCPOP,
	"sha3":    FeatureSHA3,
	"sha512":  FeatureSHA512,
	"sve":     FeatureSVE,
	"sve2":    FeatureSVE2,
}

// FeatureByName resolves a short feature name back to its Feature value.
func FeatureByName(name string) (Feature, bool) {
	for f := Feature(0); f < numFeatures; f++ {
		if featureNames[f] == name {
			return f, true
		}
	}
	return 0, false
}

func (f Feature) String() string {
	if f < 0 || f >= numFeatures {
		return fmt.Sprintf("feature(%d)", int(f))
	}
	return featureNames[f]
}

// FeatureSet is a bitset over the Feature enumeration. Bits are set only for
// extensions the prober actually detected, never speculatively.
type FeatureSet uint64

// Has reports whether feature f is present.
func (fs FeatureSet) Has(f Feature) bool {
	return fs&(1<<uint(f)) != 0
}

// HasAny reports whether any of the given features are present.
func (fs FeatureSet) HasAny(features ...Feature) bool {
	for _, f := range features {
		if fs.Has(f) {
			return true
		}
	}
	return false
}

// Add returns a copy of the set with feature f set.
func (fs FeatureSet) Add(f Feature) FeatureSet {
	return fs | (1 << uint(f))
}

// Names returns the short names of all set features in declared enumeration
// order.
func (fs FeatureSet) Names() []string {
	var names []string
	for f := Feature(0); f < numFeatures; f++ {
		if fs.Has(f) {
			names = append(names, featureNames[f])
		}
	}
	return names
}

// FeaturesString renders the processor identity and feature set as a single
// diagnostics line, e.g. "0x41:0x0:0xd0c:1, fp, simd, aes, crc". The format
// is stable: hex vendor/variant/model/revision, the secondary model in
// parentheses when present, then the set features in enumeration order.
func FeaturesString(id ProcessorIdentity, fs FeatureSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "0x%02x:0x%x:0x%03x:%d", int(id.Vendor), id.Variant, id.Model, id.Revision)
	if id.ModelSecondary != 0 {
		fmt.Fprintf(&sb, "(0x%03x)", id.ModelSecondary)
	}
	for _, name := range fs.Names() {
		sb.WriteString(", ")
		sb.WriteString(name)
	}
	return sb.String()
}
