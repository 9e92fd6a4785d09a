package hwcaps

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// Vendor is the CPU implementer code from the main ID register.
type Vendor int

const (
	VendorUnknown   Vendor = 0x00
	VendorARM       Vendor = 0x41
	VendorBroadcom  Vendor = 0x42
	VendorCavium    Vendor = 0x43
	VendorDEC       Vendor = 0x44
	VendorFujitsu   Vendor = 0x46
	VendorHiSilicon Vendor = 0x48
	VendorNvidia    Vendor = 0x4e
	VendorAMCC      Vendor = 0x50
	VendorQualcomm  Vendor = 0x51
	VendorMarvell   Vendor = 0x56
	VendorApple     Vendor = 0x61
	VendorAmpere    Vendor = 0xc0
)

var vendorNames = map[Vendor]string{
	VendorUnknown:   "Unknown",
	VendorARM:       "ARM",
	VendorBroadcom:  "Broadcom",
	VendorCavium:    "Cavium",
	VendorDEC:       "DEC",
	VendorFujitsu:   "Fujitsu",
	VendorHiSilicon: "HiSilicon",
	VendorNvidia:    "NVIDIA",
	VendorAMCC:      "Applied Micro",
	VendorQualcomm:  "Qualcomm",
	VendorMarvell:   "Marvell",
	VendorApple:     "Apple",
	VendorAmpere:    "Ampere",
}

func (v Vendor) String() string {
	if name, ok := vendorNames[v]; ok {
		return name
	}
	return "Unknown"
}

// ProcessorIdentity is an immutable snapshot of the CPU's identification
// fields, captured once during process initialization.
type ProcessorIdentity struct {
	Vendor         Vendor
	Model          int
	ModelSecondary int // second part number on heterogeneous (big.LITTLE) systems
	Variant        int
	Revision       int
	Stepping       int
}

// ModelIs reports whether either model field matches m. Some vendors publish
// the model of interest in the secondary field on heterogeneous systems.
func (id ProcessorIdentity) ModelIs(m int) bool {
	return id.Model == m || id.ModelSecondary == m
}

// CacheGeometry holds line sizes and the optional block-zeroing granule.
// Used only to derive tuning defaults, never itself tunable.
type CacheGeometry struct {
	DCacheLineSize int
	ICacheLineSize int
	ZVALength      int // DC ZVA granule in bytes, 0 when unavailable
}

// ZVAEnabled reports whether the hardware block-zeroing instruction is
// available.
func (g CacheGeometry) ZVAEnabled() bool {
	return g.ZVALength > 0
}

// Probe is the complete result of hardware capability detection.
type Probe struct {
	Identity ProcessorIdentity
	Features FeatureSet
	Cache    CacheGeometry
}

// Option adjusts probing behavior.
type Option func(*probeConfig)

type probeConfig struct {
	zvaLength int
}

// WithZVALength supplies the DC ZVA granule in bytes. The granule lives in a
// register the kernel does not mirror into procfs or sysfs, so it cannot be
// read from files and must be provided by the caller when known.
func WithZVALength(n int) Option {
	return func(c *probeConfig) {
		c.zvaLength = n
	}
}

const (
	procCPUInfo    = "proc/cpuinfo"
	sysDCacheLine  = "sys/devices/system/cpu/cpu0/cache/index0/coherency_line_size"
	sysICacheLine  = "sys/devices/system/cpu/cpu0/cache/index1/coherency_line_size"
	fallbackDCache = 64
	fallbackICache = 64
)

// ProbeSystem captures the hardware capability snapshot from the running
// system. Must be called exactly once, before tuning flags are reconciled.
func ProbeSystem(opts ...Option) Probe {
	return ProbeAt("/", opts...)
}

// ProbeAt is ProbeSystem with the filesystem root made explicit so tests can
// point it at a captured tree. Unreadable or missing sources degrade to
// unknown vendor, zero model, and an empty feature set; probing never fails.
func ProbeAt(root string, opts ...Option) Probe {
	var cfg probeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	var p Probe
	cpuinfo, err := readSmallFile(filepath.Join(root, procCPUInfo))
	if err != nil {
		slog.Debug("cpuinfo not readable, using unknown identity", slog.String("error", err.Error()))
	} else {
		p.Identity, p.Features = ParseCPUInfo(cpuinfo)
	}
	p.Cache.DCacheLineSize = readCacheLineSize(filepath.Join(root, sysDCacheLine), fallbackDCache)
	p.Cache.ICacheLineSize = readCacheLineSize(filepath.Join(root, sysICacheLine), fallbackICache)
	p.Cache.ZVALength = cfg.zvaLength
	return p
}

var (
	reImplementer = regexp.MustCompile(`(?m)^CPU implementer\s*:\s*(\S+)\s*$`)
	reVariant     = regexp.MustCompile(`(?m)^CPU variant\s*:\s*(\S+)\s*$`)
	rePart        = regexp.MustCompile(`(?m)^CPU part\s*:\s*(\S+)\s*$`)
	reRevision    = regexp.MustCompile(`(?m)^CPU revision\s*:\s*(\S+)\s*$`)
	reFeatures    = regexp.MustCompile(`(?m)^Features\s*:\s*(.*)$`)
)

// ParseCPUInfo extracts the processor identity and feature set from
// /proc/cpuinfo content. Identity fields come from the first processor
// entry; when a second distinct part number appears (heterogeneous systems)
// it is recorded as the secondary model.
func ParseCPUInfo(content string) (ProcessorIdentity, FeatureSet) {
	var id ProcessorIdentity
	id.Vendor = Vendor(firstHexField(reImplementer, content))
	if _, ok := vendorNames[id.Vendor]; !ok {
		id.Vendor = VendorUnknown
	}
	id.Variant = firstHexField(reVariant, content)
	id.Revision = firstHexField(reRevision, content)

	parts := rePart.FindAllStringSubmatch(content, -1)
	if len(parts) > 0 {
		id.Model = parseHex(parts[0][1])
		for _, m := range parts[1:] {
			if part := parseHex(m[1]); part != id.Model {
				id.ModelSecondary = part
				break
			}
		}
	}

	var fs FeatureSet
	if m := reFeatures.FindStringSubmatch(content); m != nil {
		fs = parseFeatureTokens(strings.Fields(m[1]))
	}
	return id, fs
}

func parseFeatureTokens(tokens []string) FeatureSet {
	var fs FeatureSet
	present := mapset.NewSet[string](tokens...)
	known := mapset.NewSetFromMapKeys(hwcapTokens)
	for token := range present.Iter() {
		if f, ok := hwcapTokens[token]; ok {
			fs = fs.Add(f)
		}
	}
	unknown := present.Difference(known)
	if unknown.Cardinality() > 0 {
		tokens := unknown.ToSlice()
		sort.Strings(tokens)
		slog.Debug("unrecognized feature tokens", slog.String("tokens", strings.Join(tokens, " ")))
	}
	return fs
}

func firstHexField(re *regexp.Regexp, content string) int {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return 0
	}
	return parseHex(m[1])
}

func parseHex(s string) int {
	v, err := strconv.ParseInt(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	if err != nil {
		return 0
	}
	return int(v)
}

func readCacheLineSize(path string, fallback int) int {
	content, err := readSmallFile(path)
	if err != nil {
		slog.Debug("cache line size not readable, using fallback", slog.String("path", path), slog.Int("fallback", fallback))
		return fallback
	}
	size, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil || size <= 0 {
		slog.Debug("cache line size malformed, using fallback", slog.String("path", path), slog.String("content", content))
		return fallback
	}
	return size
}

func readSmallFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}
	return string(content), nil
}
