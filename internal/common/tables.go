package common

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cputune/internal/hwcaps"
	"cputune/internal/report"
	"cputune/internal/tuneflags"
	"cputune/internal/tuning"
	"cputune/internal/virt"
)

// IdentityTable summarizes the probed processor identity.
func IdentityTable(id hwcaps.ProcessorIdentity, featuresString string, v virt.State) report.TableValues {
	secondary := ""
	if id.ModelSecondary != 0 {
		secondary = fmt.Sprintf("0x%03x", id.ModelSecondary)
	}
	return report.TableValues{
		Name: "CPU Identity",
		Fields: []report.Field{
			{Name: "Vendor", Values: []string{fmt.Sprintf("%s (0x%02x)", id.Vendor, int(id.Vendor))}},
			{Name: "Model", Values: []string{fmt.Sprintf("0x%03x", id.Model)}},
			{Name: "Secondary Model", Values: []string{secondary}},
			{Name: "Variant", Values: []string{fmt.Sprintf("0x%x", id.Variant)}},
			{Name: "Revision", Values: []string{strconv.Itoa(id.Revision)}},
			{Name: "Features", Values: []string{featuresString}},
			{Name: "Virtualization", Values: []string{v.String()}},
		},
	}
}

// FeaturesTable lists every detected instruction-set extension.
func FeaturesTable(fs hwcaps.FeatureSet) report.TableValues {
	return report.TableValues{
		Name:    "Instruction Set Extensions",
		Fields:  []report.Field{{Name: "Extension", Values: fs.Names()}},
		HasRows: true,
	}
}

// CacheTable summarizes the probed cache geometry.
func CacheTable(g hwcaps.CacheGeometry) report.TableValues {
	p := message.NewPrinter(language.English) // use printer to get commas at thousands
	zva := "not available"
	if g.ZVAEnabled() {
		zva = p.Sprintf("%d B", g.ZVALength)
	}
	return report.TableValues{
		Name: "Cache Geometry",
		Fields: []report.Field{
			{Name: "Data Cache Line", Values: []string{p.Sprintf("%d B", g.DCacheLineSize)}},
			{Name: "Instruction Cache Line", Values: []string{p.Sprintf("%d B", g.ICacheLineSize)}},
			{Name: "Block Zeroing Granule", Values: []string{zva}},
		},
	}
}

// FlagsTable lists every tuning flag with its reconciled value and origin.
func FlagsTable(fs *tuneflags.FlagSet) report.TableValues {
	var names, values, origins, descriptions []string
	fs.Visit(func(f *tuneflags.Flag) {
		names = append(names, f.Name)
		values = append(values, f.ValueString())
		origins = append(origins, f.Origin().String())
		descriptions = append(descriptions, f.Help)
	})
	return report.TableValues{
		Name: "Tuning Flags",
		Fields: []report.Field{
			{Name: "Flag", Values: names},
			{Name: "Value", Values: values},
			{Name: "Origin", Values: origins},
			{Name: "Description", Values: descriptions},
		},
		HasRows: true,
	}
}

// WarningsTable lists the corrections made during reconciliation.
func WarningsTable(warnings []string) report.TableValues {
	return report.TableValues{
		Name:    "Warnings",
		Fields:  []report.Field{{Name: "Warning", Values: warnings}},
		HasRows: true,
	}
}

// DerivedTable summarizes values computed during reconciliation that are
// not tuning flags themselves.
func DerivedTable(result *tuning.Result) report.TableValues {
	p := message.NewPrinter(language.English)
	flush := "disabled"
	if result.DataCacheLineFlushSize > 0 {
		flush = p.Sprintf("%d B", result.DataCacheLineFlushSize)
	}
	sve := "n/a"
	if result.SVEVectorLength > 0 {
		sve = p.Sprintf("%d B", result.SVEVectorLength)
	}
	return report.TableValues{
		Name: "Derived Values",
		Fields: []report.Field{
			{Name: "Spin-Wait Instruction", Values: []string{result.SpinWait.Inst.String()}},
			{Name: "Spin-Wait Count", Values: []string{strconv.FormatInt(result.SpinWait.Count, 10)}},
			{Name: "SVE Vector Length", Values: []string{sve}},
			{Name: "Cache Line Flush Size", Values: []string{flush}},
		},
	}
}
