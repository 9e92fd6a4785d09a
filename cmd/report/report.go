// Package report is a subcommand of the root command. It reports the probed
// CPU identity, instruction set extensions, and cache geometry without
// reconciling tuning flags.
package report

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"cputune/internal/common"
	"cputune/internal/hwcaps"
	"cputune/internal/report"
	"cputune/internal/virt"
)

const cmdName = "report"

var examples = []string{
	fmt.Sprintf("  Probe the local CPU:           $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Render json and xlsx reports:  $ %s %s --format json,xlsx", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Report probed CPU identity and capabilities",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var flagFormat []string

const flagFormatName = "format"

func init() {
	Cmd.Flags().StringSliceVar(&flagFormat, flagFormatName, []string{report.FormatTxt}, fmt.Sprintf("report format, one or more of: %s", strings.Join(report.FormatOptions, ", ")))
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range flagFormat {
		if !slices.Contains(report.FormatOptions, format) {
			return fmt.Errorf("format options are %s", strings.Join(report.FormatOptions, ", "))
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appCtx := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)

	probe := hwcaps.ProbeSystem()
	featuresString := hwcaps.FeaturesString(probe.Identity, probe.Features)
	tables := []report.TableValues{
		common.IdentityTable(probe.Identity, featuresString, virt.Detect()),
		common.FeaturesTable(probe.Features),
		common.CacheTable(probe.Cache),
	}
	paths, err := common.WriteReports(appCtx, "report", flagFormat, tables)
	if err != nil {
		return err
	}
	common.PrintSummary(tables, paths)
	return nil
}
