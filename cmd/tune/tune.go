// Package tune is a subcommand of the root command. It reconciles runtime
// tuning flags against the probed CPU and reports the result.
package tune

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"cputune/internal/common"
	"cputune/internal/hwcaps"
	"cputune/internal/report"
	"cputune/internal/tuneflags"
	"cputune/internal/tuning"
	"cputune/internal/virt"
)

const cmdName = "tune"

var examples = []string{
	fmt.Sprintf("  Reconcile with hardware defaults:      $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Apply a tuning config file:            $ %s %s --config tuning.yaml", common.AppName, cmdName),
	fmt.Sprintf("  Set individual flags:                  $ %s %s --set UseSVE=2 --set UseSHA=true", common.AppName, cmdName),
	fmt.Sprintf("  Render json and xlsx reports:          $ %s %s --format json,xlsx", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Reconcile tuning flags against probed CPU capabilities",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagConfig    string
	flagSettings  []string
	flagFormat    []string
	flagZVALength int
)

const (
	flagConfigName    = "config"
	flagSettingsName  = "set"
	flagFormatName    = "format"
	flagZVALengthName = "zva-length"
)

func init() {
	Cmd.Flags().StringVar(&flagConfig, flagConfigName, "", "path to a YAML file of explicit tuning flag settings")
	Cmd.Flags().StringArrayVar(&flagSettings, flagSettingsName, nil, "explicit tuning flag setting, name=value, may be repeated")
	Cmd.Flags().StringSliceVar(&flagFormat, flagFormatName, []string{report.FormatTxt}, fmt.Sprintf("report format, one or more of: %s", strings.Join(report.FormatOptions, ", ")))
	Cmd.Flags().IntVar(&flagZVALength, flagZVALengthName, 0, "block-zeroing granule in bytes, when known (0 disables block zeroing)")
}

func validateFlags(cmd *cobra.Command, args []string) error {
	for _, format := range flagFormat {
		if !slices.Contains(report.FormatOptions, format) {
			return fmt.Errorf("format options are %s", strings.Join(report.FormatOptions, ", "))
		}
	}
	if flagZVALength < 0 {
		return fmt.Errorf("%s must not be negative", flagZVALengthName)
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appCtx := cmd.Parent().Context().Value(common.AppContext{}).(common.AppContext)

	flags := tuneflags.NewFlagSet()
	if flagConfig != "" {
		if err := flags.LoadConfig(flagConfig); err != nil {
			return err
		}
	}
	for _, setting := range flagSettings {
		if err := flags.ApplySetting(setting); err != nil {
			return err
		}
	}

	probe := hwcaps.ProbeSystem(hwcaps.WithZVALength(flagZVALength))
	slog.Info("probed CPU", slog.String("features", hwcaps.FeaturesString(probe.Identity, probe.Features)))

	result, err := tuning.Initialize(probe, flags, tuning.Options{MapSync: runtime.GOOS == "linux"})
	if err != nil {
		slog.Error("tuning initialization failed", slog.String("error", err.Error()))
		return err
	}

	tables := []report.TableValues{
		common.IdentityTable(result.Identity, result.FeaturesString, virt.Detect()),
		common.CacheTable(result.Cache),
		common.FlagsTable(result.Flags),
		common.DerivedTable(result),
		common.WarningsTable(result.Warnings),
	}
	paths, err := common.WriteReports(appCtx, "tune", flagFormat, tables)
	if err != nil {
		return err
	}
	common.PrintSummary(tables, paths)
	return nil
}
