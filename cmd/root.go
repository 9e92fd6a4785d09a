// Package cmd provides the command line interface for the application.
package cmd

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cputune/cmd/export"
	"cputune/cmd/report"
	"cputune/cmd/tune"
	"cputune/internal/common"
	"cputune/internal/util"
)

var gLogFile *os.File
var gVersion = "9.9.9" // overwritten by ldflags in Makefile

// LongAppName is the name of the application
const LongAppName = "Cputune"

var examples = []string{
	fmt.Sprintf("  Reconcile tuning flags for this machine:      $ %s tune", common.AppName),
	fmt.Sprintf("  Apply explicit flag settings:                 $ %s tune --set UseSVE=2 --set MaxVectorSize=32", common.AppName),
	fmt.Sprintf("  Probe CPU identity and features:              $ %s report", common.AppName),
	fmt.Sprintf("  Serve probed state as Prometheus metrics:     $ %s export --listen :9301", common.AppName),
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               common.AppName,
	Short:             common.AppName,
	Long:              fmt.Sprintf(`%s (%s) probes CPU capabilities on Linux/aarch64 systems and reconciles runtime tuning flags against them.`, LongAppName, common.AppName),
	Example:           strings.Join(examples, "\n"),
	PersistentPreRunE: initializeApplication, // will only be run if command has a 'Run' function
	Version:           gVersion,
}

var (
	// logging
	flagDebug     bool
	flagSyslog    bool
	flagLogStdOut bool
	// output
	flagOutputDir string
)

const (
	flagDebugName     = "debug"
	flagSyslogName    = "syslog"
	flagLogStdOutName = "log-stdout"
	flagOutputDirName = "output"
)

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{}) // block the help command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.AddGroup([]*cobra.Group{{ID: "primary", Title: "Commands:"}}...)
	rootCmd.AddCommand(tune.Cmd)
	rootCmd.AddCommand(report.Cmd)
	rootCmd.AddCommand(export.Cmd)
	// Global (persistent) flags
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagSyslog, flagSyslogName, false, "write logs to syslog instead of a file")
	rootCmd.PersistentFlags().BoolVar(&flagLogStdOut, flagLogStdOutName, false, "write logs to stdout")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, flagOutputDirName, "", "override the output directory")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.EnableCommandSorting = false
	cobra.EnableCaseInsensitive = true
	err := rootCmd.Execute()
	if gLogFile != nil {
		gLogFile.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	timestamp := time.Now().Local().Format("2006-01-02_15-04-05") // app startup time
	// verify requested output directory exists or derive one from the app name
	var outputDir string
	if flagOutputDir != "" {
		var err error
		outputDir, err = util.AbsPath(flagOutputDir)
		if err != nil {
			return fmt.Errorf("failed to expand output dir: %v", err)
		}
		exists, err := util.DirectoryExists(outputDir)
		if err != nil {
			return fmt.Errorf("failed to determine if output dir exists: %v", err)
		}
		if !exists {
			return fmt.Errorf("requested output dir, %s, does not exist", outputDir)
		}
	} else {
		// output dir path is app name + timestamp (don't create the directory)
		var err error
		outputDir, err = util.AbsPath(common.AppName + "_" + timestamp)
		if err != nil {
			return fmt.Errorf("failed to expand output dir: %v", err)
		}
	}
	// configure logging
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
		logOpts.AddSource = false
	}
	if flagSyslog && flagLogStdOut {
		return fmt.Errorf("both syslog handler and stdout output specified, please pick one only")
	} else if flagSyslog { // log to syslog
		handler, err := NewSyslogHandler(&logOpts)
		if err != nil {
			return fmt.Errorf("failed to create syslog handler: %v", err)
		}
		slog.SetDefault(slog.New(handler))
	} else if flagLogStdOut {
		handler := slog.NewJSONHandler(os.Stdout, &logOpts)
		slog.SetDefault(slog.New(handler))
	} else { // log to file in current directory
		var err error
		gLogFile, err = os.OpenFile(common.AppName+".log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644) // #nosec G302
		if err != nil {
			return fmt.Errorf("failed to open log file: %v", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(gLogFile, &logOpts)))
	}
	slog.Info("Starting up", slog.String("app", common.AppName), slog.String("version", gVersion), slog.Int("PID", os.Getpid()), slog.String("arguments", strings.Join(os.Args, " ")))
	cmd.Flags().Visit(func(f *pflag.Flag) {
		slog.Info("command flag", slog.String("name", f.Name), slog.String("value", f.Value.String()))
	})
	var logFilePath string
	if gLogFile != nil {
		logFilePath = gLogFile.Name()
	}
	// set app context
	cmd.Parent().SetContext(
		context.WithValue(
			context.Background(),
			common.AppContext{},
			common.AppContext{
				Timestamp:   timestamp,
				OutputDir:   outputDir,
				LogFilePath: logFilePath,
				Version:     gVersion,
				Debug:       flagDebug},
		),
	)
	return nil
}
