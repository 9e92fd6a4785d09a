// Package export is a subcommand of the root command. It serves the probed
// CPU state and reconciled tuning flags as Prometheus metrics.
package export

// Copyright (C) 2026 Cputune Authors
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"cputune/internal/common"
	"cputune/internal/hwcaps"
	"cputune/internal/tuneflags"
	"cputune/internal/tuning"
	"cputune/internal/virt"
)

const cmdName = "export"

var examples = []string{
	fmt.Sprintf("  Serve metrics on the default port:  $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Serve on a specific address:        $ %s %s --listen 0.0.0.0:9301", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Serve probed CPU state as Prometheus metrics",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var (
	flagListen string
	flagConfig string
)

const (
	flagListenName = "listen"
	flagConfigName = "config"
)

const promMetricPrefix = "cputune_"

var (
	featureGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "cpu_feature",
			Help: "Detected instruction set extensions (1 when present)",
		},
		[]string{"name"},
	)
	flagGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "tuning_flag",
			Help: "Reconciled numeric and boolean tuning flag values",
		},
		[]string{"name", "origin"},
	)
	flagInfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "tuning_flag_info",
			Help: "Reconciled string tuning flag values (always 1, value in label)",
		},
		[]string{"name", "value", "origin"},
	)
	identityGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: promMetricPrefix + "cpu_info",
			Help: "Probed CPU identity (always 1, fields in labels)",
		},
		[]string{"vendor", "model", "variant", "revision", "virtualization"},
	)
)

func init() {
	Cmd.Flags().StringVar(&flagListen, flagListenName, ":9301", "address to serve metrics on")
	Cmd.Flags().StringVar(&flagConfig, flagConfigName, "", "path to a YAML file of explicit tuning flag settings")
}

func runCmd(cmd *cobra.Command, args []string) error {
	flags := tuneflags.NewFlagSet()
	if flagConfig != "" {
		if err := flags.LoadConfig(flagConfig); err != nil {
			return err
		}
	}
	probe := hwcaps.ProbeSystem()
	result, err := tuning.Initialize(probe, flags, tuning.Options{MapSync: runtime.GOOS == "linux"})
	if err != nil {
		slog.Error("tuning initialization failed", slog.String("error", err.Error()))
		return err
	}
	populateMetrics(result)

	prometheus.MustRegister(featureGauge, flagGauge, flagInfoGauge, identityGauge)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              flagListen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("serving metrics", slog.String("address", flagListen))
	fmt.Printf("Serving metrics at http://%s/metrics\n", flagListen)
	return server.ListenAndServe()
}

func populateMetrics(result *tuning.Result) {
	for _, name := range result.Features.Names() {
		featureGauge.WithLabelValues(name).Set(1)
	}
	result.Flags.Visit(func(f *tuneflags.Flag) {
		origin := f.Origin().String()
		switch f.Kind {
		case tuneflags.KindBool:
			value := 0.0
			if result.Flags.Bool(f.Name) {
				value = 1.0
			}
			flagGauge.WithLabelValues(f.Name, origin).Set(value)
		case tuneflags.KindInt:
			flagGauge.WithLabelValues(f.Name, origin).Set(float64(result.Flags.Int(f.Name)))
		case tuneflags.KindString:
			flagInfoGauge.WithLabelValues(f.Name, f.ValueString(), origin).Set(1)
		}
	})
	id := result.Identity
	identityGauge.WithLabelValues(
		id.Vendor.String(),
		fmt.Sprintf("0x%03x", id.Model),
		fmt.Sprintf("0x%x", id.Variant),
		fmt.Sprintf("%d", id.Revision),
		virt.Detect().String(),
	).Set(1)
}
