// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TechBuddy Contributors

package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/techbuddy-dev/techbuddy/internal/config"
	tberr "github.com/techbuddy-dev/techbuddy/pkg/errors"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the techbuddy gateway",
		Long:  "Load configuration, initialize all subsystems, and start the HTTP server.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override listen address (host:port)")
	_ = viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	setupLogging(viper.GetBool("verbose"))

	gw, err := WireGateway(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting techbuddy gateway",
		"listen", cfg.Server.Listen,
		"model", cfg.Model.Name,
		"session_ttl", cfg.Sessions.TTL,
	)

	if err := gw.Run(ctx); err != nil {
		return tberr.Wrapf(err, tberr.CodeServerStartFailure, "running gateway")
	}

	slog.Info("techbuddy gateway stopped")
	return nil
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
