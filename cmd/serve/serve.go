// Package serve is a subcommand of the root command. It serves the interactive dashboard over HTTP.
package serve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jmdash/internal/app"
	"jmdash/internal/dashboard"
	"jmdash/internal/workflow"
)

const cmdName = "serve"

var examples = []string{
	fmt.Sprintf("  Serve the bundled sample:    $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  Serve a snapshot:            $ %s %s --input results.json", app.Name, cmdName),
	fmt.Sprintf("  Listen on all interfaces:    $ %s %s --input results.json --listen :9090", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Serve the interactive dashboard and its Prometheus metrics",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

const (
	flagListenName  = "listen"
	shutdownTimeout = 5 * time.Second
)

var (
	flagListen    string
	dashboardArgs workflow.DashboardFlags
)

func init() {
	dashboardArgs.Add(Cmd)
	Cmd.Flags().StringVar(&flagListen, flagListenName, "localhost:8080", "address to listen on")
	for _, group := range dashboardArgs.FlagGroups() {
		for _, flag := range group.Flags {
			Cmd.Flags().Lookup(flag.Name).Usage = flag.Help
		}
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	cfg, _, err := dashboardArgs.Config(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cmd.SilenceUsage = true
		return err
	}
	snapshot, err := dashboard.Load(dashboardArgs.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	listener, err := net.Listen("tcp", flagListen)
	if err != nil {
		err = fmt.Errorf("failed to listen on %s: %w", flagListen, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		slog.Error(err.Error())
		cmd.SilenceUsage = true
		return err
	}
	// catch signals to allow for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	fmt.Printf("Serving dashboard at http://%s/ (metrics at /metrics), press Ctrl+C to stop\n", listener.Addr())
	return serve(ctx, listener, newDashboardServer(snapshot, cfg))
}

// serve handles requests on the listener until the context is done, then shuts the server down
func serve(ctx context.Context, listener net.Listener, s *dashboardServer) error {
	server := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 3 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Starting dashboard server", slog.String("address", listener.Addr().String()))
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	select {
	case err := <-serveErr:
		if err != nil {
			slog.Error("dashboard server error", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutting down dashboard server")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("dashboard server shutdown error", slog.String("error", err.Error()))
		return err
	}
	return nil
}
