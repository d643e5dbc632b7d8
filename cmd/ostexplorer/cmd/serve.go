package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/varunsharma/ostexplorer/internal/api"
	"github.com/varunsharma/ostexplorer/internal/pst"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the archive parse service",
	Long: `Run the HTTP service that parses OST archives and answers email
queries.

The service holds the most recently parsed archive in memory and exposes:
  POST /api/upload-ost        upload an archive for parsing
  POST /api/browse-file       parse an archive at a server-local path
  POST /api/search-emails     filter the loaded set by date range
  GET  /api/load-sample-data  load a small demonstration dataset

Use Ctrl+C to stop the service gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	parser := pst.NewParser(logger)
	server := api.NewServer(cfg, parser, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	bindAddr := cfg.Server.BindAddr
	if bindAddr == "" {
		bindAddr = "127.0.0.1"
	}
	fmt.Printf("ostexplorer parse service started\n")
	fmt.Printf("  API server: http://%s\n", net.JoinHostPort(bindAddr, strconv.Itoa(cfg.Server.APIPort)))
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop.")

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	case err := <-serverErr:
		logger.Error("API server error", "error", err)
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", "error", err)
	}
	fmt.Println("Shutdown complete.")

	return nil
}
