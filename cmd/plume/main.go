package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/plumehq/plume/internal/app"
	"github.com/plumehq/plume/internal/common"
)

func main() {
	configPath := flag.String("config", "", "path to a plume.toml config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(common.GetFullVersion())
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := common.InitLogger(cfg)
	common.PrintBanner(common.GetVersion())

	application, err := app.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("Server exited with error")
		}
	}

	cancel()
	if err := application.Stop(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
		os.Exit(1)
	}
}

// loadConfig resolves the config file: an explicit -config path wins, then
// plume.toml next to the executable, then plume.toml in the working
// directory. No file at all runs on defaults plus environment overrides.
func loadConfig(explicit string) (*common.Config, error) {
	if explicit != "" {
		return common.LoadFromFiles(explicit)
	}

	var paths []string
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), "plume.toml")
		if _, err := os.Stat(candidate); err == nil {
			paths = append(paths, candidate)
		}
	}
	if _, err := os.Stat("plume.toml"); err == nil {
		paths = append(paths, "plume.toml")
	}
	return common.LoadFromFiles(paths...)
}
