package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/teilomillet/tavita/config"
	"github.com/teilomillet/tavita/errors"
	"github.com/teilomillet/tavita/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tavita: %v\n", err)
		os.Exit(1)
	}
}

// run parses flags, loads configuration and serves until ctx is cancelled.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("tavita", flag.ContinueOnError)
	configFile := fs.String("config", "tavita.yaml", "Path to configuration file (optional)")
	envFile := fs.String("env", ".env", "Path to a .env file (optional)")
	validate := fs.Bool("validate", false, "Validate configuration and exit")
	version := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version {
		fmt.Fprintf(stdout, "tavita %s\n", server.Version)
		return nil
	}

	loaded, err := config.LoadDotEnv(*envFile)
	if err != nil {
		return fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.LoadFile(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *validate {
		fmt.Fprintln(stdout, "Configuration is valid")
		return nil
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		// Sync fails on stdout/stderr on some platforms; nothing to do about it.
		_ = logger.Sync()
	}()
	errors.SetLogger(logger)

	logger.Info("Configuration loaded",
		zap.String("config_file", *configFile),
		zap.Strings("env_files", loaded),
		zap.String("backend", cfg.LLM.Backend),
		zap.Strings("models", cfg.LLM.Models),
		zap.Bool("llm_credentials", cfg.HasLLMCredentials()),
		zap.Bool("messenger_credentials", cfg.HasMessengerCredentials()),
	)

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	if err := srv.Start(ctx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// newLogger builds the process logger: JSON production output or
// human-readable development output, at the configured level.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.Format == "text" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
