package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gg"

	"github.com/ironsheep/thread-pattern-mcp/internal/config"
	"github.com/ironsheep/thread-pattern-mcp/internal/pipeline"
	"github.com/ironsheep/thread-pattern-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const envLogLevel = "PATTERN_MCP_LOG_LEVEL"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("pattern-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "generate":
			logger := newLogger(os.Getenv(envLogLevel))
			if err := runGenerate(os.Args[2:], os.Stdout, logger); err != nil {
				fmt.Fprintf(os.Stderr, "pattern-mcp: %v\n", err)
				os.Exit(exitCode(err))
			}
			return
		}
	}

	// stdout is the MCP channel; logs go to stderr
	logger := newLogger(os.Getenv(envLogLevel))
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	cfg, err := loadConfig(os.Getenv(config.EnvConfig), os.LookupEnv)
	if err != nil {
		logger.Error("configuration failed", "error", err)
		os.Exit(2)
	}
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("server setup failed", "error", err)
		os.Exit(1)
	}
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("pattern-mcp - thread pattern compiler and MCP server")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pattern-mcp                 Serve MCP over stdin/stdout")
	fmt.Println("  pattern-mcp generate [flags] Compile one image into a pattern page")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  PATTERN_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println("  PATTERN_MCP_CONFIG=path        YAML configuration file")
	fmt.Println("  PATTERN_MCP_CATALOG=path       Thread catalog (JSON or YAML)")
	fmt.Println("  PATTERN_MCP_DPI=n              Page raster resolution")
	fmt.Println("  PATTERN_MCP_MAX_COLORS=n       Thread budget")
	fmt.Println()
	fmt.Println("Run 'pattern-mcp generate -h' for the generate flags.")
}

// newLogger builds the stderr logger and hands it to the libraries that log.
func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	pipeline.SetLogger(logger)
	gg.SetLogger(logger)
	return logger
}

// loadConfig reads the configuration file when path is set and overlays the
// environment.
func loadConfig(path string, lookup func(string) (string, bool)) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// exitCode maps failures onto distinct process exit codes.
func exitCode(err error) int {
	if errors.Is(err, config.ErrInvalid) || errors.Is(err, errUsage) {
		return 2
	}
	switch pipeline.Classify(err) {
	case pipeline.KindConfig:
		return 2
	case pipeline.KindDataCorruption:
		return 3
	case pipeline.KindInfeasibleRequest:
		return 4
	case pipeline.KindConsistency:
		return 5
	case pipeline.KindGeometry:
		return 6
	default:
		return 1
	}
}
