package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/goban-reader/internal/config"
	"github.com/ironsheep/goban-reader/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// logLevelEnv switches the stderr logger to debug level.
const logLevelEnv = "GOBAN_READER_LOG_LEVEL"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("goban-reader %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		case "read":
			os.Exit(runRead(os.Args[2:], os.Stdout, os.Stderr))
		}
	}

	// stdout is for MCP protocol
	logger, err := newLogger(envLevel())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Debug("starting goban-reader MCP server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	if Version != "dev" {
		server.Version = Version
	}
	srv := server.New(server.WithLogger(logger), server.WithConfig(config.Default()))
	if err := srv.Run(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func printUsage() {
	fmt.Println("goban-reader - reads Go board photographs")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  goban-reader [options]             Run the MCP server on stdin/stdout")
	fmt.Println("  goban-reader read [flags] PATH...  Read photographs and print JSON results")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Read flags:")
	fmt.Println("  --config FILE         Tuning file (YAML, JSON or TOML)")
	fmt.Println("  --corners x,y,...     Four board corners, clockwise from top-left")
	fmt.Println("  --diagnostics DIR     Write per-stage images and stats.jsonl to DIR")
	fmt.Println("  --diagram             Print a text diagram after each result")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Enable debug logging\n", logLevelEnv)
	fmt.Println()
	fmt.Println("The server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

// newLogger builds a JSON logger on stderr, at debug level when level is
// "debug" and info otherwise.
func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if level == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func envLevel() string {
	return os.Getenv(logLevelEnv)
}
