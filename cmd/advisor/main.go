// Command advisor runs the wealth-advisory assistant.
//
// Usage:
//
//	advisor serve --config advisor.yaml
//	advisor ask "show me customer 123's holdings"
//	advisor version
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/alecthomas/kong"

	"github.com/intelliwealth/advisor/pkg/config"
	"github.com/intelliwealth/advisor/pkg/logger"
)

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP server."`
	Ask     AskCmd     `cmd:"" help:"Answer a single question and exit."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error). Overrides config."`
	LogFile   string `help:"Log file path (empty = stderr). Overrides config."`
	LogFormat string `help:"Log format (text, json). Overrides config."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("advisor version %s\n", version)
	return nil
}

// loadConfig reads the config file and applies CLI logging overrides.
func loadConfig(cli *CLI) (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	if cli.LogFile != "" {
		cfg.Logging.File = cli.LogFile
	}
	if cli.LogFormat != "" {
		cfg.Logging.Format = cli.LogFormat
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) (func() error, error) {
	return logger.Setup(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
}

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("advisor"),
		kong.Description("Wealth-advisory assistant: portfolio data, market intelligence, strategist research."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
