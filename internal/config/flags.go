package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/cozy-creator/hubuser/internal/common"
	"github.com/cozy-creator/hubuser/internal/flagx"
)

var (
	flagNames     = []string{"hub-url", "db-url", "timeout", "log-level", "log-format", "log-backend"}
	boolFlagNames = []string{"migrate"}
)

// parseFlags populates Config fields from the flags in args that belong to
// it; the remaining arguments are left for the CLI.
//
// Giving -hub-url selects remote mode and -db-url selects direct mode.
// Giving both is a usage error.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.HubURL, "hub-url", cfg.HubURL, "Hub API URL")
	fs.StringVar(&cfg.DatabaseDSN, "db-url", cfg.DatabaseDSN, "PostgreSQL connection URL")
	fs.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "Hub request timeout")
	fs.BoolVar(&cfg.MigrateSchema, "migrate", cfg.MigrateSchema, "create the profiles schema if missing")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text, json)")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend (slog, zap)")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames, boolFlagNames...)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrUsage, err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	switch {
	case set["hub-url"] && set["db-url"]:
		return fmt.Errorf("%w: provide either --hub-url or --db-url, not both", common.ErrUsage)
	case set["hub-url"]:
		cfg.Mode = ModeRemote
	case set["db-url"]:
		cfg.Mode = ModeDirect
	}
	return nil
}
