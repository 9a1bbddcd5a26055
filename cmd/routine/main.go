package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/nickholt/routine/internal/cli"
	"github.com/nickholt/routine/internal/errors"
	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/storage"
	"github.com/nickholt/routine/internal/storage/postgres"
	"github.com/nickholt/routine/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database path, a PostgreSQL connection string (no embedded password), or 'postgres' to use the keyring-stored connection string." type:"path" default:"~/.config/routine/routine.db"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init    cli.InitCmd              `cmd:"" help:"Initialize routine storage."`
	Add     cli.ActivityAddCmd       `cmd:"" help:"Add a new activity."`
	List    cli.ActivityListCmd      `cmd:"" help:"List activities."`
	Edit    cli.ActivityEditCmd      `cmd:"" help:"Edit an activity's title, schedule, or start date."`
	Archive cli.ActivityArchiveCmd   `cmd:"" help:"Archive an activity, keeping its history."`
	Restore cli.ActivityUnarchiveCmd `cmd:"" help:"Return an archived activity to rotation."`
	Delete  cli.ActivityDeleteCmd    `cmd:"" help:"Delete an activity and all of its history."`
	Done    cli.DoneCmd              `cmd:"" help:"Record an activity as completed."`
	Skip    cli.SkipCmd              `cmd:"" help:"Record an activity as excused."`
	Miss    cli.MissCmd              `cmd:"" help:"Record an activity as not completed."`
	Day     cli.DayCmd               `cmd:"" default:"1" help:"Show a day's activities and statuses."`
	Streak  cli.StreakCmd            `cmd:"" help:"Show an activity's completion streak."`
	Scrub   cli.ScrubCmd             `cmd:"" help:"Backfill missing completion records over a date range."`
	History struct {
		Show   cli.HistoryShowCmd   `cmd:"" default:"1" help:"Show an activity's completion records."`
		Delete cli.HistoryDeleteCmd `cmd:"" help:"Delete one completion record."`
		Purge  cli.HistoryPurgeCmd  `cmd:"" help:"Delete all completion records for an activity."`
	} `cmd:"" help:"Inspect or prune completion history."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Conn   struct {
		Set   cli.ConfigSetConnectionCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Clear cli.ConfigClearConnectionCmd `cmd:"" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage the stored PostgreSQL connection string."`
}

func isPostgresConfig(cfg string) bool {
	return cfg == "postgres" ||
		strings.HasPrefix(cfg, "postgres://") ||
		strings.HasPrefix(cfg, "postgresql://")
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("routine"),
		kong.Description("Track recurring activities and their completion streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": "v0.3.0"},
	)

	var backend storage.Backend
	var configDir string

	if isPostgresConfig(CLI.Config) {
		connStr := CLI.Config
		if connStr == "postgres" {
			connStr = ""
		}
		resolved, err := postgres.ResolveConnectionString(connStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		backend = postgres.New(resolved)

		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		configDir = filepath.Join(home, ".config", "routine")
	} else {
		backend = sqlite.New(CLI.Config)
		configDir = filepath.Dir(CLI.Config)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Backend: backend,
		Debug:   CLI.Debug,
	}
	defer backend.Close()

	errors.Fatal(ctx.Run(appCtx))
}
