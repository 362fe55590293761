package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitheat/internal/bus"
	"github.com/julianstephens/habitheat/internal/cli"
	"github.com/julianstephens/habitheat/internal/cli/backups"
	"github.com/julianstephens/habitheat/internal/cli/system"
	"github.com/julianstephens/habitheat/internal/clock"
	"github.com/julianstephens/habitheat/internal/constants"
	"github.com/julianstephens/habitheat/internal/errors"
	"github.com/julianstephens/habitheat/internal/logger"
	"github.com/julianstephens/habitheat/internal/repo"
	"github.com/julianstephens/habitheat/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path." type:"string" default:"~/.config/habitheat/habitheat.db"`
	Debug   bool   `help:"Enable debug logging."`

	Init    system.InitCmd    `cmd:"" help:"Initialize habitheat storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive today view." default:"1"`
	Token   system.TokenCmd   `cmd:"" help:"Manage the app token."`
	Habit   cli.HabitCmd      `cmd:"" help:"Manage habits."`
	Mark    cli.MarkCmd       `cmd:"" help:"Mark a habit done (bumps the day's count)."`
	Unmark  cli.UnmarkCmd     `cmd:"" help:"Clear a habit's count for a day."`
	Set     cli.SetCmd        `cmd:"" help:"Set a habit's exact count for a day."`
	Today   cli.TodayCmd      `cmd:"" help:"Show today's habit status."`
	Month   cli.MonthCmd      `cmd:"" help:"Show a month heatmap for a habit."`
	Stats   cli.StatsCmd      `cmd:"" help:"Show cross-habit statistics and trends."`
	Seed    cli.SeedCmd       `cmd:"" help:"Load demo habits with generated history."`
	Backup  struct {
		Export backups.BackupExportCmd `cmd:"" help:"Export a JSON snapshot." default:"1"`
		Import backups.BackupImportCmd `cmd:"" help:"Import a JSON snapshot, replacing all data."`
	} `cmd:"" help:"Export and import JSON snapshots."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local-first habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	dbPath := expandHome(CLI.Config)
	configDir := filepath.Dir(dbPath)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store := sqlite.NewStore(dbPath)

	// Cross-process notifications ride a journal file next to the database.
	// Losing the transport degrades to in-process events only.
	var transport bus.Transport
	if t, err := bus.NewJournalTransport(filepath.Join(configDir, constants.EventJournalName)); err != nil {
		logger.Warn("event journal unavailable, running without cross-process events", "error", err)
	} else {
		transport = t
	}
	b := bus.New(transport)
	defer b.Close()

	c := clock.SystemClock{}
	appCtx := &cli.Context{
		Store: store,
		Repo:  repo.New(store, b, c),
		Bus:   b,
		Clock: c,
	}

	// init and migrate open the database themselves; everything else needs a
	// loaded, schema-validated store.
	if cmd := ctx.Selected(); cmd != nil && cmd.Name != "init" && cmd.Name != "migrate" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		errors.Fatal(err)
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
