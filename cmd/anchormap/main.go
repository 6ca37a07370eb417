package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/backpackerjohn/MM16/internal/cli"
	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/engine"
	apperrors "github.com/backpackerjohn/MM16/internal/errors"
	"github.com/backpackerjohn/MM16/internal/logger"
	"github.com/backpackerjohn/MM16/internal/notifier"
	"github.com/backpackerjohn/MM16/internal/parser"
	"github.com/backpackerjohn/MM16/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"~/.config/anchormap/anchormap.db"`

	Init    cli.InitCmd `cmd:"" help:"Initialize anchormap storage."`
	Onboard struct {
		Wizard   cli.OnboardWizardCmd   `cmd:"" help:"Interactive first-run setup." default:"1"`
		Defaults cli.OnboardDefaultsCmd `cmd:"" help:"Generate the stock starter layout as a preview."`
		Show     cli.OnboardShowCmd     `cmd:"" help:"Show the pending preview."`
		Accept   cli.OnboardAcceptCmd   `cmd:"" help:"Merge the pending preview into your week."`
		Discard  cli.OnboardDiscardCmd  `cmd:"" help:"Throw the pending preview away."`
	} `cmd:"" help:"First-run setup."`
	Anchor struct {
		Add       cli.AnchorAddCmd       `cmd:"" help:"Add a recurring weekly anchor."`
		List      cli.AnchorListCmd      `cmd:"" help:"List anchors."`
		Move      cli.AnchorMoveCmd      `cmd:"" help:"Move an anchor to another day."`
		Duplicate cli.AnchorDuplicateCmd `cmd:"" help:"Copy an anchor under a new ID."`
		Delete    cli.AnchorDeleteCmd    `cmd:"" help:"Delete an anchor and its reminders."`
	} `cmd:"" help:"Manage weekly anchors."`
	DND struct {
		Add    cli.DNDAddCmd    `cmd:"" help:"Add quiet hours."`
		List   cli.DNDListCmd   `cmd:"" help:"List quiet hours."`
		Delete cli.DNDDeleteCmd `cmd:"" help:"Remove quiet hours."`
	} `cmd:"" name:"dnd" help:"Manage quiet hours."`
	Reminder struct {
		Add     cli.ReminderAddCmd     `cmd:"" help:"Attach a reminder to an anchor."`
		List    cli.ReminderListCmd    `cmd:"" help:"List reminders."`
		Delete  cli.ReminderDeleteCmd  `cmd:"" help:"Delete a reminder."`
		Request cli.ReminderRequestCmd `cmd:"" help:"Create reminders from natural language."`
		Lock    cli.ReminderLockCmd    `cmd:"" help:"Lock or unlock a reminder's timing."`
	} `cmd:"" help:"Manage smart reminders."`
	Due    cli.DueCmd    `cmd:"" help:"Show reminders due right now."`
	Snooze cli.SnoozeCmd `cmd:"" help:"Snooze a due reminder."`
	Done   cli.DoneCmd   `cmd:"" help:"Mark a reminder completed."`
	Pause  cli.PauseCmd  `cmd:"" help:"Pause all reminders."`
	Resume cli.ResumeCmd `cmd:"" help:"Resume reminders immediately."`
	Undo     cli.UndoCmd     `cmd:"" help:"Undo the most recent change."`
	Settings cli.SettingsCmd `cmd:"" help:"View or change settings."`
	Backup   struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of your schedule."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Back up and restore your schedule."`
	Watch cli.WatchCmd `cmd:"" help:"Live due-reminder view." default:"1"`

	Debug bool `help:"Enable debug logging." env:"ANCHORMAP_DEBUG"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Weekly anchor and smart reminder scheduler"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(CLI.Config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	// Determine storage type based on extension
	var store storage.Provider
	if len(CLI.Config) > 5 && CLI.Config[len(CLI.Config)-5:] == ".json" {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}
	defer store.Close()

	eng := engine.New(store)
	eng.SetNotifier(notifier.New())

	appCtx := &cli.Context{
		Store:  store,
		Engine: eng,
	}
	if url := os.Getenv("ANCHORMAP_PARSER_URL"); url != "" {
		appCtx.Parser = parser.NewHTTPParser(url)
	}

	apperrors.Fatal(ctx.Run(appCtx))
}
