package cli

import (
	"fmt"

	"github.com/backpackerjohn/MM16/internal/timeutil"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	InteractionGrace *bool   `help:"Keep just-acted-on reminders visible for a minute."`
	Timezone         *string `help:"IANA timezone for evaluation, or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	settings, err := ctx.Engine.Settings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Interaction Grace: %v\n", settings.InteractionGraceEnabled)
		fmt.Printf("  Timezone:          %s\n", settings.Timezone)
		return nil
	}

	updated := false
	if c.InteractionGrace != nil {
		settings.InteractionGraceEnabled = *c.InteractionGrace
		updated = true
	}
	if c.Timezone != nil {
		if _, err := timeutil.LoadLocation(*c.Timezone); err != nil {
			return fmt.Errorf("unknown timezone %q: %w", *c.Timezone, err)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}

	if updated {
		if err := ctx.Engine.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
