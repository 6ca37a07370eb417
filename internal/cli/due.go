package cli

import (
	"fmt"
	"time"

	"github.com/backpackerjohn/MM16/internal/models"
)

type DueCmd struct {
	At string `help:"Evaluate at a wall-clock time today (HH:MM) instead of now."`
}

func (c *DueCmd) Validate() error {
	if c.At != "" {
		return validateClock(c.At)
	}
	return nil
}

func (c *DueCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	now := ctx.now()
	if c.At != "" {
		parsed, err := time.Parse("15:04", c.At)
		if err != nil {
			return err
		}
		now = time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	}
	due, err := ctx.Engine.DueReminders(now)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Println("Nothing due right now")
		return nil
	}

	anchors, err := ctx.Store.GetAllAnchors()
	if err != nil {
		return err
	}
	byID := make(map[string]models.Anchor, len(anchors))
	for _, anchor := range anchors {
		byID[anchor.ID] = anchor
	}

	fmt.Printf("Due now (%s):\n", now.Format("15:04"))
	for _, reminder := range due {
		fmt.Printf("  %s\n", formatReminder(reminder, byID))
		if reminder.Why != "" {
			fmt.Printf("      why: %s\n", reminder.Why)
		}
	}
	return nil
}

type SnoozeCmd struct {
	ID string `arg:"" help:"Reminder ID."`
}

func (c *SnoozeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	reminder, err := ctx.Engine.Snooze(c.ID, ctx.now())
	if err != nil {
		return err
	}
	if reminder.Status == models.StatusSnoozed && reminder.SnoozedUntil != nil {
		fmt.Printf("Snoozed for %d minutes (until %s)\n",
			reminder.SnoozeHistory[0], reminder.SnoozedUntil.Format("15:04"))
	}
	return nil
}

type DoneCmd struct {
	ID string `arg:"" help:"Reminder ID."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Engine.Done(c.ID, ctx.now()); err != nil {
		return err
	}
	fmt.Println("Done. Nice work!")
	return nil
}
