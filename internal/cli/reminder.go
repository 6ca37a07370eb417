package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/backpackerjohn/MM16/internal/models"
)

type ReminderAddCmd struct {
	AnchorID string `arg:"" help:"Anchor the reminder is tied to."`
	Message  string `arg:"" help:"Reminder text."`
	Offset   int    `short:"o" help:"Minutes relative to the anchor start (negative = before)." default:"-10"`
	Why      string `short:"w" help:"One-line rationale shown with the reminder."`
}

func (c *ReminderAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	reminder, err := ctx.Engine.AddReminder(c.AnchorID, c.Offset, c.Message, c.Why)
	if err != nil {
		return err
	}
	fmt.Printf("Added reminder: %s (ID: %s)\n", c.Message, reminder.ID)
	return nil
}

type ReminderListCmd struct {
	All bool `help:"Include completed reminders."`
}

func (c *ReminderListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	reminders, err := ctx.Store.GetAllReminders()
	if err != nil {
		return err
	}
	anchors, err := ctx.Store.GetAllAnchors()
	if err != nil {
		return err
	}
	byID := make(map[string]models.Anchor, len(anchors))
	for _, anchor := range anchors {
		byID[anchor.ID] = anchor
	}

	shown := 0
	for _, reminder := range reminders {
		if !c.All && reminder.Status == models.StatusDone {
			continue
		}
		fmt.Println(formatReminder(reminder, byID))
		shown++
	}
	if shown == 0 {
		fmt.Println("No reminders found")
	}
	return nil
}

type ReminderDeleteCmd struct {
	ID string `arg:"" help:"Reminder ID."`
}

func (c *ReminderDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Engine.DeleteReminder(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted reminder %s\n", c.ID)
	return nil
}

type ReminderRequestCmd struct {
	Text    string        `arg:"" help:"Natural-language reminder request."`
	Timeout time.Duration `help:"Collaborator request timeout." default:"10s"`
}

func (c *ReminderRequestCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if ctx.Parser == nil {
		return fmt.Errorf("no reminder parser configured (set ANCHORMAP_PARSER_URL)")
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	created, err := ctx.Engine.ParseAndCreateReminders(reqCtx, ctx.Parser, c.Text)
	if err != nil {
		return err
	}
	anchors, err := ctx.Store.GetAllAnchors()
	if err != nil {
		return err
	}
	byID := make(map[string]models.Anchor, len(anchors))
	for _, anchor := range anchors {
		byID[anchor.ID] = anchor
	}
	for _, reminder := range created {
		fmt.Println(formatReminder(reminder, byID))
	}
	return nil
}

type ReminderLockCmd struct {
	ID     string `arg:"" help:"Reminder ID."`
	Unlock bool   `help:"Clear the lock instead of setting it."`
}

func (c *ReminderLockCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	reminder, err := ctx.Engine.SetReminderLock(c.ID, !c.Unlock)
	if err != nil {
		return err
	}
	if reminder.IsLocked {
		fmt.Printf("Reminder %s locked; its timing will not be adjusted\n", c.ID)
	} else {
		fmt.Printf("Reminder %s unlocked\n", c.ID)
	}
	return nil
}
