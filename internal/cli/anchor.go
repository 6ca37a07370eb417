package cli

import (
	"fmt"

	"github.com/backpackerjohn/MM16/internal/models"
)

type AnchorAddCmd struct {
	Title string `arg:"" help:"Anchor title."`
	Start string `short:"s" help:"Start time (HH:MM)." required:""`
	End   string `short:"e" help:"End time (HH:MM)." required:""`
	Days  string `short:"d" help:"Comma-separated days, or 'weekdays'/'weekends'/'all'." required:""`
	Tags  string `short:"t" help:"Comma-separated context tags (work, high-energy, ...)."`
}

func (c *AnchorAddCmd) Validate() error {
	if err := validateClock(c.Start); err != nil {
		return err
	}
	return validateClock(c.End)
}

func (c *AnchorAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	days, err := parseDays(c.Days)
	if err != nil {
		return err
	}

	anchors, err := ctx.Engine.AddAnchors(c.Title, c.Start, c.End, days, parseTags(c.Tags))
	if err != nil {
		return err
	}

	for _, anchor := range anchors {
		fmt.Println(formatAnchor(anchor))
	}
	return nil
}

type AnchorListCmd struct {
	Day string `short:"d" help:"Show a single day only."`
}

func (c *AnchorListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	anchors, err := ctx.Store.GetAllAnchors()
	if err != nil {
		return err
	}
	if c.Day != "" {
		day, err := models.ParseWeekday(c.Day)
		if err != nil {
			return err
		}
		var filtered []models.Anchor
		for _, anchor := range anchors {
			if anchor.Day == day {
				filtered = append(filtered, anchor)
			}
		}
		anchors = filtered
	}

	if len(anchors) == 0 {
		fmt.Println("No anchors found")
		return nil
	}
	for _, anchor := range anchors {
		fmt.Println(formatAnchor(anchor))
	}
	return nil
}

type AnchorMoveCmd struct {
	ID  string `arg:"" help:"Anchor ID."`
	Day string `arg:"" help:"Target day."`
}

func (c *AnchorMoveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	day, err := models.ParseWeekday(c.Day)
	if err != nil {
		return err
	}
	if err := ctx.Engine.MoveAnchor(c.ID, day); err != nil {
		return err
	}
	fmt.Printf("Moved anchor %s to %s\n", c.ID, day)
	return nil
}

type AnchorDuplicateCmd struct {
	ID string `arg:"" help:"Anchor ID."`
}

func (c *AnchorDuplicateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	clone, err := ctx.Engine.DuplicateAnchor(c.ID)
	if err != nil {
		return err
	}
	fmt.Println(formatAnchor(clone))
	return nil
}

type AnchorDeleteCmd struct {
	ID string `arg:"" help:"Anchor ID."`
}

func (c *AnchorDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Engine.DeleteAnchor(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted anchor %s (and its reminders)\n", c.ID)
	return nil
}
