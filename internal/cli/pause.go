package cli

import (
	"fmt"
	"time"
)

type PauseCmd struct {
	For   time.Duration `short:"f" help:"Pause duration (e.g. 2h, 45m)." xor:"until"`
	Until string        `short:"u" help:"Pause until a wall-clock time today (HH:MM)." xor:"until"`
}

func (c *PauseCmd) Validate() error {
	if c.For == 0 && c.Until == "" {
		return fmt.Errorf("one of --for or --until is required")
	}
	if c.Until != "" {
		return validateClock(c.Until)
	}
	return nil
}

func (c *PauseCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	now := ctx.now()
	var until time.Time
	if c.For != 0 {
		until = now.Add(c.For)
	} else {
		parsed, err := time.Parse("15:04", c.Until)
		if err != nil {
			return err
		}
		until = time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
		if !until.After(now) {
			until = until.Add(24 * time.Hour)
		}
	}

	if err := ctx.Engine.Pause(until); err != nil {
		return err
	}
	fmt.Printf("Reminders paused until %s\n", until.Format("Mon 15:04"))
	return nil
}

type ResumeCmd struct{}

func (c *ResumeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Engine.Resume(); err != nil {
		return err
	}
	fmt.Println("Reminders resumed")
	return nil
}
