package cli

import (
	"fmt"

	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

type DNDAddCmd struct {
	Start string `short:"s" help:"Start time (HH:MM)." required:""`
	End   string `short:"e" help:"End time (HH:MM). May be earlier than start for overnight windows." required:""`
	Days  string `short:"d" help:"Comma-separated days, or 'weekdays'/'weekends'/'all'." required:""`
}

func (c *DNDAddCmd) Validate() error {
	if err := validateClock(c.Start); err != nil {
		return err
	}
	return validateClock(c.End)
}

func (c *DNDAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	days, err := parseDays(c.Days)
	if err != nil {
		return err
	}
	for _, day := range days {
		window := models.DNDWindow{Day: day, StartTime: c.Start, EndTime: c.End}
		if err := ctx.Engine.AddDNDWindow(window); err != nil {
			return err
		}
	}
	fmt.Printf("Quiet hours %s–%s added on %s\n",
		timeutil.FormatClock(c.Start), timeutil.FormatClock(c.End), timeutil.FormatDays(days))
	return nil
}

type DNDListCmd struct{}

func (c *DNDListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	windows, err := ctx.Store.GetAllDNDWindows()
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		fmt.Println("No quiet hours configured")
		return nil
	}
	for _, window := range windows {
		overnight := ""
		if window.Overnight() {
			overnight = " (overnight)"
		}
		fmt.Printf("%-9s %s–%s%s\n", window.Day,
			timeutil.FormatClock(window.StartTime), timeutil.FormatClock(window.EndTime), overnight)
	}
	return nil
}

type DNDDeleteCmd struct {
	Day   string `arg:"" help:"Day of the window."`
	Start string `arg:"" help:"Start time (HH:MM)."`
	End   string `arg:"" help:"End time (HH:MM)."`
}

func (c *DNDDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	day, err := models.ParseWeekday(c.Day)
	if err != nil {
		return err
	}
	window := models.DNDWindow{Day: day, StartTime: c.Start, EndTime: c.End}
	if err := ctx.Engine.DeleteDNDWindow(window); err != nil {
		return err
	}
	fmt.Printf("Removed quiet hours %s %s–%s\n", day,
		timeutil.FormatClock(c.Start), timeutil.FormatClock(c.End))
	return nil
}
