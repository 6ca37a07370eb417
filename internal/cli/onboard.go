package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

type OnboardWizardCmd struct{}

func (c *OnboardWizardCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	workStart := constants.DefaultWorkStart
	workEnd := constants.DefaultWorkEnd
	dndStart := constants.DefaultDNDStart
	dndEnd := constants.DefaultDNDEnd
	workDays := append([]models.Weekday(nil), models.Weekdays...)

	clockValidator := func(s string) error { return validateClock(s) }

	dayOptions := make([]huh.Option[models.Weekday], len(models.DaysOfWeek))
	for i, day := range models.DaysOfWeek {
		dayOptions[i] = huh.NewOption(string(day), day).Selected(day.Index() < 5)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[models.Weekday]().
				Title("Which days do you work?").
				Options(dayOptions...).
				Value(&workDays),
			huh.NewInput().
				Title("Work starts (HH:MM)").
				Value(&workStart).
				Validate(clockValidator),
			huh.NewInput().
				Title("Work ends (HH:MM)").
				Value(&workEnd).
				Validate(clockValidator),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Quiet hours start (HH:MM)").
				Description("Reminders are suppressed overnight").
				Value(&dndStart).
				Validate(clockValidator),
			huh.NewInput().
				Title("Quiet hours end (HH:MM)").
				Value(&dndEnd).
				Validate(clockValidator),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}

	blocks := []models.TimeBlock{{StartTime: workStart, EndTime: workEnd, Days: workDays}}
	preview, err := ctx.Engine.GenerateOnboardingPreview(blocks, dndStart, dndEnd)
	if err != nil {
		return err
	}

	printPreview(preview)

	accept := true
	confirm := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Add this layout to your week?").
			Affirmative("Accept").
			Negative("Discard").
			Value(&accept),
	)).WithTheme(huh.ThemeDracula())
	if err := confirm.Run(); err != nil {
		return err
	}

	if !accept {
		if err := ctx.Engine.DiscardOnboarding(); err != nil {
			return err
		}
		fmt.Println("Preview discarded; your schedule is unchanged")
		return nil
	}
	if err := ctx.Engine.AcceptOnboarding(); err != nil {
		return err
	}
	fmt.Println("Your weekly map is set up!")
	return nil
}

type OnboardDefaultsCmd struct{}

func (c *OnboardDefaultsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	preview, err := ctx.Engine.GenerateDefaultPreview()
	if err != nil {
		return err
	}
	printPreview(preview)
	fmt.Println("Run 'anchormap onboard accept' to add it, or 'anchormap onboard discard' to throw it away")
	return nil
}

type OnboardShowCmd struct{}

func (c *OnboardShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	preview, err := ctx.Engine.OnboardingPreview()
	if err != nil {
		return err
	}
	if preview == nil {
		fmt.Println("No pending onboarding preview")
		return nil
	}
	printPreview(*preview)
	return nil
}

type OnboardAcceptCmd struct{}

func (c *OnboardAcceptCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Engine.AcceptOnboarding(); err != nil {
		return err
	}
	fmt.Println("Your weekly map is set up!")
	return nil
}

type OnboardDiscardCmd struct{}

func (c *OnboardDiscardCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Engine.DiscardOnboarding(); err != nil {
		return err
	}
	fmt.Println("Preview discarded; your schedule is unchanged")
	return nil
}

func printPreview(preview models.OnboardingPreview) {
	fmt.Println("Proposed weekly layout:")
	for _, anchor := range preview.Anchors {
		fmt.Printf("  %s\n", formatAnchor(anchor))
	}
	if len(preview.DNDWindows) > 0 {
		first := preview.DNDWindows[0]
		fmt.Printf("  Quiet hours: %s–%s every day\n",
			timeutil.FormatClock(first.StartTime), timeutil.FormatClock(first.EndTime))
	}
}
