// Package onboarding turns coarse first-run answers into a candidate
// weekly layout. The result is a detached preview; nothing here touches
// the live schedule.
package onboarding

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/backpackerjohn/MM16/internal/constants"
	apperrors "github.com/backpackerjohn/MM16/internal/errors"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

// Generate expands the wizard's time blocks into per-day work anchors plus
// one quiet-hours window per day of the week. Blocks must be valid clock
// ranges; overlap between blocks is not checked here because the preview
// is merged through the conflict-checked accept path.
func Generate(blocks []models.TimeBlock, dndStart, dndEnd string) (models.OnboardingPreview, error) {
	if len(blocks) == 0 {
		return models.OnboardingPreview{}, apperrors.Validationf("at least one work block is required")
	}
	if !timeutil.ValidClock(dndStart) || !timeutil.ValidClock(dndEnd) {
		return models.OnboardingPreview{}, apperrors.Validationf("invalid quiet-hours range %s-%s", dndStart, dndEnd)
	}

	var preview models.OnboardingPreview
	for _, block := range blocks {
		if !timeutil.ValidClock(block.StartTime) || !timeutil.ValidClock(block.EndTime) {
			return models.OnboardingPreview{}, apperrors.Validationf("invalid work block %s-%s", block.StartTime, block.EndTime)
		}
		if timeutil.ToMinutes(block.EndTime) <= timeutil.ToMinutes(block.StartTime) {
			return models.OnboardingPreview{}, apperrors.Validationf("work block must end after it starts: %s-%s", block.StartTime, block.EndTime)
		}
		for _, day := range block.Days {
			if !day.Valid() {
				return models.OnboardingPreview{}, apperrors.Validationf("invalid day: %q", day)
			}
			preview.Anchors = append(preview.Anchors, workAnchor(day, block.StartTime, block.EndTime))
		}
	}

	for _, day := range models.DaysOfWeek {
		preview.DNDWindows = append(preview.DNDWindows, models.DNDWindow{
			Day:       day,
			StartTime: dndStart,
			EndTime:   dndEnd,
		})
	}
	return preview, nil
}

// Defaults returns the stock starter layout: weekday work hours, a short
// Saturday wind-down block, and overnight quiet hours every day.
func Defaults() models.OnboardingPreview {
	var preview models.OnboardingPreview
	for _, day := range models.Weekdays {
		preview.Anchors = append(preview.Anchors, workAnchor(day, constants.DefaultWorkStart, constants.DefaultWorkEnd))
	}
	preview.Anchors = append(preview.Anchors, models.Anchor{
		ID:          fmt.Sprintf("anchor-%s", uuid.NewString()),
		Day:         models.Saturday,
		Title:       "Weekend Relaxation",
		StartTime:   "10:00",
		EndTime:     "12:00",
		ContextTags: []models.ContextTag{models.TagPersonal, models.TagRelaxed},
	})
	for _, day := range models.DaysOfWeek {
		preview.DNDWindows = append(preview.DNDWindows, models.DNDWindow{
			Day:       day,
			StartTime: constants.DefaultDNDStart,
			EndTime:   constants.DefaultDNDEnd,
		})
	}
	return preview
}

func workAnchor(day models.Weekday, start, end string) models.Anchor {
	return models.Anchor{
		ID:          fmt.Sprintf("anchor-%s", uuid.NewString()),
		Day:         day,
		Title:       "Work",
		StartTime:   start,
		EndTime:     end,
		ContextTags: []models.ContextTag{models.TagWork, models.TagHighEnergy},
		BufferMinutes: &models.BufferMinutes{
			Prep:     constants.OnboardingPrepBufferMinutes,
			Recovery: constants.OnboardingRecoveryBufferMinutes,
		},
	}
}
