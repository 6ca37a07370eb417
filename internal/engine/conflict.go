package engine

import (
	apperrors "github.com/backpackerjohn/MM16/internal/errors"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/timeutil"
)

// CanPlace decides whether a candidate anchor placement collides with an
// existing anchor on the same day. The candidate's own id is skipped so an
// anchor being moved is never its own blocker. The first overlapping anchor
// is reported; DND overlap never rejects a placement.
func CanPlace(candidate models.Anchor, existing []models.Anchor) *apperrors.ConflictError {
	for _, anchor := range existing {
		if anchor.Day != candidate.Day || anchor.ID == candidate.ID {
			continue
		}
		if timeutil.ClocksOverlap(candidate.StartTime, candidate.EndTime, anchor.StartTime, anchor.EndTime) {
			return &apperrors.ConflictError{
				BlockingID:    anchor.ID,
				BlockingTitle: anchor.Title,
				Day:           string(candidate.Day),
			}
		}
	}
	return nil
}
