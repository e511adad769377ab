package services

import (
	"fmt"
	"time"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

const (
	day = 24 * time.Hour

	// FollowUpAfterDays is how long an application sits in "applied" before a
	// follow-up is suggested.
	FollowUpAfterDays = 7
)

// DaysSince rounds the elapsed time up to whole days: any part of a day counts
// as one, zero elapsed is zero.
func DaysSince(t, now time.Time) int {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	days := int(elapsed / day)
	if elapsed%day != 0 {
		days++
	}
	return days
}

func AppliedLabel(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// NeedsFollowUp is advisory. It never changes the record's status.
func NeedsFollowUp(rec models.ApplicationRecord, now time.Time) bool {
	if rec.Status != models.StatusApplied {
		return false
	}
	if rec.FollowUpSent != nil && *rec.FollowUpSent {
		return false
	}
	return DaysSince(rec.AppliedAt, now) >= FollowUpAfterDays
}
