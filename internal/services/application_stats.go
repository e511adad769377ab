package services

import "github.com/justsurfingit/jobseeker-portal/internal/models"

// FilterAll is the filter value that matches every status.
const FilterAll = "all"

// ApplicationStats is the dashboard summary. Withdrawn records count towards
// Total but have no bucket of their own.
type ApplicationStats struct {
	Total        int `json:"total"`
	Applied      int `json:"applied"`
	FollowingUp  int `json:"followingUp"`
	Interviewing int `json:"interviewing"`
	Offers       int `json:"offers"`
	Rejected     int `json:"rejected"`
}

func ComputeStats(apps []models.ApplicationRecord) ApplicationStats {
	stats := ApplicationStats{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case models.StatusApplied:
			stats.Applied++
		case models.StatusFollowingUp:
			stats.FollowingUp++
		case models.StatusInterviewing:
			stats.Interviewing++
		case models.StatusOffer:
			stats.Offers++
		case models.StatusRejected:
			stats.Rejected++
		}
	}
	return stats
}

// FilterByStatus keeps store order. "all" (or empty) returns apps as is.
func FilterByStatus(apps []models.ApplicationRecord, filter string) []models.ApplicationRecord {
	if filter == "" || filter == FilterAll {
		return apps
	}
	out := make([]models.ApplicationRecord, 0, len(apps))
	for _, a := range apps {
		if string(a.Status) == filter {
			out = append(out, a)
		}
	}
	return out
}
