package dtos

import "github.com/justsurfingit/jobseeker-portal/internal/models"

type JobSearchQuery struct {
	Title    string `form:"title"`
	Location string `form:"location"`
}

// ApplicationCreateRequest is the job snapshot taken when the user applies.
type ApplicationCreateRequest struct {
	JobID       string `json:"jobId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	JobType     string `json:"jobType"`
	Description string `json:"description"`
	URL         string `json:"url"`
	LogoURL     string `json:"logoUrl"`
}

func (r ApplicationCreateRequest) Snapshot() models.JobSnapshot {
	return models.JobSnapshot{
		ID:          r.JobID,
		Title:       r.Title,
		Company:     r.Company,
		Location:    r.Location,
		Salary:      r.Salary,
		JobType:     r.JobType,
		Description: r.Description,
		URL:         r.URL,
		LogoURL:     r.LogoURL,
	}
}

// ApplicationUpdateRequest carries only the fields to change.
type ApplicationUpdateRequest struct {
	Status          *string `json:"status" binding:"omitempty,oneof=applied following_up interviewing offer rejected withdrawn"`
	Notes           *string `json:"notes"`
	ContactName     *string `json:"contactName"`
	ContactEmail    *string `json:"contactEmail" binding:"omitempty,email"`
	ContactLinkedIn *string `json:"contactLinkedIn"`
}

type ApplicationListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=all applied following_up interviewing offer rejected withdrawn"`
}

// ApplicationView is a record decorated with the follow-up hints shown on the
// dashboard.
type ApplicationView struct {
	models.ApplicationRecord
	StatusLabel   string `json:"statusLabel"`
	DaysSince     int    `json:"daysSince"`
	AppliedLabel  string `json:"appliedLabel"`
	NeedsFollowUp bool   `json:"needsFollowUp"`
}
