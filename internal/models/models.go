package models

import (
	"time"

	"gorm.io/datatypes"
)

type ApplicationStatus string

const (
	StatusApplied      ApplicationStatus = "applied"
	StatusFollowingUp  ApplicationStatus = "following_up"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffer        ApplicationStatus = "offer"
	StatusRejected     ApplicationStatus = "rejected"
	StatusWithdrawn    ApplicationStatus = "withdrawn"
)

// AllStatuses is the display order used by filter tabs.
var AllStatuses = []ApplicationStatus{
	StatusApplied,
	StatusFollowingUp,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusWithdrawn,
}

var statusLabels = map[ApplicationStatus]string{
	StatusApplied:      "Applied",
	StatusFollowingUp:  "Following Up",
	StatusInterviewing: "Interviewing",
	StatusOffer:        "Offer Received",
	StatusRejected:     "Rejected",
	StatusWithdrawn:    "Withdrawn",
}

func (s ApplicationStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s ApplicationStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Job is the normalized listing shape returned by job search.
type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	PostedDate  string `json:"postedDate"`
	EasyApply   bool   `json:"easyApply"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// ApplicationRecord tracks one job the user applied to. The listing fields are
// a snapshot taken at apply time and never change afterwards.
type ApplicationRecord struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Salary      string `json:"salary,omitempty"`
	JobType     string `json:"jobType,omitempty"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`

	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"appliedAt"`
	LastUpdated time.Time         `json:"lastUpdated"`

	FollowUpSent    *bool      `json:"followUpSent,omitempty"`
	FollowUpSentAt  *time.Time `json:"followUpSentAt,omitempty"`
	ContactName     *string    `json:"contactName,omitempty"`
	ContactEmail    *string    `json:"contactEmail,omitempty"`
	ContactLinkedIn *string    `json:"contactLinkedIn,omitempty"`

	Notes *string `json:"notes,omitempty"`
}

// User is the identity kept in the client session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MessageType string

const (
	MessageText     MessageType = "text"
	MessageJobShare MessageType = "job-share"
)

// JobDetails is the listing snapshot attached to a job-share chat entry.
type JobDetails struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location,omitempty"`
	URL      string `json:"url,omitempty"`
}

// ChatMessage is one entry of the community message log. Timestamp is assigned
// by the log on insert.
type ChatMessage struct {
	ID         uint64                          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string                          `gorm:"size:128;not null;index" json:"userId"`
	UserName   string                          `gorm:"size:256;not null" json:"userName"`
	Text       string                          `gorm:"type:text" json:"text"`
	Type       MessageType                     `gorm:"size:16;default:'text'" json:"type"`
	JobDetails datatypes.JSONType[*JobDetails] `gorm:"type:jsonb" json:"jobDetails"`
	Timestamp  time.Time                       `gorm:"column:sent_at;autoCreateTime;not null;index" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// BenefitApplication is a submitted unemployment-benefit form.
type BenefitApplication struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	UserID    string         `gorm:"size:128;not null;index" json:"userId"`
	Answers   datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	OptIn     bool           `json:"optIn"`
	CreatedAt time.Time      `json:"createdAt"`
}

// JobSnapshot is what the client sends when applying to a listing.
type JobSnapshot struct {
	ID          string
	Title       string
	Company     string
	Location    string
	Salary      string
	JobType     string
	Description string
	URL         string
	LogoURL     string
}
