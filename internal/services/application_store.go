package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

// ApplicationPatch holds the mutable fields of a record. Nil means "leave as is".
type ApplicationPatch struct {
	Status          *models.ApplicationStatus
	Notes           *string
	ContactName     *string
	ContactEmail    *string
	ContactLinkedIn *string
	FollowUpSent    *bool
	FollowUpSentAt  *time.Time
}

// ApplicationStore keeps one client's application records as a single JSON
// list, newest insertion first. Every mutation rewrites the whole list.
type ApplicationStore struct {
	kv    storage.KV
	Now   func() time.Time
	NewID func() string
}

func NewApplicationStore(kv storage.KV) *ApplicationStore {
	return &ApplicationStore{
		kv:  kv,
		Now: time.Now,
		NewID: func() string {
			return "app_" + uuid.NewString()
		},
	}
}

// List never fails: unreadable or corrupt storage reads as an empty list.
func (s *ApplicationStore) List(ctx context.Context) []models.ApplicationRecord {
	raw, ok, err := s.kv.Get(ctx, storage.KeyApplications)
	if err != nil {
		log.Printf("⚠️ Error loading applications: %v", err)
		return []models.ApplicationRecord{}
	}
	if !ok || raw == "" {
		return []models.ApplicationRecord{}
	}

	var apps []models.ApplicationRecord
	if err := json.Unmarshal([]byte(raw), &apps); err != nil {
		log.Printf("⚠️ Error loading applications (corrupt data): %v", err)
		return []models.ApplicationRecord{}
	}
	if apps == nil {
		apps = []models.ApplicationRecord{}
	}
	return apps
}

// Create records an application for job. If the job was already applied to,
// the existing record is returned untouched and created is false.
func (s *ApplicationStore) Create(ctx context.Context, job models.JobSnapshot) (rec models.ApplicationRecord, created bool, err error) {
	apps := s.List(ctx)
	for _, a := range apps {
		if a.JobID == job.ID {
			return a, false, nil
		}
	}

	now := s.Now().UTC()
	rec = models.ApplicationRecord{
		ID:          s.NewID(),
		JobID:       job.ID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Salary:      job.Salary,
		JobType:     job.JobType,
		Description: job.Description,
		URL:         job.URL,
		LogoURL:     job.LogoURL,
		Status:      models.StatusApplied,
		AppliedAt:   now,
		LastUpdated: now,
	}

	apps = append([]models.ApplicationRecord{rec}, apps...)
	if err := s.save(ctx, apps); err != nil {
		return models.ApplicationRecord{}, false, err
	}
	return rec, true, nil
}

func (s *ApplicationStore) Update(ctx context.Context, id string, patch ApplicationPatch) (models.ApplicationRecord, error) {
	apps := s.List(ctx)
	idx := indexOf(apps, id)
	if idx == -1 {
		return models.ApplicationRecord{}, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}

	rec := apps[idx]
	if patch.Status != nil {
		rec.Status = *patch.Status
	}
	if patch.Notes != nil {
		rec.Notes = patch.Notes
	}
	if patch.ContactName != nil {
		rec.ContactName = patch.ContactName
	}
	if patch.ContactEmail != nil {
		rec.ContactEmail = patch.ContactEmail
	}
	if patch.ContactLinkedIn != nil {
		rec.ContactLinkedIn = patch.ContactLinkedIn
	}
	if patch.FollowUpSent != nil {
		rec.FollowUpSent = patch.FollowUpSent
	}
	if patch.FollowUpSentAt != nil {
		rec.FollowUpSentAt = patch.FollowUpSentAt
	}

	// lastUpdated never moves backwards, even if the wall clock does
	now := s.Now().UTC()
	if now.After(rec.LastUpdated) {
		rec.LastUpdated = now
	}

	apps[idx] = rec
	if err := s.save(ctx, apps); err != nil {
		return models.ApplicationRecord{}, err
	}
	return rec, nil
}

// MarkFollowUpSent flags the record after a follow-up email went out. The flag
// and its timestamp are set once; later sends return the record unchanged.
// Status only advances from applied, never back from a later stage.
func (s *ApplicationStore) MarkFollowUpSent(ctx context.Context, id string) (models.ApplicationRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return models.ApplicationRecord{}, err
	}
	if rec.FollowUpSent != nil && *rec.FollowUpSent {
		return rec, nil
	}

	sent := true
	at := s.Now().UTC()
	patch := ApplicationPatch{FollowUpSent: &sent, FollowUpSentAt: &at}
	if rec.Status == models.StatusApplied {
		status := models.StatusFollowingUp
		patch.Status = &status
	}
	return s.Update(ctx, id, patch)
}

// Delete reports whether a record was removed.
func (s *ApplicationStore) Delete(ctx context.Context, id string) (bool, error) {
	apps := s.List(ctx)
	filtered := make([]models.ApplicationRecord, 0, len(apps))
	for _, a := range apps {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == len(apps) {
		return false, nil
	}
	if err := s.save(ctx, filtered); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ApplicationStore) Get(ctx context.Context, id string) (models.ApplicationRecord, error) {
	apps := s.List(ctx)
	if idx := indexOf(apps, id); idx != -1 {
		return apps[idx], nil
	}
	return models.ApplicationRecord{}, fmt.Errorf("application %s: %w", id, ErrNotFound)
}

func (s *ApplicationStore) HasApplied(ctx context.Context, jobID string) bool {
	for _, a := range s.List(ctx) {
		if a.JobID == jobID {
			return true
		}
	}
	return false
}

func (s *ApplicationStore) save(ctx context.Context, apps []models.ApplicationRecord) error {
	b, err := json.Marshal(apps)
	if err != nil {
		return fmt.Errorf("encode applications: %w", err)
	}
	if err := s.kv.Set(ctx, storage.KeyApplications, string(b)); err != nil {
		log.Printf("❌ Failed to persist applications: %v", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func indexOf(apps []models.ApplicationRecord, id string) int {
	for i, a := range apps {
		if a.ID == id {
			return i
		}
	}
	return -1
}
