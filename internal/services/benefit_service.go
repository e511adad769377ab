package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

// BenefitStep is one page of the unemployment application wizard.
type BenefitStep struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

var BenefitSteps = []BenefitStep{
	{Name: "Identity", Fields: []string{"firstName", "lastName", "ssn", "email", "phone"}},
	{Name: "Employment", Fields: []string{"employerName", "jobTitle", "startDate", "endDate"}},
	{Name: "Separation", Fields: []string{"separationReason"}},
	{Name: "Review", Fields: []string{}},
}

// BenefitAnswers is the submitted form. Website is a hidden field real users
// never fill in.
type BenefitAnswers struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	SSN              string `json:"ssn"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	EmployerName     string `json:"employerName"`
	JobTitle         string `json:"jobTitle"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	SeparationReason string `json:"separationReason"`
	OptIn            *bool  `json:"optIn,omitempty"`
	Website          string `json:"website,omitempty"`
}

func (a BenefitAnswers) field(name string) string {
	switch name {
	case "firstName":
		return a.FirstName
	case "lastName":
		return a.LastName
	case "ssn":
		return a.SSN
	case "email":
		return a.Email
	case "phone":
		return a.Phone
	case "employerName":
		return a.EmployerName
	case "jobTitle":
		return a.JobTitle
	case "startDate":
		return a.StartDate
	case "endDate":
		return a.EndDate
	case "separationReason":
		return a.SeparationReason
	}
	return ""
}

// BenefitRepository persists accepted submissions.
type BenefitRepository interface {
	Save(ctx context.Context, app *models.BenefitApplication) error
}

type BenefitService struct {
	repo     BenefitRepository
	Cooldown time.Duration
	Now      func() time.Time
	NewID    func() string
}

func NewBenefitService(repo BenefitRepository, cooldown time.Duration) *BenefitService {
	return &BenefitService{
		repo:     repo,
		Cooldown: cooldown,
		Now:      time.Now,
		NewID:    uuid.NewString,
	}
}

// Submit validates and stores one application for userID. kv is the caller's
// client namespace, used for the resubmission cooldown. A filled honeypot is
// reported as success with an empty id and nothing is stored.
func (s *BenefitService) Submit(ctx context.Context, kv storage.KV, userID string, answers BenefitAnswers) (string, error) {
	if answers.Website != "" {
		log.Printf("🤖 Bot detected: honeypot field filled (user=%s)", userID)
		return "", nil
	}

	if missing := missingBenefitFields(answers); len(missing) > 0 {
		return "", fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	now := s.Now()
	if last, ok := s.lastSubmission(ctx, kv); ok && now.Sub(last) < s.Cooldown {
		return "", fmt.Errorf("%w: an application was submitted recently, please wait before applying again", ErrCooldown)
	}

	optIn := true
	if answers.OptIn != nil {
		optIn = *answers.OptIn
	}
	stored := answers
	stored.SSN = MaskSSN(answers.SSN)
	stored.OptIn = nil
	stored.Website = ""

	raw, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}

	app := &models.BenefitApplication{
		ID:        s.NewID(),
		UserID:    userID,
		Answers:   datatypes.JSON(raw),
		OptIn:     optIn,
		CreatedAt: now.UTC(),
	}
	if err := s.repo.Save(ctx, app); err != nil {
		log.Printf("❌ Error submitting application: %v", err)
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if optIn {
		log.Printf("📨 Notifying user %s about application %s", userID, app.ID)
	}

	// the submission is stored; a failed cooldown write only loses the rate limit
	if err := kv.Set(ctx, storage.KeyLastApplicationAt, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		log.Printf("⚠️ Could not record submission time: %v", err)
	}
	return app.ID, nil
}

func (s *BenefitService) lastSubmission(ctx context.Context, kv storage.KV) (time.Time, bool) {
	raw, ok, err := kv.Get(ctx, storage.KeyLastApplicationAt)
	if err != nil || !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

func missingBenefitFields(a BenefitAnswers) []string {
	var missing []string
	for _, step := range BenefitSteps {
		for _, f := range step.Fields {
			if strings.TrimSpace(a.field(f)) == "" {
				missing = append(missing, f)
			}
		}
	}
	return missing
}

// MaskSSN keeps only the last four digits.
func MaskSSN(ssn string) string {
	digits := make([]byte, 0, len(ssn))
	for i := 0; i < len(ssn); i++ {
		if ssn[i] >= '0' && ssn[i] <= '9' {
			digits = append(digits, ssn[i])
		}
	}
	if len(digits) <= 4 {
		return "***-**-" + string(digits)
	}
	return "***-**-" + string(digits[len(digits)-4:])
}

// MemoryBenefitRepository keeps submissions in process.
type MemoryBenefitRepository struct {
	mu   sync.Mutex
	apps []models.BenefitApplication
}

func NewMemoryBenefitRepository() *MemoryBenefitRepository {
	return &MemoryBenefitRepository{}
}

func (r *MemoryBenefitRepository) Save(_ context.Context, app *models.BenefitApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps = append(r.apps, *app)
	return nil
}

func (r *MemoryBenefitRepository) All() []models.BenefitApplication {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.BenefitApplication, len(r.apps))
	copy(out, r.apps)
	return out
}
