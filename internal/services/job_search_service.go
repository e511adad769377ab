package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

const (
	defaultSearchTitle    = "Software"
	defaultSearchLocation = "Minnesota"
)

// mockJobs is served when no API key is configured or the upstream fails.
var mockJobs = []models.Job{
	// Tech
	{ID: "li-101", Title: "Software Engineer", Company: "TechFlow Solutions", Location: "Minneapolis, MN", PostedDate: "2 days ago", EasyApply: true, Description: "We are looking for a React developer to join our growing team."},
	{ID: "li-102", Title: "Data Analyst", Company: "North Star Data", Location: "Remote (MN)", PostedDate: "5 hours ago", EasyApply: true, Description: "Analyze trends and build dashboards using SQL and Python."},
	{ID: "li-105", Title: "QA Tester", Company: "SoftServe Inc", Location: "Bloomington, MN", PostedDate: "1 day ago", EasyApply: false, Description: "Manual and automated testing for enterprise software."},

	// Healthcare
	{ID: "li-201", Title: "Registered Nurse", Company: "Mayo Clinic", Location: "Rochester, MN", PostedDate: "3 hours ago", EasyApply: false, Description: "ICU Nurse needed. Competitive pay and signing bonus."},
	{ID: "li-202", Title: "Medical Receptionist", Company: "Park Nicollet", Location: "St. Louis Park, MN", PostedDate: "1 week ago", EasyApply: true, Description: "Front desk duties, scheduling, and patient intake."},
	{ID: "li-203", Title: "Pharmacy Technician", Company: "CVS Health", Location: "Duluth, MN", PostedDate: "2 days ago", EasyApply: true, Description: "Assist pharmacists with dispensing medication."},

	// Construction & Trades
	{ID: "li-301", Title: "Project Manager", Company: "Skyline Construction", Location: "St. Paul, MN", PostedDate: "1 week ago", EasyApply: false, Description: "Oversee commercial construction projects. PMP preferred."},
	{ID: "li-302", Title: "Electrician", Company: "Current Electric", Location: "Maple Grove, MN", PostedDate: "4 days ago", EasyApply: true, Description: "Licensed journeyman electrician for residential calls."},
	{ID: "li-303", Title: "General Laborer", Company: "BuildMN", Location: "Minneapolis, MN", PostedDate: "Just now", EasyApply: true, Description: "Site cleanup and material handling. No experience necessary."},

	// Retail & Service
	{ID: "li-401", Title: "Customer Service Rep", Company: "HealthFirst", Location: "Bloomington, MN", PostedDate: "Just now", EasyApply: true, Description: "Help members navigate their health benefits. Training provided."},
	{ID: "li-402", Title: "Store Manager", Company: "Target", Location: "Edina, MN", PostedDate: "3 days ago", EasyApply: false, Description: "Lead store operations and team management."},
	{ID: "li-403", Title: "Barista", Company: "Caribou Coffee", Location: "Minnetonka, MN", PostedDate: "5 hours ago", EasyApply: true, Description: "Craft coffee drinks and provide excellent service."},

	// Education & Public
	{ID: "li-501", Title: "High School Teacher", Company: "Minneapolis Public Schools", Location: "Minneapolis, MN", PostedDate: "2 weeks ago", EasyApply: false, Description: "Math teacher for grades 9-12."},
	{ID: "li-502", Title: "Bus Driver", Company: "Metro Transit", Location: "Twin Cities, MN", PostedDate: "1 day ago", EasyApply: true, Description: "Safe transport of passengers. CDL training provided."},

	// Admin & Finance
	{ID: "li-601", Title: "Administrative Assistant", Company: "Lawson & Associates", Location: "St. Paul, MN", PostedDate: "6 hours ago", EasyApply: true, Description: "Manage office supplies, phones, and scheduling."},
	{ID: "li-602", Title: "Accountant", Company: "WealthOps", Location: "Eagan, MN", PostedDate: "4 days ago", EasyApply: false, Description: "Tax preparation and financial reporting."},
}

type JobSearchService struct {
	APIKey  string
	APIHost string
	// BaseURL defaults to https://<APIHost>.
	BaseURL string
	client  *resty.Client
}

func NewJobSearchService(apiKey, apiHost string) *JobSearchService {
	return &JobSearchService{
		APIKey:  apiKey,
		APIHost: apiHost,
		client:  resty.New().SetTimeout(15 * time.Second),
	}
}

// rapidJob is the upstream listing shape. job_id shows up as string or number.
type rapidJob struct {
	JobID          any    `json:"job_id"`
	JobTitle       string `json:"job_title"`
	CompanyName    string `json:"company_name"`
	JobLocation    string `json:"job_location"`
	PostedDate     string `json:"posted_date"`
	IsRemote       bool   `json:"is_remote"`
	JobDescription string `json:"job_description"`
	JobApplyLink   string `json:"job_apply_link"`
}

// Search queries the live listing API and falls back to the offline catalogue
// when no key is set or the call fails.
func (s *JobSearchService) Search(ctx context.Context, title, location string) []models.Job {
	if s.APIKey != "" {
		jobs, err := s.searchRemote(ctx, title, location)
		if err == nil {
			return jobs
		}
		log.Printf("⚠️ Job search API failed, falling back to mock data: %v", err)
	}
	return searchMock(title, location)
}

func (s *JobSearchService) searchRemote(ctx context.Context, title, location string) ([]models.Job, error) {
	safeTitle := strings.TrimSpace(title)
	if safeTitle == "" {
		safeTitle = defaultSearchTitle
	}
	safeLocation := strings.TrimSpace(location)
	if safeLocation == "" {
		safeLocation = defaultSearchLocation
	}

	base := s.BaseURL
	if base == "" {
		base = "https://" + s.APIHost
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("x-rapidapi-key", s.APIKey).
		SetHeader("x-rapidapi-host", s.APIHost).
		SetQueryParams(map[string]string{
			"limit":            "10",
			"offset":           "0",
			"title_filter":     safeTitle,
			"location_filter":  safeLocation,
			"description_type": "text",
		}).
		Get(base + "/active-jb-24h")
	if err != nil {
		return nil, fmt.Errorf("call job search: %w", err)
	}
	if resp.IsError() {
		return nil, &UpstreamError{Status: resp.StatusCode(), Message: resp.Status()}
	}

	raw, err := decodeJobList(resp.Body())
	if err != nil {
		return nil, err
	}

	jobs := make([]models.Job, 0, len(raw))
	for _, j := range raw {
		jobs = append(jobs, normalizeJob(j, safeLocation))
	}
	return jobs, nil
}

// decodeJobList accepts either a bare array or a {"data": [...]} wrapper.
func decodeJobList(body []byte) ([]rapidJob, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var list []rapidJob
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode job list: %w", err)
		}
		return list, nil
	}

	var wrapped struct {
		Data []rapidJob `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("decode job list: %w", err)
	}
	return wrapped.Data, nil
}

func normalizeJob(j rapidJob, searchLocation string) models.Job {
	return models.Job{
		ID:          jobIDString(j.JobID),
		Title:       orDefault(j.JobTitle, "Unknown Role"),
		Company:     orDefault(j.CompanyName, "Unknown Company"),
		Location:    orDefault(j.JobLocation, searchLocation),
		PostedDate:  orDefault(j.PostedDate, "Recently"),
		EasyApply:   j.IsRemote,
		Description: orDefault(j.JobDescription, "View details on LinkedIn"),
		URL:         j.JobApplyLink,
	}
}

func jobIDString(v any) string {
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return "job_" + uuid.NewString()
}

func searchMock(title, location string) []models.Job {
	out := make([]models.Job, 0, len(mockJobs))
	for _, j := range mockJobs {
		if MatchesJobQuery(j, title, location) {
			out = append(out, j)
		}
	}
	return out
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
