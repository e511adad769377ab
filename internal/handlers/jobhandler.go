package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobseeker-portal/internal/dtos"
	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/services"
)

const maxResumeSize = 5 << 20

type JobSearcher interface {
	Search(ctx context.Context, title, location string) []models.Job
}

type FollowUpGenerator interface {
	GenerateFollowUp(ctx context.Context, req services.FollowUpRequest) (*services.FollowUpDraft, error)
}

// JobHandler serves job search and the AI writing helpers. FollowUps and
// Assistant are nil when no model is configured.
type JobHandler struct {
	Jobs      JobSearcher
	FollowUps FollowUpGenerator
	Assistant services.Assistant
}

func NewJobHandler(jobs JobSearcher, followUps FollowUpGenerator, assistant services.Assistant) *JobHandler {
	return &JobHandler{Jobs: jobs, FollowUps: followUps, Assistant: assistant}
}

// SearchJobs is GET /jobs?title=&location=
func (h *JobHandler) SearchJobs(c *gin.Context) {
	var q dtos.JobSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	jobs := h.Jobs.Search(c.Request.Context(), q.Title, q.Location)
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GenerateFollowUp is POST /generate-followup
func (h *JobHandler) GenerateFollowUp(c *gin.Context) {
	if h.FollowUps == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI generation is not configured"})
		return
	}
	var req dtos.FollowUpGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	draft, err := h.FollowUps.GenerateFollowUp(c.Request.Context(), services.FollowUpRequest{
		JobTitle:       req.JobTitle,
		Company:        req.Company,
		JobDescription: req.JobDescription,
		ResumeText:     req.ResumeText,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ChatAssist is POST /ai/chat-assist
func (h *JobHandler) ChatAssist(c *gin.Context) {
	if h.Assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
		return
	}
	var req dtos.ChatAssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Context == "" {
		req.Context = services.AssistContext
	}

	reply, err := h.Assistant.ChatAssist(c.Request.Context(), req.Message, req.UserName, req.Context)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// ExtractResume is POST /resume/extract with a multipart "file".
func (h *JobHandler) ExtractResume(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	if fh.Size > maxResumeSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Resume must be under 5MB"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer f.Close()

	text, err := extractText(fh.Filename, f)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": strings.TrimSpace(text)})
}

func extractText(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.Convert(r, docconv.MimeTypeByExtension(filename), false)
		if err != nil {
			return "", fmt.Errorf("failed to parse document: %w", err)
		}
		return res.Body, nil
	case ".txt":
		b, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}
