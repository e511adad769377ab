package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobseeker-portal/internal/auth"
	"github.com/justsurfingit/jobseeker-portal/internal/dtos"
	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/services"
)

type Mailer interface {
	Send(ctx context.Context, accessToken string, req services.SendEmailRequest) (*services.SendEmailResult, error)
}

// ApplicationHandler serves the caller's application tracker. Records live in
// the client namespace resolved by auth.ClientScope.
type ApplicationHandler struct {
	Mailer Mailer
	Now    func() time.Time
}

func NewApplicationHandler(mailer Mailer) *ApplicationHandler {
	return &ApplicationHandler{Mailer: mailer, Now: time.Now}
}

func (h *ApplicationHandler) store(c *gin.Context) *services.ApplicationStore {
	s := services.NewApplicationStore(auth.ClientKV(c))
	s.Now = h.Now
	return s
}

func (h *ApplicationHandler) view(rec models.ApplicationRecord, now time.Time) dtos.ApplicationView {
	days := services.DaysSince(rec.AppliedAt, now)
	return dtos.ApplicationView{
		ApplicationRecord: rec,
		StatusLabel:       rec.Status.Label(),
		DaysSince:         days,
		AppliedLabel:      services.AppliedLabel(days),
		NeedsFollowUp:     services.NeedsFollowUp(rec, now),
	}
}

// List is GET /applications?status=
func (h *ApplicationHandler) List(c *gin.Context) {
	var q dtos.ApplicationListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	apps := h.store(c).List(c.Request.Context())
	now := h.Now()
	filtered := services.FilterByStatus(apps, q.Status)
	views := make([]dtos.ApplicationView, 0, len(filtered))
	for _, a := range filtered {
		views = append(views, h.view(a, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": views,
		"stats":        services.ComputeStats(apps),
	})
}

func (h *ApplicationHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, services.ComputeStats(h.store(c).List(c.Request.Context())))
}

// Create is POST /applications. Applying twice to the same job returns the
// existing record with 200.
func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.ApplicationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	rec, created, err := h.store(c).Create(c.Request.Context(), req.Snapshot())
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, h.view(rec, h.Now()))
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	rec, err := h.store(c).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(rec, h.Now()))
}

func (h *ApplicationHandler) Update(c *gin.Context) {
	var req dtos.ApplicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	patch := services.ApplicationPatch{
		Notes:           req.Notes,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactLinkedIn: req.ContactLinkedIn,
	}
	if req.Status != nil {
		st := models.ApplicationStatus(*req.Status)
		patch.Status = &st
	}

	rec, err := h.store(c).Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(rec, h.Now()))
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	removed, err := h.store(c).Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Applied is GET /applications/applied/:jobId
func (h *ApplicationHandler) Applied(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"applied": h.store(c).HasApplied(c.Request.Context(), c.Param("jobId"))})
}

// SendEmail is POST /gmail/send. A successful send with an applicationId marks
// that record as followed up, which needs the caller's X-Client-ID.
func (h *ApplicationHandler) SendEmail(c *gin.Context) {
	var req dtos.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ApplicationID != "" && auth.ClientKV(c) == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing " + auth.ClientIDHeader + " header for applicationId"})
		return
	}

	res, err := h.Mailer.Send(c.Request.Context(), req.AccessToken, services.SendEmailRequest{
		To:             req.To,
		Subject:        req.Subject,
		Body:           req.Body,
		AttachmentName: req.AttachmentName,
		AttachmentData: req.AttachmentData,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if req.ApplicationID != "" {
		if _, err := h.store(c).MarkFollowUpSent(c.Request.Context(), req.ApplicationID); err != nil {
			// the email is already out; report success anyway
			log.Printf("⚠️ Could not mark application %s as followed up: %v", req.ApplicationID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"messageId": res.MessageID,
		"threadId":  res.ThreadID,
	})
}
