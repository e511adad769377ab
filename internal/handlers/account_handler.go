package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobseeker-portal/internal/auth"
	"github.com/justsurfingit/jobseeker-portal/internal/dtos"
	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/services"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, accessToken string) (models.User, error)
}

// AccountHandler covers login state and the benefit application wizard.
type AccountHandler struct {
	Identity IdentityResolver
	Benefits *services.BenefitService
}

func NewAccountHandler(identity IdentityResolver, benefits *services.BenefitService) *AccountHandler {
	return &AccountHandler{Identity: identity, Benefits: benefits}
}

// Login is POST /auth/login. With an accessToken the Google profile is used,
// otherwise the demo user.
func (h *AccountHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user := auth.MockUser(req.Email)
	if req.AccessToken != "" {
		u, err := h.Identity.Resolve(c.Request.Context(), req.AccessToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Google sign-in failed"})
				return
			}
			log.Printf("❌ Google profile lookup failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Google sign-in failed"})
			return
		}
		user = u
	}

	if err := auth.SessionFrom(c).Login(c.Request.Context(), user); err != nil {
		respondError(c, errors.Join(services.ErrStorageUnavailable, err))
		return
	}
	log.Printf("👤 %s signed in", user.Email)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AccountHandler) Logout(c *gin.Context) {
	if err := auth.SessionFrom(c).Logout(c.Request.Context()); err != nil {
		log.Printf("⚠️ Logout could not clear stored session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AccountHandler) Me(c *gin.Context) {
	s := auth.SessionFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"authenticated": s.IsAuthenticated(),
		"user":          s.User(),
	})
}

func (h *AccountHandler) ApplySteps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"steps": services.BenefitSteps})
}

// Apply is POST /apply. The signed-in user wins over a userId in the body.
func (h *AccountHandler) Apply(c *gin.Context) {
	var req dtos.BenefitApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	userID := req.UserID
	if u := auth.SessionFrom(c).User(); u != nil {
		userID = u.ID
	}
	if userID == "" {
		respondError(c, services.ErrAuthentication)
		return
	}

	id, err := h.Benefits.Submit(c.Request.Context(), auth.ClientKV(c), userID, req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id})
}
