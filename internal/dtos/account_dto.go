package dtos

import "github.com/justsurfingit/jobseeker-portal/internal/services"

// LoginRequest logs in with a Google access token, or as the demo user when
// no token is given.
type LoginRequest struct {
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

type BenefitApplyRequest struct {
	UserID  string                  `json:"userId"`
	Answers services.BenefitAnswers `json:"answers"`
}
