package dtos

import "github.com/justsurfingit/jobseeker-portal/internal/models"

type SendEmailRequest struct {
	AccessToken    string `json:"accessToken"`
	To             string `json:"to"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	AttachmentName string `json:"attachmentName"`
	AttachmentData string `json:"attachmentData"`
	ApplicationID  string `json:"applicationId"`
}

type FollowUpGenerateRequest struct {
	JobTitle       string `json:"jobTitle" binding:"required"`
	Company        string `json:"company" binding:"required"`
	JobDescription string `json:"jobDescription"`
	ResumeText     string `json:"resumeText"`
	ContactName    string `json:"contactName"`
	ContactEmail   string `json:"contactEmail"`
}

type ChatAssistRequest struct {
	Message  string `json:"message" binding:"required"`
	UserName string `json:"userName"`
	Context  string `json:"context"`
}

type ChatPostRequest struct {
	Text       string             `json:"text" binding:"required"`
	Type       models.MessageType `json:"type" binding:"omitempty,oneof=text job-share"`
	JobDetails *models.JobDetails `json:"jobDetails"`
}
