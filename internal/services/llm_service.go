package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

type LLMService struct {
	// Shared model client; created once at startup.
	Client llms.Model
}

// NewLLMService initializes the Gemini client.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is empty: %w", ErrAuthentication)
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &LLMService{Client: llm}, nil
}

type FollowUpRequest struct {
	JobTitle       string `json:"jobTitle"`
	Company        string `json:"company"`
	JobDescription string `json:"jobDescription"`
	ResumeText     string `json:"resumeText"`
	ContactName    string `json:"contactName"`
	ContactEmail   string `json:"contactEmail"`
}

type FollowUpEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type FollowUpDraft struct {
	Email           FollowUpEmail `json:"email"`
	LinkedInMessage string        `json:"linkedinMessage"`
}

const followUpPrompt = `
You are a career coach helping a job seeker follow up on an application they already submitted.

### INSTRUCTIONS:
1. Write a short, polite follow-up EMAIL to the hiring contact (under 150 words).
2. Write a LinkedIn connection message (under 300 characters).
3. Use the resume only to pick one or two relevant strengths. Do not invent experience.
4. Address the contact by name if one is given, otherwise use "Hiring Team".
5. Format the output as valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "email": {"subject": "Email subject line", "body": "Email body"},
    "linkedinMessage": "LinkedIn message"
}

### APPLICATION:
Role: %s
Company: %s
Contact: %s <%s>

Job description:
%s

Resume:
%s
`

// GenerateFollowUp drafts an email and a LinkedIn note for an application.
func (s *LLMService) GenerateFollowUp(ctx context.Context, req FollowUpRequest) (*FollowUpDraft, error) {
	if req.JobTitle == "" || req.Company == "" {
		return nil, fmt.Errorf("%w: jobTitle and company are required", ErrValidation)
	}

	prompt := fmt.Sprintf(followUpPrompt,
		req.JobTitle,
		req.Company,
		req.ContactName, req.ContactEmail,
		truncate(req.JobDescription, 8000),
		truncate(req.ResumeText, 8000),
	)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return nil, &UpstreamError{Status: 502, Message: err.Error()}
	}

	var draft FollowUpDraft
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		return nil, &UpstreamError{Status: 502, Message: "model returned invalid JSON: " + err.Error()}
	}
	if draft.Email.Subject == "" || draft.Email.Body == "" {
		return nil, &UpstreamError{Status: 502, Message: "model returned an empty email"}
	}
	return &draft, nil
}

const chatAssistPrompt = `
You are the AI Assistant in a community chat for job seekers.
Answer the member's message helpfully and briefly (at most 4 sentences, plain text, no markdown).
If they ask about unemployment benefits, remind them to use the official application form.

Context: %s
Member: %s
Message: %s
`

// ChatAssist answers a chat message that mentioned the assistant.
func (s *LLMService) ChatAssist(ctx context.Context, message, userName, contextLabel string) (string, error) {
	prompt := fmt.Sprintf(chatAssistPrompt, contextLabel, userName, message)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt)
	if err != nil {
		return "", &UpstreamError{Status: 502, Message: err.Error()}
	}
	reply := strings.TrimSpace(resp)
	if reply == "" {
		return "", &UpstreamError{Status: 502, Message: "model returned an empty reply"}
	}
	return reply, nil
}

// stripCodeFence drops a surrounding ```json ... ``` block if the model added one.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl != -1 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
