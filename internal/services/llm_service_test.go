package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/justsurfingit/jobseeker-portal/internal/services"
)

// stubModel answers every prompt with reply (or err) and remembers the last prompt.
type stubModel struct {
	reply  string
	err    error
	prompt string
}

func (m *stubModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(messages) > 0 && len(messages[0].Parts) > 0 {
		if txt, ok := messages[0].Parts[0].(llms.TextContent); ok {
			m.prompt = txt.Text
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestGenerateFollowUpParsesFencedJSON(t *testing.T) {
	model := &stubModel{reply: "```json\n{\"email\":{\"subject\":\"Following up\",\"body\":\"Hi Jane\"},\"linkedinMessage\":\"Hello!\"}\n```"}
	svc := &services.LLMService{Client: model}

	draft, err := svc.GenerateFollowUp(context.Background(), services.FollowUpRequest{
		JobTitle:    "Software Engineer",
		Company:     "Acme",
		ContactName: "Jane",
	})
	if err != nil {
		t.Fatalf("GenerateFollowUp: %v", err)
	}
	if draft.Email.Subject != "Following up" || draft.Email.Body != "Hi Jane" || draft.LinkedInMessage != "Hello!" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if !strings.Contains(model.prompt, "Company: Acme") || !strings.Contains(model.prompt, "Role: Software Engineer") {
		t.Fatalf("prompt is missing application details:\n%s", model.prompt)
	}
}

func TestGenerateFollowUpErrors(t *testing.T) {
	ctx := context.Background()

	svc := &services.LLMService{Client: &stubModel{reply: "{}"}}
	if _, err := svc.GenerateFollowUp(ctx, services.FollowUpRequest{Company: "Acme"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	svc = &services.LLMService{Client: &stubModel{reply: "sorry, I can't"}}
	var upErr *services.UpstreamError
	if _, err := svc.GenerateFollowUp(ctx, services.FollowUpRequest{JobTitle: "x", Company: "y"}); !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError for invalid JSON, got %v", err)
	}

	svc = &services.LLMService{Client: &stubModel{err: errors.New("quota exceeded")}}
	if _, err := svc.GenerateFollowUp(ctx, services.FollowUpRequest{JobTitle: "x", Company: "y"}); !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError for model failure, got %v", err)
	}
}

func TestChatAssist(t *testing.T) {
	model := &stubModel{reply: "  Try updating your resume.  "}
	svc := &services.LLMService{Client: model}

	reply, err := svc.ChatAssist(context.Background(), "hello @AI can you help", "Alex", "Browsing Community Jobs")
	if err != nil {
		t.Fatalf("ChatAssist: %v", err)
	}
	if reply != "Try updating your resume." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if !strings.Contains(model.prompt, "Member: Alex") || !strings.Contains(model.prompt, "Context: Browsing Community Jobs") {
		t.Fatalf("prompt missing sender or context:\n%s", model.prompt)
	}

	svc = &services.LLMService{Client: &stubModel{reply: "   "}}
	if _, err := svc.ChatAssist(context.Background(), "@AI", "Alex", "ctx"); err == nil {
		t.Fatalf("expected error on empty reply")
	}
}
