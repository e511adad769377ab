package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// SendEmailRequest is one outgoing message. AttachmentData is already base64.
type SendEmailRequest struct {
	To             string
	Subject        string
	Body           string
	AttachmentName string
	AttachmentData string
}

type SendEmailResult struct {
	MessageID string `json:"messageId"`
	ThreadID  string `json:"threadId"`
}

type EmailService struct {
	// Endpoint overrides the Gmail API base URL (tests, proxies).
	Endpoint string
	// Transport is the round tripper under the bearer-token layer.
	Transport   http.RoundTripper
	NewBoundary func() string
}

func NewEmailService(endpoint string) *EmailService {
	return &EmailService{
		Endpoint:    endpoint,
		NewBoundary: timestampBoundary,
	}
}

var boundarySeq atomic.Uint64

func timestampBoundary() string {
	return fmt.Sprintf("boundary_%d_%d", time.Now().UnixNano(), boundarySeq.Add(1))
}

// Send builds the MIME message and posts it through the Gmail API on behalf of
// the owner of accessToken.
func (s *EmailService) Send(ctx context.Context, accessToken string, req SendEmailRequest) (*SendEmailResult, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("gmail: %w", ErrAuthentication)
	}
	if err := validateEmailRequest(req); err != nil {
		return nil, err
	}

	newBoundary := s.NewBoundary
	if newBoundary == nil {
		newBoundary = timestampBoundary
	}
	raw := EncodeRawMessage(BuildMIMEMessage(req, newBoundary()))

	svc, err := s.gmailFor(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	sent, err := svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) {
			log.Printf("❌ Gmail API error: %d %s", gErr.Code, gErr.Message)
			msg := gErr.Message
			if msg == "" {
				msg = "Unknown error"
			}
			return nil, &UpstreamError{Status: gErr.Code, Message: msg}
		}
		return nil, fmt.Errorf("gmail send: %w", err)
	}

	log.Printf("📧 Sent email to %s (id=%s)", req.To, sent.Id)
	return &SendEmailResult{MessageID: sent.Id, ThreadID: sent.ThreadId}, nil
}

func (s *EmailService) gmailFor(ctx context.Context, accessToken string) (*gmail.Service, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   s.Transport,
		},
	}
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if s.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(s.Endpoint))
	}
	return gmail.NewService(ctx, opts...)
}

func validateEmailRequest(req SendEmailRequest) error {
	if req.To == "" || req.Subject == "" || req.Body == "" {
		return fmt.Errorf("%w: missing required fields: to, subject, body", ErrValidation)
	}
	// header values must stay on one line
	for _, v := range []string{req.To, req.Subject, req.AttachmentName} {
		if strings.ContainsAny(v, "\r\n") {
			return fmt.Errorf("%w: header fields must not contain line breaks", ErrValidation)
		}
	}
	return nil
}

// BuildMIMEMessage renders a single-part message, or a multipart/mixed one
// when an attachment is present.
func BuildMIMEMessage(req SendEmailRequest, boundary string) string {
	subject := mime.QEncoding.Encode("utf-8", req.Subject)

	if req.AttachmentData == "" || req.AttachmentName == "" {
		return strings.Join([]string{
			"From: me",
			"To: " + req.To,
			"Subject: " + subject,
			`Content-Type: text/plain; charset="UTF-8"`,
			"",
			req.Body,
		}, "\r\n")
	}

	return strings.Join([]string{
		"From: me",
		"To: " + req.To,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		fmt.Sprintf(`Content-Type: multipart/mixed; boundary="%s"`, boundary),
		"",
		"--" + boundary,
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		req.Body,
		"",
		"--" + boundary,
		fmt.Sprintf(`Content-Type: application/octet-stream; name="%s"`, req.AttachmentName),
		fmt.Sprintf(`Content-Disposition: attachment; filename="%s"`, req.AttachmentName),
		"Content-Transfer-Encoding: base64",
		"",
		req.AttachmentData,
		"--" + boundary + "--",
	}, "\r\n")
}

// EncodeRawMessage is base64url without padding, the form Gmail expects in "raw".
func EncodeRawMessage(msg string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(msg))
}
