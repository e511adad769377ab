package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

const (
	AssistantUserID   = "ai-agent"
	AssistantUserName = "AI Assistant"
	AssistContext     = "Browsing Community Jobs"
)

// Assistant produces a chat reply for a message that mentioned it.
type Assistant interface {
	ChatAssist(ctx context.Context, message, userName, contextLabel string) (string, error)
}

// ChatSender is the write side of the chat log.
type ChatSender interface {
	Send(ctx context.Context, userID, userName, text string, msgType models.MessageType, details *models.JobDetails) (*models.ChatMessage, error)
}

// MentionDispatcher answers "@AI" mentions in the background. Failures are
// logged and otherwise ignored: the user's own message is already stored.
type MentionDispatcher struct {
	chat      ChatSender
	assistant Assistant
	Timeout   time.Duration
	wg        sync.WaitGroup
}

func NewMentionDispatcher(chat ChatSender, assistant Assistant) *MentionDispatcher {
	return &MentionDispatcher{
		chat:      chat,
		assistant: assistant,
		Timeout:   30 * time.Second,
	}
}

// AfterSend starts a dispatch for msg if it mentions the assistant. It never blocks.
func (d *MentionDispatcher) AfterSend(msg models.ChatMessage) {
	if msg.UserID == AssistantUserID || !MentionsAssistant(msg.Text) {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.Timeout)
		defer cancel()
		d.Dispatch(ctx, msg)
	}()
}

// Dispatch asks the assistant and appends its reply under the synthetic
// sender. It reports whether a reply was appended.
func (d *MentionDispatcher) Dispatch(ctx context.Context, msg models.ChatMessage) bool {
	if d.assistant == nil {
		log.Println("⚠️ AI mention ignored: no assistant configured")
		return false
	}

	reply, err := d.assistant.ChatAssist(ctx, msg.Text, msg.UserName, AssistContext)
	if err != nil {
		log.Printf("⚠️ AI failed to respond: %v", err)
		return false
	}
	if reply == "" {
		return false
	}

	if _, err := d.chat.Send(ctx, AssistantUserID, AssistantUserName, reply, models.MessageText, nil); err != nil {
		log.Printf("⚠️ AI reply not stored: %v", err)
		return false
	}
	return true
}

// Wait blocks until background dispatches finish.
func (d *MentionDispatcher) Wait() {
	d.wg.Wait()
}

// AssistClient calls a remote chat-assist endpoint instead of the local model.
type AssistClient struct {
	URL    string
	client *resty.Client
}

func NewAssistClient(url string) *AssistClient {
	return &AssistClient{URL: url, client: resty.New().SetTimeout(20 * time.Second)}
}

type assistRequest struct {
	Message  string `json:"message"`
	UserName string `json:"userName"`
	Context  string `json:"context"`
}

type assistResponse struct {
	Reply string `json:"reply"`
}

func (c *AssistClient) ChatAssist(ctx context.Context, message, userName, contextLabel string) (string, error) {
	var out assistResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(assistRequest{Message: message, UserName: userName, Context: contextLabel}).
		SetResult(&out).
		Post(c.URL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", &UpstreamError{Status: resp.StatusCode(), Message: string(resp.Body())}
	}
	return out.Reply, nil
}
