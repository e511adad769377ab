package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/datatypes"

	"github.com/justsurfingit/jobseeker-portal/internal/feed"
	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

// ChatWindowSize is how many of the newest entries a subscriber sees.
const ChatWindowSize = 50

// MessageLog is the ordered, externally owned chat log. Latest returns the
// newest entries first.
type MessageLog interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	Latest(ctx context.Context, limit int) ([]models.ChatMessage, error)
}

// ChatService appends to the message log and pushes the visible window to
// live subscribers whenever the log changes.
type ChatService struct {
	log      MessageLog
	notifier feed.Notifier
	hub      *feed.Hub[[]models.ChatMessage]

	// serializes read+publish so snapshots reach the hub in log order
	refreshMu sync.Mutex
}

// NewChatService listens on notifier until ctx is done.
func NewChatService(ctx context.Context, messageLog MessageLog, notifier feed.Notifier) *ChatService {
	s := &ChatService{
		log:      messageLog,
		notifier: notifier,
		hub:      feed.NewHub[[]models.ChatMessage](),
	}
	notifier.Listen(ctx, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.refresh(refreshCtx)
	})
	return s
}

// Window returns the newest ChatWindowSize entries, oldest first.
func (s *ChatService) Window(ctx context.Context) ([]models.ChatMessage, error) {
	msgs, err := s.log.Latest(ctx, ChatWindowSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return msgs, nil
}

func (s *ChatService) refresh(ctx context.Context) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	msgs, err := s.Window(ctx)
	if err != nil {
		log.Printf("⚠️ Chat refresh failed: %v", err)
		return
	}
	s.hub.Publish(msgs)
}

// Send appends one entry. A log failure is logged and returned as
// ErrStorageUnavailable; the caller decides whether to show it.
func (s *ChatService) Send(ctx context.Context, userID, userName, text string, msgType models.MessageType, details *models.JobDetails) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is empty", ErrValidation)
	}
	if msgType == "" {
		msgType = models.MessageText
	}

	msg := &models.ChatMessage{
		UserID:   userID,
		UserName: userName,
		Text:     text,
		Type:     msgType,
	}
	if details != nil {
		msg.JobDetails = datatypes.NewJSONType(details)
	}

	if err := s.log.Append(ctx, msg); err != nil {
		log.Printf("❌ Error sending message: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if err := s.notifier.Notify(ctx); err != nil {
		// the entry is stored; subscribers catch up on the next change
		log.Printf("⚠️ Chat notify failed: %v", err)
	}
	return msg, nil
}

// Subscribe calls onUpdate with every pushed window, oldest entry first. Each
// call carries the full visible state. The returned function must be called
// when the consumer goes away; once it returns onUpdate is not called again.
// onUpdate must not call it itself. Windows are shared between subscribers
// and must not be modified.
func (s *ChatService) Subscribe(onUpdate func([]models.ChatMessage)) (unsubscribe func()) {
	sub := s.hub.Subscribe()
	if _, ok := s.hub.Latest(); !ok {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s.refresh(ctx)
		cancel()
	}

	var stopped atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msgs := range sub.Updates() {
			if stopped.Load() {
				return
			}
			onUpdate(msgs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopped.Store(true)
			sub.Close()
			<-done
		})
	}
}

// SubscriberCount reports how many live subscriptions are attached.
func (s *ChatService) SubscriberCount() int {
	return s.hub.Len()
}
