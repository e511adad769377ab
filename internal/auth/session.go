package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
	"github.com/justsurfingit/jobseeker-portal/internal/storage"
)

const (
	MockUserID    = "123"
	MockUserName  = "Alex Doe"
	MockUserEmail = "alex@example.com"
)

// Session is the identity of one client, persisted under its KV namespace.
// It is built per request and must not be shared between goroutines.
type Session struct {
	kv   storage.KV
	user *models.User
}

func NewSession(kv storage.KV) *Session {
	return &Session{kv: kv}
}

// Hydrate loads the stored identity. Missing or corrupt data leaves the
// session anonymous.
func (s *Session) Hydrate(ctx context.Context) {
	s.user = nil
	raw, ok, err := s.kv.Get(ctx, storage.KeyIdentity)
	if err != nil {
		log.Printf("⚠️ Could not read session: %v", err)
		return
	}
	if !ok || raw == "" {
		return
	}
	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		log.Printf("⚠️ Ignoring corrupt session data")
		return
	}
	s.user = &u
}

func (s *Session) Login(ctx context.Context, u models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, storage.KeyIdentity, string(b)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.user = &u
	return nil
}

// Logout forgets the identity even if the stored copy could not be removed.
func (s *Session) Logout(ctx context.Context) error {
	s.user = nil
	if err := s.kv.Delete(ctx, storage.KeyIdentity); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// User returns nil for an anonymous session.
func (s *Session) User() *models.User {
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.user != nil
}

// MockUser is the demo identity used by the email login form.
func MockUser(email string) models.User {
	if email == "" {
		email = MockUserEmail
	}
	return models.User{ID: MockUserID, Name: MockUserName, Email: email}
}
