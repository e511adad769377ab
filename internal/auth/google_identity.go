package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/justsurfingit/jobseeker-portal/internal/models"
)

const (
	defaultGoogleName  = "Google User"
	defaultGoogleEmail = "google@example.com"
)

// ErrInvalidToken means Google rejected the access token.
var ErrInvalidToken = errors.New("invalid google access token")

// GoogleIdentity turns a Google access token into a portal user.
type GoogleIdentity struct {
	// Endpoint overrides the Google API base URL.
	Endpoint  string
	Transport http.RoundTripper
}

func NewGoogleIdentity(endpoint string) *GoogleIdentity {
	return &GoogleIdentity{Endpoint: endpoint}
}

func (g *GoogleIdentity) Resolve(ctx context.Context, accessToken string) (models.User, error) {
	if accessToken == "" {
		return models.User{}, ErrInvalidToken
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
			Base:   g.Transport,
		},
	}
	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if g.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(g.Endpoint))
	}
	svc, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		return models.User{}, fmt.Errorf("create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && (gErr.Code == http.StatusUnauthorized || gErr.Code == http.StatusForbidden) {
			return models.User{}, ErrInvalidToken
		}
		return models.User{}, fmt.Errorf("google userinfo: %w", err)
	}

	u := models.User{ID: info.Id, Name: info.Name, Email: info.Email}
	if u.Name == "" {
		u.Name = defaultGoogleName
	}
	if u.Email == "" {
		u.Email = defaultGoogleEmail
	}
	if u.ID == "" {
		u.ID = u.Email
	}
	return u, nil
}
