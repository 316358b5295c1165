package gcal

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

type CredentialStore interface {
	FindCredentialByUserID(ctx context.Context, userID string) (*model.GoogleCredential, error)
	SaveCredentialToken(ctx context.Context, userID, accessToken, refreshToken string, expiresAt *time.Time) error
}

// ClientFactory builds calendar clients authorised with a user's stored
// Google tokens.
type ClientFactory struct {
	oauth      *OAuth
	store      CredentialStore
	calendarID string
	logger     *zap.Logger
	apiOpts    []option.ClientOption
}

func NewClientFactory(oauth *OAuth, store CredentialStore, calendarID string, logger *zap.Logger) *ClientFactory {
	return &ClientFactory{
		oauth:      oauth,
		store:      store,
		calendarID: calendarID,
		logger:     logger,
	}
}

// ForUser fails with Unauthorized when the user never connected Google.
func (f *ClientFactory) ForUser(ctx context.Context, userID string) (EventClient, error) {
	cred, err := f.store.FindCredentialByUserID(ctx, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Unauthorized("google calendar is not connected for this user")
	}
	if err != nil {
		return nil, err
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return nil, apperr.Unauthorized("google calendar is not connected for this user")
	}

	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    "Bearer",
	}
	if cred.ExpiresAt != nil {
		token.Expiry = *cred.ExpiresAt
	}

	source := &persistingTokenSource{
		base:   oauth2.ReuseTokenSource(token, f.oauth.TokenSource(ctx, token)),
		last:   token.AccessToken,
		userID: userID,
		save: func(t *oauth2.Token) error {
			var expiry *time.Time
			if !t.Expiry.IsZero() {
				expiry = &t.Expiry
			}
			return f.store.SaveCredentialToken(ctx, userID, t.AccessToken, t.RefreshToken, expiry)
		},
		logger: f.logger,
	}

	return NewClient(ctx, oauth2.NewClient(ctx, source), f.calendarID, f.apiOpts...)
}

// persistingTokenSource writes a refreshed token back to the store so the
// next request starts from it.
type persistingTokenSource struct {
	mu     sync.Mutex
	base   oauth2.TokenSource
	last   string
	userID string
	save   func(*oauth2.Token) error
	logger *zap.Logger
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token.AccessToken != s.last {
		if err := s.save(token); err != nil {
			s.logger.Warn("failed to persist refreshed google token",
				zap.String("user_id", s.userID),
				zap.Error(err),
			)
		} else {
			s.logger.Info("google token refreshed", zap.String("user_id", s.userID))
		}
		s.last = token.AccessToken
	}

	return token, nil
}
