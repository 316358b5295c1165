package gcal

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var Scopes = []string{
	googleoauth.UserinfoProfileScope,
	googleoauth.UserinfoEmailScope,
	calendar.CalendarScope,
}

type Profile struct {
	GoogleID string
	Email    string
	Name     string
	Picture  string
}

type OAuth struct {
	config *oauth2.Config

	// extra options for the userinfo service, used by tests
	apiOpts []option.ClientOption
}

func NewOAuth(clientID, clientSecret, redirectURL string) *OAuth {
	return &OAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
		},
	}
}

// AuthCodeURL asks for offline access and forces the consent screen so a
// refresh token is always issued.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

func (o *OAuth) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return o.config.TokenSource(ctx, token)
}

// Profile fetches the Google account behind token.
func (o *OAuth) Profile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(o.TokenSource(ctx, token))}, o.apiOpts...)

	service, err := googleoauth.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo service: %w", err)
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google profile: %w", err)
	}

	return &Profile{
		GoogleID: info.Id,
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
	}, nil
}
