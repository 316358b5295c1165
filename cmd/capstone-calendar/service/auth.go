package service

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/auth"
	"capstone-calendar-backend/cmd/capstone-calendar/gcal"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// OAuthProvider is the Google sign-in side of gcal.OAuth.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Profile(ctx context.Context, token *oauth2.Token) (*gcal.Profile, error)
}

type AuthService struct {
	oauth  OAuthProvider
	users  UserStore
	tokens *auth.Manager
	logger *zap.Logger
}

func NewAuthService(oauth OAuthProvider, users UserStore, tokens *auth.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		oauth:  oauth,
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

func (s *AuthService) AuthURL() string {
	return s.oauth.AuthCodeURL(uuid.NewString())
}

// HandleCallback signs the Google user in, storing the profile and the
// granted tokens, and issues the API token pair.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (*model.AuthResult, error) {
	if strings.TrimSpace(code) == "" {
		return nil, apperr.Validation("authorization code is required")
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindUnauthorized, Message: "google sign-in failed", Err: err}
	}

	profile, err := s.oauth.Profile(ctx, token)
	if err != nil {
		return nil, &apperr.Error{Kind: apperr.KindUnauthorized, Message: "could not read google profile", Err: err}
	}
	if profile.Email == "" {
		return nil, apperr.Unauthorized("google profile has no email")
	}

	user := &model.User{
		Email:     profile.Email,
		Name:      profile.Name,
		AvatarURL: profile.Picture,
	}
	cred := &model.GoogleCredential{
		GoogleID:     profile.GoogleID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		cred.Scope = scope
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		cred.ExpiresAt = &expiry
	}

	if err := s.users.UpsertGoogleUser(ctx, user, cred); err != nil {
		return nil, err
	}

	tokens, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in", zap.String("user_id", user.ID))

	return &model.AuthResult{User: *user, Tokens: *tokens}, nil
}

func (s *AuthService) issue(user *model.User) (*model.AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &model.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh trades a refresh token for a new access token. The refresh token
// itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthTokens, error) {
	claims, err := s.tokens.ParseTokenOfType(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, tokenError(err)
	}

	user, err := s.findUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &model.AuthTokens{AccessToken: access, RefreshToken: refreshToken}, nil
}

// Authenticate resolves an access token to a user that still exists.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.tokens.ParseTokenOfType(accessToken, auth.TokenTypeAccess)
	if err != nil {
		return nil, tokenError(err)
	}
	return s.findUser(ctx, claims.UserID)
}

func (s *AuthService) findUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

func tokenError(err error) error {
	if errors.Is(err, auth.ErrTokenExpired) {
		return &apperr.Error{Kind: apperr.KindUnauthorized, Message: "token expired", Err: err}
	}
	return &apperr.Error{Kind: apperr.KindUnauthorized, Message: "invalid token", Err: err}
}
