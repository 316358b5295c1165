package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"context"

	"github.com/labstack/echo/v4"
)

type IAuthService interface {
	AuthURL() string
	HandleCallback(ctx context.Context, code string) (*model.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*model.AuthTokens, error)
}

type AuthAPI struct {
	authService IAuthService
}

func NewAuthAPI(authService IAuthService) *AuthAPI {
	return &AuthAPI{
		authService: authService,
	}
}

func (a *AuthAPI) Setup(g *echo.Group) {
	g.GET("/auth/google/url", a.googleURL)
	g.GET("/auth/google/callback", a.googleCallback)
	g.POST("/auth/refresh", a.refresh)
}

func (a *AuthAPI) googleURL(c echo.Context) error {
	return success(c, map[string]string{
		"url": a.authService.AuthURL(),
	})
}

func (a *AuthAPI) googleCallback(c echo.Context) error {

	ctx := c.Request().Context()

	result, err := a.authService.HandleCallback(ctx, c.QueryParam("code"))
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, result)
}

func (a *AuthAPI) refresh(c echo.Context) error {

	ctx := c.Request().Context()

	var req model.RefreshRequest
	if err := bind(c, &req); err != nil {
		return errorResponse(c, err)
	}

	tokens, err := a.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return errorResponse(c, err)
	}

	return success(c, tokens)
}
