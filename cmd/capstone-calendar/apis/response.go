package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/apperr"
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	userIDKey       = "user_id"
	handlerErrorKey = "handler_error"
)

// errorResponse answers with the client-safe message of err. The full
// error is kept on the context for RequestLogger.
func errorResponse(c echo.Context, err error) error {
	c.Set(handlerErrorKey, err)
	return c.JSON(
		apperr.StatusOf(err),
		model.BaseResponse{
			Message: apperr.PublicMessage(err),
		},
	)
}

func success(c echo.Context, data any) error {
	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    data,
		},
	)
}

// currentUserID is set by JWTAuth.
func currentUserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// bind decodes the body into req and validates it. Both failures are
// Validation errors.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
