package apis

import (
	"capstone-calendar-backend/cmd/capstone-calendar/model"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(userIDKey, "user-1")
	return c, rec
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) model.BaseResponse {
	t.Helper()
	var response model.BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	return response
}

// decodeData re-decodes the Data field of a BaseResponse into out.
func decodeData(t *testing.T, response model.BaseResponse, out any) {
	t.Helper()
	raw, err := json.Marshal(response.Data)
	require.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, out))
}
