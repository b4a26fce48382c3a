package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"envel/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPanicRecovery(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := PanicRecovery()(func(c echo.Context) error {
		panic("something went sideways")
	})

	assert.NotPanics(t, func() {
		assert.NoError(t, handler(c))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var response errors.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, string(errors.SystemInternalError), response.Error.Code)
}

func TestPanicRecoveryPassthrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := PanicRecovery()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
