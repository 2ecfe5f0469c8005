package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("create product: %w", PayloadTooLarge("too big"))
	assert.Equal(t, KindPayloadTooLarge, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindBadRequest:      http.StatusBadRequest,
		KindUnauthorized:    http.StatusUnauthorized,
		KindNotFound:        http.StatusNotFound,
		KindPayloadTooLarge: http.StatusRequestEntityTooLarge,
		KindInternal:        http.StatusInternalServerError,
		KindDispatch:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, HTTPStatus(kind), kind.String())
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("socket closed")
	err := Internal("failed to upload image", cause)
	assert.Equal(t, "failed to upload image: socket closed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"bad request", BadRequest("phone is required"), http.StatusBadRequest, "phone is required"},
		{"not found", NotFound("product not found"), http.StatusNotFound, "product not found"},
		{"plain error hides cause", errors.New("db down"), http.StatusInternalServerError, "internal server error"},
		{"dispatch", Dispatch("failed to send notifications", errors.New("smtp")), http.StatusInternalServerError, "failed to send notifications"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}
