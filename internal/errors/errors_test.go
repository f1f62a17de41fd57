package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMarshalJSON(t *testing.T) {
	tests := []struct {
		name         string
		err          *AppError
		expectedCode string
		expectedHTTP int
	}{
		{
			name:         "validation error without cause",
			err:          NewValidationError("invalid JSON body", "unexpected token"),
			expectedCode: "VALIDATION_ERROR",
			expectedHTTP: http.StatusBadRequest,
		},
		{
			name:         "not found error without cause",
			err:          NewNotFoundError("assessment"),
			expectedCode: "NOT_FOUND",
			expectedHTTP: http.StatusNotFound,
		},
		{
			name:         "timeout error",
			err:          NewTimeoutError("deadline exceeded", context.DeadlineExceeded),
			expectedCode: "TIMEOUT_ERROR",
			expectedHTTP: http.StatusGatewayTimeout,
		},
		{
			name:         "internal error",
			err:          NewInternalError("boom", errors.New("cause")),
			expectedCode: "INTERNAL_ERROR",
			expectedHTTP: http.StatusInternalServerError,
		},
		{
			name:         "configuration error",
			err:          NewConfigurationError("weights sum to 1.2", errors.New("bad table")),
			expectedCode: "CONFIGURATION_ERROR",
			expectedHTTP: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.err)
			require.NoError(t, err)

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &payload))

			assert.Equal(t, tt.expectedCode, payload["error"])
			assert.Equal(t, float64(tt.expectedHTTP), payload["http_status"])
			assert.NotEmpty(t, payload["message"])
			assert.NotEmpty(t, payload["category"])
		})
	}
}

func TestAppErrorMarshalIncludesDetails(t *testing.T) {
	data, err := json.Marshal(NewValidationError("invalid CSV payload", "failed to read CSV header"))
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "failed to read CSV header", payload["details"])
}

func TestErrorResponseKeepsClientStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.Use(RecoveryHandler())
	r.POST("/bad", func(c *gin.Context) {
		appErr := NewValidationError("invalid JSON body", "unexpected token")
		c.JSON(appErr.HTTPStatus, appErr)
	})
	r.GET("/missing", func(c *gin.Context) {
		appErr := NewNotFoundError("assessment")
		c.JSON(appErr.HTTPStatus, appErr)
	})

	t.Run("validation stays 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/bad", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "VALIDATION_ERROR", payload["error"])
	})

	t.Run("not found stays 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/missing", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestToAppError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, ToAppError(nil))
	})

	t.Run("app error unchanged", func(t *testing.T) {
		original := NewNotFoundError("assessment")
		assert.Same(t, original, ToAppError(original))
	})

	t.Run("context cancellation maps to timeout", func(t *testing.T) {
		appErr := ToAppError(context.Canceled)
		assert.Equal(t, CategoryTimeout, appErr.Category)
		assert.Equal(t, http.StatusGatewayTimeout, appErr.HTTPStatus)
	})

	t.Run("deadline maps to timeout", func(t *testing.T) {
		appErr := ToAppError(fmt.Errorf("assess: %w", context.DeadlineExceeded))
		assert.Equal(t, CategoryTimeout, appErr.Category)
	})

	t.Run("unknown error maps to internal", func(t *testing.T) {
		appErr := ToAppError(errors.New("disk on fire"))
		assert.Equal(t, CategoryInternal, appErr.Category)
		assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
	})
}

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapError(nil, "opening history in %s", "/data"))
	})

	t.Run("wraps with context", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := WrapError(cause, "opening history in %s", "/data")

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "opening history in /data")
	})
}
