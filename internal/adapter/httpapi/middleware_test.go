package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware(t *testing.T) {
	validToken := "test-token-123"

	tests := []struct {
		name           string
		token          string
		handlerCalled  bool
		expectedStatus int
	}{
		{
			name:           "Valid Token",
			token:          validToken,
			handlerCalled:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid Token",
			token:          "wrong-token",
			handlerCalled:  false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing Authorization Header",
			token:          "",
			handlerCalled:  false,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			handler := AuthMiddleware(validToken, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/holdings", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.handlerCalled, handlerCalled, "handler called status mismatch")
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
