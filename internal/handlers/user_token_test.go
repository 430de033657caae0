package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akulinich/recipe-api/internal/services"
)

func TestCreateTokenHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockTokenIssuer(ctrl)
	handler := NewCreateTokenHandler(svc)

	tests := []struct {
		name       string
		body       string
		setup      func()
		wantStatus int
		wantField  string
	}{
		{
			name: "valid credentials",
			body: `{"email":"test@example.com","password":"secret123"}`,
			setup: func() {
				svc.EXPECT().
					IssueToken(gomock.Any(), "test@example.com", "secret123").
					Return("issued-token", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "bad credentials",
			body: `{"email":"test@example.com","password":"wrong"}`,
			setup: func() {
				svc.EXPECT().
					IssueToken(gomock.Any(), "test@example.com", "wrong").
					Return("", services.ErrInvalidCredentials)
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "non_field_errors",
		},
		{
			name:       "blank password",
			body:       `{"email":"test@example.com","password":""}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "password",
		},
		{
			name:       "blank email",
			body:       `{"email":"","password":"secret123"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			req := httptest.NewRequest(http.MethodPost, "/user/token", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				var body map[string][]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Contains(t, body, tt.wantField)
			}
		})
	}

	t.Run("token lands in the response body", func(t *testing.T) {
		svc.EXPECT().
			IssueToken(gomock.Any(), "test@example.com", "secret123").
			Return("issued-token", nil)

		req := httptest.NewRequest(http.MethodPost, "/user/token",
			strings.NewReader(`{"email":"test@example.com","password":"secret123"}`))
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp TokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "issued-token", resp.Token)
	})
}
