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

	"github.com/akulinich/recipe-api/internal/models"
	"github.com/akulinich/recipe-api/internal/services"
)

func TestCreateUserHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewMockUserRegisterer(ctrl)
	handler := NewCreateUserHandler(svc)

	tests := []struct {
		name       string
		body       string
		setup      func()
		wantStatus int
		wantField  string
	}{
		{
			name: "valid registration",
			body: `{"email":"test@example.com","password":"secret123","name":"Test User"}`,
			setup: func() {
				svc.EXPECT().
					Register(gomock.Any(), "test@example.com", "secret123", "Test User").
					Return(&models.UserDB{ID: 1, Email: "test@example.com", Name: "Test User"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing email",
			body:       `{"password":"secret123","name":"Test User"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email","password":"secret123"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name:       "password too short",
			body:       `{"email":"test@example.com","password":"pw"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "password",
		},
		{
			name: "duplicate email",
			body: `{"email":"dup@example.com","password":"secret123"}`,
			setup: func() {
				svc.EXPECT().
					Register(gomock.Any(), "dup@example.com", "secret123", "").
					Return(nil, services.ErrUserAlreadyExists)
			},
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}

			req := httptest.NewRequest(http.MethodPost, "/user/create", strings.NewReader(tt.body))
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

	t.Run("response carries no password", func(t *testing.T) {
		svc.EXPECT().
			Register(gomock.Any(), "safe@example.com", "secret123", "").
			Return(&models.UserDB{ID: 2, Email: "safe@example.com", PasswordHash: "$2a$10$hash"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/user/create",
			strings.NewReader(`{"email":"safe@example.com","password":"secret123"}`))
		w := httptest.NewRecorder()
		handler(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
		assert.NotContains(t, w.Body.String(), "$2a$10$hash")
	})
}
