package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playapp/internal/models"
)

func TestTokenHandlerSuccess(t *testing.T) {
	auth := &fakeAuthService{pair: &models.TokenPair{Access: "token-a", Refresh: "token-a"}}
	h := NewAuthHandler(auth)

	req := httptest.NewRequest("POST", "/api/token", strings.NewReader(
		`{"username":"hamza","password":"ppoopp00"}`))
	rec := httptest.NewRecorder()

	h.Token(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "token-a", body["access"])
	assert.Equal(t, "token-a", body["refresh"])
	assert.False(t, auth.gotExternalAuth)
}

func TestTokenHandlerNormalizesIdentifier(t *testing.T) {
	auth := &fakeAuthService{pair: &models.TokenPair{Access: "token-a", Refresh: "token-a"}}
	h := NewAuthHandler(auth)

	req := httptest.NewRequest("POST", "/api/token", strings.NewReader(
		`{"username":"  HaMzA ","password":"ppoopp00"}`))
	rec := httptest.NewRecorder()

	h.Token(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hamza", auth.gotIdentifier)
}

func TestTokenHandlerMissingFields(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})

	req := httptest.NewRequest("POST", "/api/token", strings.NewReader(`{"password":"ppoopp00"}`))
	rec := httptest.NewRecorder()
	h.Token(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username required.", decodeBody(t, rec)["message"])

	req = httptest.NewRequest("POST", "/api/token", strings.NewReader(`{"username":"hamza"}`))
	rec = httptest.NewRecorder()
	h.Token(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password required.", decodeBody(t, rec)["message"])
}

func TestTokenHandlerStructuredFailures(t *testing.T) {
	tests := []struct {
		name       string
		err        *models.AuthError
		wantStatus int
	}{
		{
			name:       "unknown user",
			err:        &models.AuthError{Message: "Invalid credentials. Please try again.", Code: "400"},
			wantStatus: 400,
		},
		{
			name: "wrong password",
			err: &models.AuthError{
				Message: "Incorrect password. Please try with right credentials.",
				Email:   "hamza",
				Code:    "404",
			},
			wantStatus: 404,
		},
		{
			name: "inactive account",
			err: &models.AuthError{
				Message: "INACTIVE. This user exists but it's not verified yet. We have sent OTP on linked email of this account. Please Verify.",
				Email:   "hamza@gmail.com",
				Code:    "505",
			},
			wantStatus: 505,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeAuthService{err: tt.err})

			req := httptest.NewRequest("POST", "/api/token", strings.NewReader(
				`{"username":"hamza","password":"ppoopp00"}`))
			rec := httptest.NewRecorder()

			h.Token(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.err.Message, body["message"])
			assert.Equal(t, tt.err.Code, body["code"])
			if tt.err.Email != "" {
				assert.Equal(t, tt.err.Email, body["email"])
			} else {
				assert.NotContains(t, body, "email")
			}
		})
	}
}

func TestAuthErrorHandler(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{})

	req := httptest.NewRequest("GET", "/api/auth/error", nil)
	rec := httptest.NewRecorder()

	h.AuthError(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authentication failed")
}
