package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"playapp/internal/middlewares"
	"playapp/internal/models"
	"playapp/internal/services"
	"playapp/internal/utils"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterHandlerSuccess(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{registerMessage: services.MsgRegistered})

	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(
		`{"username":"hamza","email":"hamza@gmail.com","password":"ppoopp00","re_password":"ppoopp00"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User registered successfully.", decodeBody(t, rec)["message"])
}

func TestRegisterHandlerPasswordMismatch(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{})

	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(
		`{"username":"hamza","email":"hamza@gmail.com","password":"ppoopp00","re_password":"different0"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Passwords do not match", decodeBody(t, rec)["message"])
}

func TestRegisterHandlerServiceError(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{
		registerErr: errors.New("A user with that username already exists."),
	})

	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(
		`{"username":"hamza","email":"hamza@gmail.com","password":"ppoopp00","re_password":"ppoopp00"}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "A user with that username already exists.", decodeBody(t, rec)["message"])
}

func TestRegisterHandlerDeliveryFailure(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{registerErr: services.ErrOTPDelivery})

	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(
		`{"username":"hamza","email":"hamza@gmail.com","password":"ppoopp00","re_password":"ppoopp00","otp_required":true}`))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Could not send verification code. Please try again.", decodeBody(t, rec)["message"])
}

func TestVerifyOTPHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h := NewAccountHandler(&fakeAccountService{})

		req := httptest.NewRequest("POST", "/api/verify-otp", strings.NewReader(
			`{"email":"hamza@gmail.com","otp":"123456"}`))
		rec := httptest.NewRecorder()

		h.VerifyOTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Account verified successfully.", decodeBody(t, rec)["message"])
	})

	t.Run("invalid code", func(t *testing.T) {
		h := NewAccountHandler(&fakeAccountService{verifyErr: services.ErrOTPInvalid})

		req := httptest.NewRequest("POST", "/api/verify-otp", strings.NewReader(
			`{"email":"hamza@gmail.com","otp":"000000"}`))
		rec := httptest.NewRecorder()

		h.VerifyOTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid or expired OTP. Please request a new one.", decodeBody(t, rec)["message"])
	})

	t.Run("missing fields", func(t *testing.T) {
		h := NewAccountHandler(&fakeAccountService{})

		req := httptest.NewRequest("POST", "/api/verify-otp", strings.NewReader(`{"email":"hamza@gmail.com"}`))
		rec := httptest.NewRecorder()

		h.VerifyOTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "OTP required.", decodeBody(t, rec)["message"])
	})
}

func TestResendOTPHandler(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{})

	req := httptest.NewRequest("POST", "/api/resend-otp", strings.NewReader(`{"email":"hamza@gmail.com"}`))
	rec := httptest.NewRecorder()

	h.ResendOTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OTP sent to your email.", decodeBody(t, rec)["message"])
}

func TestMeHandler(t *testing.T) {
	userID := primitive.NewObjectID()
	h := NewAccountHandler(&fakeAccountService{
		profile: &models.User{ID: userID, Username: "hamza", Email: "hamza@gmail.com"},
	})

	claims := &utils.Claims{ID: userID.Hex(), Username: "hamza"}
	req := httptest.NewRequest("GET", "/api/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middlewares.ClaimsContextKey, claims))
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "hamza", body["username"])
	// The password hash never leaves the service.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestMeHandlerWithoutClaims(t *testing.T) {
	h := NewAccountHandler(&fakeAccountService{})

	req := httptest.NewRequest("GET", "/api/me", nil)
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
