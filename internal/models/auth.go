package models

import (
	"net/http"
	"strconv"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNo     string `json:"phone_no,omitempty"`
	Password    string `json:"password"`
	RePassword  string `json:"re_password"`
	Referrer    string `json:"referrer,omitempty"`
	OTPRequired bool   `json:"otp_required,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthError is a rejection from the authentication decision flow. Code is the
// structured error code echoed to the client ("400", "404", "505"); the HTTP
// status mirrors it when parseable.
type AuthError struct {
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Code    string `json:"code"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// HTTPStatus resolves the status to respond with. Unparseable or out-of-range
// codes fall back to 401.
func (e *AuthError) HTTPStatus() int {
	status, err := strconv.Atoi(e.Code)
	if err != nil || status < 100 || status > 599 {
		return http.StatusUnauthorized
	}
	return status
}
