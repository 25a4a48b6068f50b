package utils

import (
	"crypto/rand"
)

// GenerateSecureOTP returns a random numeric code of the given length drawn
// from crypto/rand. Collision checks against live codes are the caller's job.
func GenerateSecureOTP(length int) (string, error) {
	const otpChars = "0123456789"
	buffer := make([]byte, length)
	_, err := rand.Read(buffer)
	if err != nil {
		return "", err
	}

	otpCharsLength := len(otpChars)
	for i := 0; i < length; i++ {
		buffer[i] = otpChars[int(buffer[i])%otpCharsLength]
	}

	return string(buffer), nil
}
