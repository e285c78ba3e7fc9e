package service

import "errors"

// Domain sentinels surfaced to clients verbatim. Unknown email and a
// mismatched credential share one error on purpose: the caller must
// not be able to tell the two apart and enumerate accounts.
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrOtpNotFound        = errors.New("OTP not found")
	ErrOtpExpired         = errors.New("OTP expired")
	ErrOtpInvalid         = errors.New("Invalid OTP")
	ErrUserNotFound       = errors.New("User not found")
)
