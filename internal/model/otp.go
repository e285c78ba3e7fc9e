package model

import "time"

// OtpEntry models a row in the `user_otps` table. Entries are
// append-only: every login or resend inserts a fresh row and only
// the most recently created unconsumed row is eligible for
// validation. A consumed entry is permanently inert.
//
// Fields:
//  ID        – primary key identifier.
//  Username  – login name of the user the code was issued for.
//  Otp       – 6-digit numeric passcode.
//  ExpiresAt – absolute expiry timestamp.
//  Consumed  – set exactly once, on successful validation.
//  CreatedAt – timestamp of creation, used for recency ordering.
type OtpEntry struct {
	ID        uint64    // user_otps.id
	Username  string    // user_otps.username
	Otp       string    // user_otps.otp
	ExpiresAt time.Time // user_otps.expires_at
	Consumed  bool      // user_otps.consumed
	CreatedAt time.Time // user_otps.created_at
}
