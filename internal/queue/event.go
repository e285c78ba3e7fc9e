// Package queue defines message payloads exchanged over the message
// broker, plus the publisher and consumer that move OTP mail through
// it.
package queue

// OtpMailEvent is published when an OTP has been issued and needs to
// be delivered by email. It carries the fully rendered message so the
// consumer never touches the primary database.
type OtpMailEvent struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	QueuedAt string `json:"queued_at"`
}

const mailQueueName = "otp.mail"
