package service

import (
	"context"
	"log"
	"time"
)

// OtpReaperStore is the single capability the reaper needs.
type OtpReaperStore interface {
	DeleteExpiredBefore(ctx context.Context, t time.Time) (int64, error)
}

// RunOtpReaper periodically deletes expired OTP rows. Pure
// housekeeping: validation never depends on it, since expiry is
// checked against expires_at directly. Blocks until ctx is cancelled.
func RunOtpReaper(ctx context.Context, store OtpReaperStore, every time.Duration) {
	if every <= 0 {
		every = time.Hour
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpiredBefore(ctx, time.Now().UTC())
			if err != nil {
				log.Printf("otp-reaper: delete expired failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("otp-reaper: removed %d expired otp entries", n)
			}
		}
	}
}
