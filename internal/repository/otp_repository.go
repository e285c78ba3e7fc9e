package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
)

// OtpRepo persists one-time passcodes in the 'user_otps' table. Rows
// are append-only; consumption flips a flag exactly once.
type OtpRepo struct{ DB *sql.DB }

func NewOtpRepo(db *sql.DB) *OtpRepo { return &OtpRepo{DB: db} }

// Insert stores a fresh OTP entry and returns its ID.
func (r *OtpRepo) Insert(ctx context.Context, e *model.OtpEntry) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_otps (username, otp, expires_at, consumed, created_at) VALUES (?,?,?,?,?)",
		e.Username, e.Otp, e.ExpiresAt, e.Consumed, e.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// LatestUnconsumedByUsername returns the most recently created
// unconsumed entry for the user. Older unconsumed entries become
// unreachable as soon as a newer one exists.
func (r *OtpRepo) LatestUnconsumedByUsername(ctx context.Context, username string) (model.OtpEntry, error) {
	var e model.OtpEntry
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, otp, expires_at, consumed, created_at FROM user_otps "+
			"WHERE username=? AND consumed=0 ORDER BY created_at DESC, id DESC LIMIT 1",
		username).Scan(&e.ID, &e.Username, &e.Otp, &e.ExpiresAt, &e.Consumed, &e.CreatedAt)
	return e, err
}

// Consume marks the entry as consumed. The guard on consumed=0 makes
// the flip atomic: of two concurrent validations only one sees a row
// affected, the other gets sql.ErrNoRows.
func (r *OtpRepo) Consume(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE user_otps SET consumed=1 WHERE id=? AND consumed=0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteExpiredBefore removes entries whose expiry lies before t and
// returns how many were deleted. Housekeeping only; validation relies
// on the expires_at comparison, not on this reaper.
func (r *OtpRepo) DeleteExpiredBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM user_otps WHERE expires_at < ?", t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
