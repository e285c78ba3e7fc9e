package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Anurup-SarKar/JPK-service/internal/password"
)

// MigrationReport summarises a batch migration run.
type MigrationReport struct {
	TotalUsers    int      `json:"totalUsers"`
	MigratedCount int      `json:"migratedCount"`
	SkippedCount  int      `json:"skippedCount"`
	ErrorCount    int      `json:"errorCount"`
	Errors        []string `json:"errors"`
}

// MigrationStatus is the operator-facing view of how many credentials
// are still in a legacy format.
type MigrationStatus struct {
	UnmigratedPasswordCount int    `json:"unmigratedPasswordCount"`
	NeedsMigration          bool   `json:"needsMigration"`
	MigrationMessage        string `json:"migrationMessage"`
}

// MigrationService moves legacy credential hashes to the sealed
// format. Batch runs are best-effort with per-user atomicity: a crash
// mid-batch leaves the run resumable, since already-sealed users are
// skipped on the next pass.
type MigrationService struct {
	users UserStore
	hash  *password.Policy
}

func NewMigrationService(users UserStore, hash *password.Policy) *MigrationService {
	return &MigrationService{users: users, hash: hash}
}

// MigrateAll walks every user record. Already-sealed hashes are
// skipped; pre-hash-shaped legacy values are sealed in place; anything
// else is recorded as an error and the batch keeps going.
func (s *MigrationService) MigrateAll(ctx context.Context) (*MigrationReport, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &MigrationReport{TotalUsers: len(users), Errors: []string{}}
	for _, u := range users {
		if s.hash.IsSealed(u.PasswordHash) {
			report.SkippedCount++
			continue
		}
		migrated, err := s.hash.Migrate(u.PasswordHash, nil)
		if err == nil {
			err = s.users.UpdatePasswordHash(ctx, u.ID, migrated)
		}
		if err != nil {
			report.ErrorCount++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", u.Email, err))
			continue
		}
		report.MigratedCount++
	}
	return report, nil
}

// UnmigratedCount returns how many users still carry a legacy hash.
func (s *MigrationService) UnmigratedCount(ctx context.Context) (int, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, u := range users {
		if !s.hash.IsSealed(u.PasswordHash) {
			count++
		}
	}
	return count, nil
}

// Status reports the unmigrated count together with an operator
// message. The warning about raw passwords is deliberate: batch
// migration cannot fix hashes whose legacy format hides the original
// secret.
func (s *MigrationService) Status(ctx context.Context) (*MigrationStatus, error) {
	count, err := s.UnmigratedCount(ctx)
	if err != nil {
		return nil, err
	}
	msg := "All passwords are using the new BCrypt format."
	if count > 0 {
		msg = fmt.Sprintf("Warning: %d passwords need migration. "+
			"Note: Proper migration requires raw passwords for SHA-256 generation.", count)
	}
	return &MigrationStatus{
		UnmigratedPasswordCount: count,
		NeedsMigration:          count > 0,
		MigrationMessage:        msg,
	}, nil
}

// MigrateUserWithSecret seals a specific user's credential from the
// raw password, for flows where the secret is known out-of-band.
// Returns true when the hash is already sealed or was sealed now;
// false for an unknown user or any internal failure. Errors are
// logged, never propagated, so this cannot become an error oracle.
func (s *MigrationService) MigrateUserWithSecret(ctx context.Context, userID uint64, rawSecret string) bool {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	if s.hash.IsSealed(u.PasswordHash) {
		return true
	}
	sealed, err := s.hash.Seal(s.hash.Digest(rawSecret))
	if err != nil {
		log.Printf("migration: sealing for user %d failed: %v", userID, err)
		return false
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, sealed); err != nil {
		log.Printf("migration: persisting hash for user %d failed: %v", userID, err)
		return false
	}
	return true
}
