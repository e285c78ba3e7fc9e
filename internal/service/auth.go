// Package service contains the business logic behind the HTTP
// handlers: credential verification, the OTP lifecycle, password
// migration and user management. Services are stateless between calls;
// all login-session state lives in user_otps rows.
package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"time"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
	"github.com/Anurup-SarKar/JPK-service/internal/password"
	"github.com/Anurup-SarKar/JPK-service/internal/repository"
)

// DefaultOtpTTL is how long an issued passcode stays valid.
const DefaultOtpTTL = 5 * time.Minute

const (
	otpMailSubject      = "Your Login OTP"
	otpMailBodyTemplate = "Your OTP is: %s. It expires in %d minutes."
)

// UserStore is the slice of the user repository the services consume.
type UserStore interface {
	Create(ctx context.Context, u *model.User) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id uint64, p repository.UserPatch) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
	Delete(ctx context.Context, id uint64) error
	DeleteByEmail(ctx context.Context, email string) error
}

// OtpStore persists OTP entries keyed by username.
type OtpStore interface {
	Insert(ctx context.Context, e *model.OtpEntry) (uint64, error)
	LatestUnconsumedByUsername(ctx context.Context, username string) (model.OtpEntry, error)
	Consume(ctx context.Context, id uint64) error
}

// Notifier delivers a message to a user's email channel. Failures are
// non-fatal to every caller in this package.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// OtpChallenge is returned to the caller after a successful login or
// resend. The passcode value rides along in the response as well as in
// the email; see the design notes before changing that.
type OtpChallenge struct {
	Otp              string `json:"otp"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

// AuthService orchestrates login, OTP issuance and OTP validation.
type AuthService struct {
	users    UserStore
	otps     OtpStore
	notifier Notifier
	hash     *password.Policy
	ttl      time.Duration
}

// NewAuthService wires an AuthService. A non-positive ttl falls back to
// DefaultOtpTTL.
func NewAuthService(users UserStore, otps OtpStore, n Notifier, hash *password.Policy, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultOtpTTL
	}
	return &AuthService{users: users, otps: otps, notifier: n, hash: hash, ttl: ttl}
}

// Login verifies the credential and issues a fresh OTP. Unknown email
// and wrong credential are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, preHash string) (*OtpChallenge, error) {
	user, err := s.authenticate(ctx, email, preHash)
	if err != nil {
		return nil, err
	}
	return s.issueOtp(ctx, user)
}

// ResendOtp re-validates the credential and issues a brand-new OTP
// entry. The previous entry is not touched; it simply becomes
// unreachable because validation only considers the most recent one.
func (s *AuthService) ResendOtp(ctx context.Context, email, preHash string) (*OtpChallenge, error) {
	user, err := s.authenticate(ctx, email, preHash)
	if err != nil {
		return nil, err
	}
	return s.issueOtp(ctx, user)
}

// ValidateOtp re-validates the credential, then checks the supplied
// digits against the most recently created unconsumed entry. Check
// order is fixed: existence, expiry, value. On success the entry is
// consumed atomically and the full user record is returned.
func (s *AuthService) ValidateOtp(ctx context.Context, email, preHash, otp string) (model.User, error) {
	user, err := s.authenticate(ctx, email, preHash)
	if err != nil {
		return model.User{}, err
	}

	entry, err := s.otps.LatestUnconsumedByUsername(ctx, user.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrOtpNotFound
		}
		return model.User{}, err
	}
	if entry.ExpiresAt.Before(time.Now()) {
		return model.User{}, ErrOtpExpired
	}
	if subtle.ConstantTimeCompare([]byte(entry.Otp), []byte(otp)) != 1 {
		return model.User{}, ErrOtpInvalid
	}
	if err := s.otps.Consume(ctx, entry.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A concurrent validation consumed it first.
			return model.User{}, ErrOtpNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, preHash string) (model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !s.credentialMatches(preHash, user.PasswordHash) {
		return model.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// credentialMatches handles both stored representations: sealed hashes
// go through bcrypt, legacy values are compared directly against the
// pre-hash until the migration endpoint has sealed them.
func (s *AuthService) credentialMatches(preHash, stored string) bool {
	if s.hash.IsSealed(stored) {
		return s.hash.Verify(preHash, stored)
	}
	return subtle.ConstantTimeCompare([]byte(preHash), []byte(stored)) == 1
}

func (s *AuthService) issueOtp(ctx context.Context, user model.User) (*OtpChallenge, error) {
	otp, err := generateOtp()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	entry := &model.OtpEntry{
		Username:  user.Username,
		Otp:       otp,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if _, err := s.otps.Insert(ctx, entry); err != nil {
		return nil, err
	}

	// The OTP is already persisted and stays valid even if the mail
	// never arrives; delivery failure must not fail the login.
	body := fmt.Sprintf(otpMailBodyTemplate, otp, int(s.ttl.Minutes()))
	if err := s.notifier.Send(ctx, user.Email, otpMailSubject, body); err != nil {
		log.Printf("auth: otp mail to %s failed: %v", user.Email, err)
	}

	return &OtpChallenge{Otp: otp, ExpiresInSeconds: int64(s.ttl.Seconds())}, nil
}

// generateOtp draws a uniform 6-digit code in [100000, 999999], so a
// leading zero can never occur.
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
