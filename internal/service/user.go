package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
	"github.com/Anurup-SarKar/JPK-service/internal/password"
	"github.com/Anurup-SarKar/JPK-service/internal/repository"
)

// CreateUserInput carries everything needed to create a user. PreHash
// is the client-side SHA-256 digest, never the raw password.
type CreateUserInput struct {
	Username             string
	Email                string
	Mobile               *string
	PreHash              string
	FullName             *string
	CCTVLink             *string
	IsCCTVVisible        bool
	IsCCTVStorageVisible bool
	IsAdmin              bool
	IsActive             bool
}

// UpdateUserInput is a partial update: nil fields are left untouched.
type UpdateUserInput struct {
	Username             *string
	Email                *string
	Mobile               *string
	PreHash              *string
	FullName             *string
	CCTVLink             *string
	IsCCTVVisible        *bool
	IsCCTVStorageVisible *bool
	IsAdmin              *bool
	IsActive             *bool
}

// UserService implements user-record management on top of the store.
// Credentials pass through the hashing policy on every write; a raw
// hash value is never persisted as supplied.
type UserService struct {
	users UserStore
	hash  *password.Policy
}

func NewUserService(users UserStore, hash *password.Policy) *UserService {
	return &UserService{users: users, hash: hash}
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Create seals the supplied pre-hash and inserts the user. Duplicate
// identities surface as the repository's per-column sentinels.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (model.User, error) {
	sealed, err := s.hash.Seal(in.PreHash)
	if err != nil {
		return model.User{}, err
	}
	u := model.User{
		Username:             strings.TrimSpace(in.Username),
		Email:                strings.ToLower(strings.TrimSpace(in.Email)),
		Mobile:               in.Mobile,
		PasswordHash:         sealed,
		FullName:             in.FullName,
		CCTVLink:             in.CCTVLink,
		IsCCTVVisible:        in.IsCCTVVisible,
		IsCCTVStorageVisible: in.IsCCTVStorageVisible,
		IsAdmin:              in.IsAdmin,
		IsActive:             in.IsActive,
	}
	id, err := s.users.Create(ctx, &u)
	if err != nil {
		return model.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

// Update applies a partial update to the user with the given id.
func (s *UserService) Update(ctx context.Context, id uint64, in UpdateUserInput) (model.User, error) {
	patch, err := s.patchFrom(in)
	if err != nil {
		return model.User{}, err
	}
	if err := s.users.Update(ctx, id, patch); err != nil {
		return model.User{}, mapNotFound(err)
	}
	// An empty patch issues no UPDATE at all, so absence can also
	// surface here, on the re-fetch.
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, mapNotFound(err)
	}
	return u, nil
}

// UpdateByEmail resolves the user by email, then applies the patch.
// The email itself is the lookup key and is not updatable here.
func (s *UserService) UpdateByEmail(ctx context.Context, email string, in UpdateUserInput) (model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return model.User{}, mapNotFound(err)
	}
	in.Email = nil
	return s.Update(ctx, u.ID, in)
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	return mapNotFound(s.users.Delete(ctx, id))
}

// DeleteByEmail removes a user by email.
func (s *UserService) DeleteByEmail(ctx context.Context, email string) error {
	return mapNotFound(s.users.DeleteByEmail(ctx, email))
}

func (s *UserService) patchFrom(in UpdateUserInput) (repository.UserPatch, error) {
	p := repository.UserPatch{
		Username:             in.Username,
		Email:                in.Email,
		Mobile:               in.Mobile,
		FullName:             in.FullName,
		CCTVLink:             in.CCTVLink,
		IsCCTVVisible:        in.IsCCTVVisible,
		IsCCTVStorageVisible: in.IsCCTVStorageVisible,
		IsAdmin:              in.IsAdmin,
		IsActive:             in.IsActive,
	}
	if in.PreHash != nil {
		sealed, err := s.hash.Seal(*in.PreHash)
		if err != nil {
			return repository.UserPatch{}, err
		}
		p.PasswordHash = &sealed
	}
	return p, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}
