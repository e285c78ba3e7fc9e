package handler

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
	"github.com/Anurup-SarKar/JPK-service/internal/repository"
)

// Minimal in-memory stores for wiring real services behind the
// handlers under test.

type memUsers struct {
	nextID uint64
	users  map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{users: map[uint64]model.User{}} }

func (m *memUsers) seed(username, email, passwordHash string) model.User {
	m.nextID++
	now := time.Now().UTC()
	u := model.User{
		ID:           m.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return u
}

func (m *memUsers) Create(_ context.Context, u *model.User) (uint64, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return 0, repository.ErrUsernameExists
		}
		if existing.Email == u.Email {
			return 0, repository.ErrEmailExists
		}
	}
	m.nextID++
	u.ID = m.nextID
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = *u
	return u.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.users))
	for id := uint64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) Update(_ context.Context, id uint64, p repository.UserPatch) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Mobile != nil {
		u.Mobile = p.Mobile
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.FullName != nil {
		u.FullName = p.FullName
	}
	if p.CCTVLink != nil {
		u.CCTVLink = p.CCTVLink
	}
	if p.IsCCTVVisible != nil {
		u.IsCCTVVisible = *p.IsCCTVVisible
	}
	if p.IsCCTVStorageVisible != nil {
		u.IsCCTVStorageVisible = *p.IsCCTVStorageVisible
	}
	if p.IsAdmin != nil {
		u.IsAdmin = *p.IsAdmin
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return nil
}

func (m *memUsers) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *memUsers) Delete(_ context.Context, id uint64) error {
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) DeleteByEmail(ctx context.Context, email string) error {
	u, err := m.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	delete(m.users, u.ID)
	return nil
}

type memOtps struct {
	nextID  uint64
	entries []model.OtpEntry
}

func newMemOtps() *memOtps { return &memOtps{} }

func (m *memOtps) Insert(_ context.Context, e *model.OtpEntry) (uint64, error) {
	m.nextID++
	e.ID = m.nextID
	m.entries = append(m.entries, *e)
	return e.ID, nil
}

func (m *memOtps) LatestUnconsumedByUsername(_ context.Context, username string) (model.OtpEntry, error) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.Username == username && !e.Consumed {
			return e, nil
		}
	}
	return model.OtpEntry{}, sql.ErrNoRows
}

func (m *memOtps) Consume(_ context.Context, id uint64) error {
	for i := range m.entries {
		if m.entries[i].ID == id && !m.entries[i].Consumed {
			m.entries[i].Consumed = true
			return nil
		}
	}
	return sql.ErrNoRows
}

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, string, string, string) error { return nil }
