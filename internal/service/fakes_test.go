package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
	"github.com/Anurup-SarKar/JPK-service/internal/repository"
)

// --- in-memory fakes for the store interfaces ---

type memUserStore struct {
	nextID  uint64
	users   map[uint64]model.User
	listErr error
	// set to force UpdatePasswordHash failures, simulating a dying DB
	updateHashErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint64]model.User{}}
}

func (m *memUserStore) add(u model.User) model.User {
	m.nextID++
	u.ID = m.nextID
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = u
	return u
}

func (m *memUserStore) Create(_ context.Context, u *model.User) (uint64, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return 0, repository.ErrUsernameExists
		}
		if existing.Email == u.Email {
			return 0, repository.ErrEmailExists
		}
	}
	created := m.add(*u)
	return created.ID, nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (m *memUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUserStore) List(_ context.Context) ([]model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.User, 0, len(m.users))
	for id := uint64(1); id <= m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserStore) Update(_ context.Context, id uint64, p repository.UserPatch) error {
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

func (m *memUserStore) UpdatePasswordHash(_ context.Context, id uint64, hash string) error {
	if m.updateHashErr != nil {
		return m.updateHashErr
	}
	u, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = hash
	m.users[id] = u
	return nil
}

func (m *memUserStore) Delete(_ context.Context, id uint64) error {
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStore) DeleteByEmail(ctx context.Context, email string) error {
	u, err := m.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	delete(m.users, u.ID)
	return nil
}

type memOtpStore struct {
	nextID  uint64
	entries []model.OtpEntry
}

func newMemOtpStore() *memOtpStore { return &memOtpStore{} }

func (m *memOtpStore) Insert(_ context.Context, e *model.OtpEntry) (uint64, error) {
	m.nextID++
	e.ID = m.nextID
	m.entries = append(m.entries, *e)
	return e.ID, nil
}

// LatestUnconsumedByUsername mirrors the SQL ordering: created_at
// descending with id as tiebreaker. Insertion order suffices here.
func (m *memOtpStore) LatestUnconsumedByUsername(_ context.Context, username string) (model.OtpEntry, error) {
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.Username == username && !e.Consumed {
			return e, nil
		}
	}
	return model.OtpEntry{}, sql.ErrNoRows
}

func (m *memOtpStore) Consume(_ context.Context, id uint64) error {
	for i := range m.entries {
		if m.entries[i].ID == id && !m.entries[i].Consumed {
			m.entries[i].Consumed = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memOtpStore) DeleteExpiredBefore(_ context.Context, t time.Time) (int64, error) {
	var kept []model.OtpEntry
	var removed int64
	for _, e := range m.entries {
		if e.ExpiresAt.Before(t) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed, nil
}

type fakeNotifier struct {
	err   error
	sends []struct{ To, Subject, Body string }
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sends = append(f.sends, struct{ To, Subject, Body string }{to, subject, body})
	return nil
}

var errStoreDown = errors.New("store down")
