package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Anurup-SarKar/JPK-service/internal/model"
)

const userColumns = "id,username,email,mobile,password_hash,full_name,cctv_link," +
	"is_cctv_visible,is_cctv_storage_visible,is_admin,is_active,created_at,updated_at"

// UserRepo persists user records in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// UserPatch carries a partial update. Nil fields are left untouched;
// a non-nil pointer to an empty value overwrites with that empty value.
type UserPatch struct {
	Username             *string
	Email                *string
	Mobile               *string
	PasswordHash         *string
	FullName             *string
	CCTVLink             *string
	IsCCTVVisible        *bool
	IsCCTVStorageVisible *bool
	IsAdmin              *bool
	IsActive             *bool
}

// Create inserts a user and returns its ID. The password hash must
// already be sealed by the caller.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username,email,mobile,password_hash,full_name,cctv_link,"+
			"is_cctv_visible,is_cctv_storage_visible,is_admin,is_active) VALUES (?,?,?,?,?,?,?,?,?,?)",
		u.Username, u.Email, u.Mobile, u.PasswordHash, u.FullName, u.CCTVLink,
		u.IsCCTVVisible, u.IsCCTVStorageVisible, u.IsAdmin, u.IsActive)
	if err != nil {
		return 0, mapDuplicate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByUsername fetches a user by login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdatePasswordHash overwrites just the stored credential hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", hash, id)
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

// Update applies a partial update to the user with the given id. Only
// fields set on the patch are written.
func (r *UserRepo) Update(ctx context.Context, id uint64, p UserPatch) error {
	sets, args := patchClauses(p)
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return mapDuplicate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The DSN sets clientFoundRows, so RowsAffected counts matched
		// rows: zero means the user is absent, not that the patch wrote
		// values that were already in place.
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user by id.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
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

// DeleteByEmail removes a user by normalized email.
func (r *UserRepo) DeleteByEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE email=?", email)
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

func patchClauses(p UserPatch) ([]string, []any) {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.Username != nil {
		add("username", *p.Username)
	}
	if p.Email != nil {
		add("email", strings.ToLower(strings.TrimSpace(*p.Email)))
	}
	if p.Mobile != nil {
		add("mobile", *p.Mobile)
	}
	if p.PasswordHash != nil {
		add("password_hash", *p.PasswordHash)
	}
	if p.FullName != nil {
		add("full_name", *p.FullName)
	}
	if p.CCTVLink != nil {
		add("cctv_link", *p.CCTVLink)
	}
	if p.IsCCTVVisible != nil {
		add("is_cctv_visible", *p.IsCCTVVisible)
	}
	if p.IsCCTVStorageVisible != nil {
		add("is_cctv_storage_visible", *p.IsCCTVStorageVisible)
	}
	if p.IsAdmin != nil {
		add("is_admin", *p.IsAdmin)
	}
	if p.IsActive != nil {
		add("is_active", *p.IsActive)
	}
	return sets, args
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var (
		u        model.User
		mobile   sql.NullString
		fullName sql.NullString
		cctvLink sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &mobile, &u.PasswordHash,
		&fullName, &cctvLink, &u.IsCCTVVisible, &u.IsCCTVStorageVisible,
		&u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if mobile.Valid {
		u.Mobile = &mobile.String
	}
	if fullName.Valid {
		u.FullName = &fullName.String
	}
	if cctvLink.Valid {
		u.CCTVLink = &cctvLink.String
	}
	return u, nil
}

// mapDuplicate translates MySQL duplicate-key errors (1062) into the
// per-column sentinels above. The unique index name carries the column.
func mapDuplicate(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") && !strings.Contains(msg, "duplicate entry") {
		return err
	}
	switch {
	case strings.Contains(msg, "username"):
		return ErrUsernameExists
	case strings.Contains(msg, "email"):
		return ErrEmailExists
	case strings.Contains(msg, "mobile"):
		return ErrMobileExists
	}
	return ErrUserExists
}
