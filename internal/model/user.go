package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are primarily used internally by the repository layer; handlers
// define separate response types with appropriate JSON tags.
// Nullable columns are represented as pointers so that "absent"
// stays distinguishable from "present but empty".
//
// Fields:
//  ID                   – primary key identifier of the user.
//  Username             – unique login name.
//  Email                – unique email address.
//  Mobile               – unique mobile number (nullable).
//  PasswordHash         – stored credential hash; either a sealed
//                         bcrypt hash of the client pre-hash or a
//                         legacy value awaiting migration.
//  FullName             – display name (nullable).
//  CCTVLink             – URL to the user's camera feed (nullable).
//  IsCCTVVisible        – whether the live feed is visible.
//  IsCCTVStorageVisible – whether recorded footage is visible.
//  IsAdmin              – whether the user has admin rights.
//  IsActive             – whether the account is active.
//  CreatedAt            – timestamp of creation.
//  UpdatedAt            – timestamp of last update.
type User struct {
	ID                   uint64    // users.id
	Username             string    // users.username
	Email                string    // users.email
	Mobile               *string   // users.mobile (nullable)
	PasswordHash         string    // users.password_hash
	FullName             *string   // users.full_name (nullable)
	CCTVLink             *string   // users.cctv_link (nullable)
	IsCCTVVisible        bool      // users.is_cctv_visible
	IsCCTVStorageVisible bool      // users.is_cctv_storage_visible
	IsAdmin              bool      // users.is_admin
	IsActive             bool      // users.is_active
	CreatedAt            time.Time // users.created_at
	UpdatedAt            time.Time // users.updated_at
}
