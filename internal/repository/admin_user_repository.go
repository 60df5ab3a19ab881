package repository

import (
	"context"
	"database/sql"

	"github.com/garagex/garagex/internal/model"
)

// SystemUserRepo provides access to the system_users table holding
// platform administrator accounts.
type SystemUserRepo struct{ DB *sql.DB }

func NewSystemUserRepo(db *sql.DB) *SystemUserRepo { return &SystemUserRepo{DB: db} }

// FindByUsername fetches an admin account by username, excluding
// soft-deleted rows.
func (r *SystemUserRepo) FindByUsername(ctx context.Context, username string) (model.SystemUser, error) {
	const q = `SELECT id, username, password_hash, display_name, phone, email, is_active
	           FROM system_users
	           WHERE username = ? AND deleted_at IS NULL`
	var u model.SystemUser
	var hash, display, phone, email sql.NullString
	err := r.DB.QueryRowContext(ctx, q, username).Scan(
		&u.ID, &u.Username, &hash, &display, &phone, &email, &u.IsActive,
	)
	if err != nil {
		return model.SystemUser{}, err
	}
	u.PasswordHash = nullableString(hash)
	u.DisplayName = nullableString(display)
	u.Phone = nullableString(phone)
	u.Email = nullableString(email)
	return u, nil
}
