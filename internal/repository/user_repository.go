package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/arashkm/vidhub/internal/auth"
	"github.com/arashkm/vidhub/internal/model"
)

// UserRepo persists account records in the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,full_name,avatar_url,COALESCE(cover_url,''),password_hash,COALESCE(refresh_token,''),created_at,updated_at"

// isDuplicate reports whether err is a MySQL unique-index violation (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// Create inserts a new user. The password is hashed here and only here
// on the insert path; no other update touches password_hash. Username
// and email are normalized before the unique indexes see them.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (model.User, error) {
	u.ID = uuid.NewString()
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	u.PasswordHash = hash

	var cover interface{}
	if u.CoverURL != "" {
		cover = u.CoverURL
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, full_name, avatar_url, cover_url, password_hash) VALUES (?,?,?,?,?,?,?)",
		u.ID, u.Username, u.Email, u.FullName, u.AvatarURL, cover, u.PasswordHash)
	if err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrDuplicate
		}
		return model.User{}, err
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	return u, nil
}

// FindByLogin fetches a user matching either the normalized username or
// email. Empty identifiers are passed as-is; the caller guarantees at
// least one is set.
func (r *UserRepo) FindByLogin(ctx context.Context, username, email string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE (username=? AND username<>'') OR (email=? AND email<>'') LIMIT 1",
		username, email))
}

// FindByID fetches a user by primary key.
func (r *UserRepo) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// FindByUsername fetches a user by normalized username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// SaveRefreshToken overwrites the stored refresh token, invalidating
// whatever token was active before. Used on login.
func (r *UserRepo) SaveRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", token, id)
	return err
}

// RotateRefreshToken replaces the stored refresh token only if the
// current value equals old. MySQL applies the UPDATE atomically per
// row, so of two concurrent rotations with the same old token exactly
// one sees RowsAffected=1; the other gets ErrNotFound.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, id, old, next string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=? AND refresh_token=?", next, id, old)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearRefreshToken removes the stored refresh token, terminating the
// active session. Used on logout.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=NULL WHERE id=?", id)
	return err
}

// UpdatePassword re-hashes and stores a new password. This is the only
// update besides Create that writes password_hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, password string, cost int) error {
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// UpdateAvatar stores a new avatar URL.
func (r *UserRepo) UpdateAvatar(ctx context.Context, id, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET avatar_url=? WHERE id=?", url, id)
	return err
}

// UpdateCover stores a new cover image URL.
func (r *UserRepo) UpdateCover(ctx context.Context, id, url string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET cover_url=? WHERE id=?", url, id)
	return err
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.AvatarURL,
		&u.CoverURL, &u.PasswordHash, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}
