package model

import "time"

// User represents an account record as stored in the `users` table.
// Each field corresponds to a column. PasswordHash and RefreshToken
// are secret material: they never appear in JSON responses, which is
// why handlers return the Profile view instead of the raw row.
//
// Fields:
//  ID           – UUID primary key, assigned at creation.
//  Username     – unique handle, stored lowercased and trimmed.
//  Email        – unique email address, stored lowercased and trimmed.
//  FullName     – display name.
//  AvatarURL    – durable object-storage URL of the avatar image.
//  CoverURL     – durable object-storage URL of the cover image (optional).
//  PasswordHash – bcrypt hash of the password.
//  RefreshToken – the single currently valid refresh token; empty means
//                 no active session for this account.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    // users.id
	Username     string    // users.username
	Email        string    // users.email
	FullName     string    // users.full_name
	AvatarURL    string    // users.avatar_url
	CoverURL     string    // users.cover_url (nullable)
	PasswordHash string    // users.password_hash
	RefreshToken string    // users.refresh_token (nullable)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Profile is the sanitized view of a User that is safe to return to
// any client. It carries no password hash and no refresh token.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatar"`
	CoverURL  string    `json:"coverImage,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile strips secret fields from the user record.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CoverURL:  u.CoverURL,
		CreatedAt: u.CreatedAt,
	}
}
