package models

import (
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/uniuri"
)

const (
	// unusablePasswordPrefix marks a password that can never verify.
	unusablePasswordPrefix = "!"

	unusablePasswordLen = 40
)

// User represents a local account.
// Accounts created by an oidc login carry an unusable password.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Email is unique as stored, lookups for linking compare case-insensitively.
	Email string `gorm:"size:255;not null;uniqueIndex"`
	// DisplayName is shown in the back office.
	DisplayName string `gorm:"size:255"`
	// Password is the Argon2id hash or an unusable marker.
	Password string `gorm:"size:255;not null"`
	// IsActive indicates whether the user account can log in.
	IsActive bool `gorm:"not null"`
	// IsAdmin grants administration of the instance.
	IsAdmin bool `gorm:"not null"`
	// IsSuperuser grants everything, it always comes with IsAdmin.
	IsSuperuser bool `gorm:"not null"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// UnusablePassword returns a password value no input can verify against.
func UnusablePassword() string {
	return unusablePasswordPrefix + uniuri.NewLen(unusablePasswordLen)
}

// HasUsablePassword reports whether the user can log in with a password at all.
func (u *User) HasUsablePassword() bool {
	return u.Password != "" && !strings.HasPrefix(u.Password, unusablePasswordPrefix)
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	if !u.HasUsablePassword() {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
