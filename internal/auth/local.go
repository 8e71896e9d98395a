package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/controller/audit"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

const whereID = "id = ?"

// LocalProvider handles native password authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user by email and password. Accounts created by
// an oidc login never pass, their password is unusable.
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).Order("id").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	if _, err = audit.Record(p.db.WithContext(ctx), user.ID, audit.ActionLocalLogin, nil); err != nil {
		return nil, err
	}

	return &user, nil
}

// Register creates an active local user without privileges.
func (p *LocalProvider) Register(ctx context.Context, email, displayName, password string) (*models.User, error) {
	db := p.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if count > 0 {
		return nil, ErrEmailExists
	}

	hashed, err := models.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:       email,
		DisplayName: displayName,
		Password:    hashed,
		IsActive:    true,
	}

	if err = db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailExists
		}

		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// ChangePassword changes a user's password. Users without a usable password
// can't change it, they have no old password to prove.
func (p *LocalProvider) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := p.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.VerifyPassword(oldPassword) {
		return ErrInvalidOldPassword
	}

	hashed, err := models.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return p.db.WithContext(ctx).Model(&models.User{}).
		Where(whereID, userID).
		Update("password", hashed).Error
}

// GetUserByID retrieves a user by ID.
func (p *LocalProvider) GetUserByID(ctx context.Context, userID uint64) (*models.User, error) {
	var user models.User

	err := p.db.WithContext(ctx).Where(whereID, userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, nil
}
