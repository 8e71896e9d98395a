package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/controller/audit"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

// Linker resolves claims to a local user through identity links.
type Linker struct {
	db       *gorm.DB
	provider string
}

// NewLinker returns a linker recording provider on the links it writes.
func NewLinker(db *gorm.DB, provider string) *Linker {
	if provider == "" {
		provider = models.DefaultProvider
	}

	return &Linker{db: db, provider: provider}
}

// FindOrStage returns the user linked to the claim subject. Without a link it
// falls back to a case-insensitive email match and links that user to the
// subject. Disabled accounts found by email are returned without a link. It
// returns nil and no error when no user matches, including when the email
// matches more than one account.
func (l *Linker) FindOrStage(ctx context.Context, claims Claims) (*models.User, error) {
	if claims.Subject == "" {
		return nil, nil //nolint:nilnil
	}

	db := l.db.WithContext(ctx)

	user, err := l.bySubject(db, claims.Subject)
	if err != nil || user != nil {
		return user, err
	}

	if claims.Email == "" {
		return nil, nil //nolint:nilnil
	}

	var users []models.User

	if err = db.Where("LOWER(email) = LOWER(?)", claims.Email).Order("id").Limit(2).Find(&users).Error; err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	switch len(users) {
	case 0:
		return nil, nil //nolint:nilnil
	case 1:
	default:
		log.Warn().Str("sub", claims.Subject).Msg("oidc email matches several accounts, not linking")
		return nil, nil //nolint:nilnil
	}

	if !users[0].IsActive {
		return &users[0], nil
	}

	return l.link(db, &users[0], claims)
}

// Create inserts a user with an unusable password and its identity link in one
// transaction. When a concurrent request created the link first, its user is
// returned instead.
func (l *Linker) Create(ctx context.Context, claims Claims) (*models.User, error) {
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingRequiredClaim)
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("%w: email", ErrMissingRequiredClaim)
	}

	db := l.db.WithContext(ctx)

	user := models.User{
		Email:       claims.Email,
		DisplayName: claims.Name(),
		Password:    models.UnusablePassword(),
		IsActive:    true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		link := models.IdentityLink{UserID: user.ID, Subject: claims.Subject, Provider: l.provider}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		_, err := audit.Record(tx, user.ID, audit.ActionOIDCCreate, map[string]any{"provider": l.provider})

		return err
	})
	if err == nil {
		log.Info().Uint64("user_id", user.ID).Str("sub", claims.Subject).Msg("created user for oidc identity")
		return &user, nil
	}

	if isUniqueViolation(err) {
		log.Debug().Err(ErrIdentityLinkConflict).Str("sub", claims.Subject).Msg("oidc user creation raced")
	}

	if existing, errLookup := l.bySubject(db, claims.Subject); errLookup == nil && existing != nil {
		return existing, nil
	}

	return nil, fmt.Errorf("%w: create user: %v", ErrStoreWriteFailure, err) //nolint:errorlint
}

func (l *Linker) bySubject(db *gorm.DB, subject string) (*models.User, error) {
	var link models.IdentityLink

	err := db.Preload("User").Where("subject = ?", subject).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to look up identity link: %w", err)
	}

	return &link.User, nil
}

// link points the identity link of user at the claim subject, creating it if
// the user has none yet.
func (l *Linker) link(db *gorm.DB, user *models.User, claims Claims) (*models.User, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var link models.IdentityLink

		err := tx.Where("user_id = ?", user.ID).First(&link).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			link = models.IdentityLink{UserID: user.ID, Subject: claims.Subject, Provider: l.provider}
			err = tx.Create(&link).Error
		case err == nil:
			err = tx.Model(&link).Updates(map[string]any{"subject": claims.Subject, "provider": l.provider}).Error
		}

		if err != nil {
			return err
		}

		_, err = audit.Record(tx, user.ID, audit.ActionOIDCLink, map[string]any{"provider": l.provider})

		return err
	})
	if err == nil {
		log.Info().Uint64("user_id", user.ID).Str("sub", claims.Subject).Msg("linked existing user to oidc identity")
		return user, nil
	}

	if existing, errLookup := l.bySubject(db, claims.Subject); errLookup == nil && existing != nil {
		return existing, nil
	}

	return nil, fmt.Errorf("%w: link user: %v", ErrStoreWriteFailure, err) //nolint:errorlint
}
