package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/controller/audit"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

// Authenticator turns verified claims into a synchronized local user.
type Authenticator struct {
	db           *gorm.DB
	linker       *Linker
	resolver     *Resolver
	synchronizer *Synchronizer
	createUser   bool
	provider     string
}

// NewAuthenticator wires linker, resolver and synchronizer from cfg.
func NewAuthenticator(db *gorm.DB, cfg *config.Config) *Authenticator {
	return &Authenticator{
		db:           db,
		linker:       NewLinker(db, cfg.OIDC.ProviderName),
		resolver:     NewResolver(&cfg.OIDC),
		synchronizer: NewSynchronizer(db, cfg.Organisation),
		createUser:   cfg.OIDC.CreateUser,
		provider:     cfg.OIDC.ProviderName,
	}
}

// Authenticate returns the user for claims after privilege synchronization.
// Every failure is logged and reported as ErrAuthenticationFailed.
func (a *Authenticator) Authenticate(ctx context.Context, claims Claims) (*models.User, error) {
	user, created, err := a.authenticate(ctx, claims)
	if err != nil {
		log.Warn().Err(err).Str("sub", claims.Subject).Msg("oidc authentication failed")
		authAttempts.WithLabelValues(resultFailure).Inc()

		return nil, ErrAuthenticationFailed
	}

	if created {
		authAttempts.WithLabelValues(resultCreated).Inc()
	} else {
		authAttempts.WithLabelValues(resultSuccess).Inc()
	}

	if _, err = audit.Record(a.db.WithContext(ctx), user.ID, audit.ActionOIDCLogin, map[string]any{
		"provider": a.provider,
	}); err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to record oidc login")
	}

	return user, nil
}

func (a *Authenticator) authenticate(ctx context.Context, claims Claims) (*models.User, bool, error) {
	if claims.Subject == "" {
		return nil, false, fmt.Errorf("%w: sub", ErrMissingRequiredClaim)
	}

	user, err := a.linker.FindOrStage(ctx, claims)
	if err != nil {
		return nil, false, err
	}

	created := false

	if user == nil {
		if !a.createUser {
			return nil, false, ErrUserCreationDisabled
		}

		if user, err = a.linker.Create(ctx, claims); err != nil {
			return nil, false, err
		}

		created = true
	} else {
		if !user.IsActive {
			return nil, false, ErrUserDisabled
		}

		if err = a.refresh(ctx, user, claims); err != nil {
			return nil, false, err
		}
	}

	role := a.resolver.Resolve(claims)

	log.Info().Uint64("user_id", user.ID).Str("sub", claims.Subject).Stringer("role", role).Msg("oidc role resolved")

	res, err := a.synchronizer.Sync(ctx, user, role)
	if err != nil {
		return nil, false, err
	}

	syncMutations.Add(float64(res.Mutations()))

	return user, created, nil
}

// refresh stores a changed display name claim.
func (a *Authenticator) refresh(ctx context.Context, user *models.User, claims Claims) error {
	name := claims.Name()
	if name == "" || name == user.DisplayName {
		return nil
	}

	err := a.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("display_name", name).Error
	if err != nil {
		return fmt.Errorf("%w: update display name: %v", ErrStoreWriteFailure, err) //nolint:errorlint
	}

	user.DisplayName = name

	return nil
}
