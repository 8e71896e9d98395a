package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/controller/audit"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

func TestLocalRegisterAndAuthenticate(t *testing.T) {
	db := dbtest.New(t)
	p := auth.NewLocalProvider(db)
	ctx := context.Background()

	user, err := p.Register(ctx, "jane@example.com", "Jane", "correct horse")
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsAdmin)
	assert.True(t, user.HasUsablePassword())

	_, err = p.Register(ctx, "JANE@example.com", "Other", "battery staple")
	require.ErrorIs(t, err, auth.ErrEmailExists)

	got, err := p.Authenticate(ctx, "Jane@Example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	entries, err := audit.ListForUser(db, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionLocalLogin, entries[0].Action)
}

func TestLocalAuthenticateFailures(t *testing.T) {
	db := dbtest.New(t)
	p := auth.NewLocalProvider(db)
	ctx := context.Background()

	_, err := p.Register(ctx, "jane@example.com", "Jane", "correct horse")
	require.NoError(t, err)

	disabled, err := p.Register(ctx, "off@example.com", "Off", "correct horse")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", disabled.ID).Update("is_active", false).Error)

	createUser(t, db, "sso@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "wrong password", email: "jane@example.com", password: "nope", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown email", email: "john@example.com", password: "correct horse", wantErr: auth.ErrInvalidCredentials},
		{name: "disabled", email: "off@example.com", password: "correct horse", wantErr: auth.ErrUserDisabled},
		{name: "oidc account has no password", email: "sso@example.com", password: "", wantErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Authenticate(ctx, tt.email, tt.password)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLocalChangePassword(t *testing.T) {
	db := dbtest.New(t)
	p := auth.NewLocalProvider(db)
	ctx := context.Background()

	user, err := p.Register(ctx, "jane@example.com", "Jane", "correct horse")
	require.NoError(t, err)

	require.ErrorIs(t, p.ChangePassword(ctx, user.ID, "wrong", "new password"), auth.ErrInvalidOldPassword)
	require.NoError(t, p.ChangePassword(ctx, user.ID, "correct horse", "new password"))

	_, err = p.Authenticate(ctx, "jane@example.com", "new password")
	require.NoError(t, err)

	require.ErrorIs(t, p.ChangePassword(ctx, 4242, "x", "y"), auth.ErrUserNotFound)

	sso := createUser(t, db, "sso@example.com")
	require.ErrorIs(t, p.ChangePassword(ctx, sso.ID, "", "new password"), auth.ErrInvalidOldPassword)
}
