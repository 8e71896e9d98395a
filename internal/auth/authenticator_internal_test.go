package auth

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/controller/audit"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

func TestAuthenticateSameClaimsTwice(t *testing.T) {
	db := dbtest.New(t)

	cfg := config.Default()
	cfg.OIDC.AdminList = []string{"jane@example.com"}

	a := NewAuthenticator(db, &cfg)
	claims := Claims{Subject: "sub-1", Email: "jane@example.com", DisplayName: "Jane"}

	first, err := a.Authenticate(context.Background(), claims)
	require.NoError(t, err)
	require.True(t, first.IsAdmin)

	mutations := testutil.ToFloat64(syncMutations)

	second, err := a.Authenticate(context.Background(), claims)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsAdmin)
	assert.Zero(t, testutil.ToFloat64(syncMutations)-mutations, "nothing to change on a repeated login")

	var links, members int64

	require.NoError(t, db.Model(&models.IdentityLink{}).Count(&links).Error)
	require.NoError(t, db.Model(&models.TeamMember{}).Count(&members).Error)
	assert.Equal(t, int64(1), links)
	assert.Equal(t, int64(1), members)

	logins, err := audit.CountAction(db, first.ID, audit.ActionOIDCLogin)
	require.NoError(t, err)
	assert.Equal(t, int64(2), logins)

	links, err = audit.CountAction(db, first.ID, audit.ActionOIDCLink)
	require.NoError(t, err)
	assert.Zero(t, links)
}
