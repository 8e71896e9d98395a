package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/controller/audit"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, DisplayName: email, Password: models.UnusablePassword(), IsActive: true}
	require.NoError(t, db.Create(user).Error)

	return user
}

func linkOf(t *testing.T, db *gorm.DB, userID uint64) *models.IdentityLink {
	t.Helper()

	var link models.IdentityLink

	err := db.Where("user_id = ?", userID).Take(&link).Error
	if err != nil {
		return nil
	}

	return &link
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)

	return n
}

func TestFindOrStageBySubject(t *testing.T) {
	db := dbtest.New(t)
	user := createUser(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.IdentityLink{UserID: user.ID, Subject: "sub-1", Provider: "oidc"}).Error)

	l := auth.NewLinker(db, "")

	// the subject wins over a differing email
	got, err := l.FindOrStage(context.Background(), auth.Claims{Subject: "sub-1", Email: "changed@example.com"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestFindOrStageLinksByEmail(t *testing.T) {
	db := dbtest.New(t)
	user := createUser(t, db, "Jane@Example.com")

	l := auth.NewLinker(db, "")

	got, err := l.FindOrStage(context.Background(), auth.Claims{Subject: "sub-1", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	link := linkOf(t, db, user.ID)
	require.NotNil(t, link)
	assert.Equal(t, "sub-1", link.Subject)
	assert.Equal(t, models.DefaultProvider, link.Provider)

	entries, err := audit.ListForUser(db, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionOIDCLink, entries[0].Action)

	// the next login resolves through the link
	got, err = l.FindOrStage(context.Background(), auth.Claims{Subject: "sub-1"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
}

func TestFindOrStageRepointsExistingLink(t *testing.T) {
	db := dbtest.New(t)
	user := createUser(t, db, "jane@example.com")
	require.NoError(t, db.Create(&models.IdentityLink{UserID: user.ID, Subject: "old-sub", Provider: "oidc"}).Error)

	l := auth.NewLinker(db, "Company SSO")

	got, err := l.FindOrStage(context.Background(), auth.Claims{Subject: "new-sub", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NotNil(t, got)

	link := linkOf(t, db, user.ID)
	require.NotNil(t, link)
	assert.Equal(t, "new-sub", link.Subject)
	assert.Equal(t, "Company SSO", link.Provider)
	assert.Equal(t, int64(1), count(t, db, &models.IdentityLink{}))
}

func TestFindOrStageNoMatch(t *testing.T) {
	db := dbtest.New(t)
	createUser(t, db, "jane@example.com")

	l := auth.NewLinker(db, "")

	tests := []struct {
		name   string
		claims auth.Claims
	}{
		{name: "empty subject", claims: auth.Claims{Email: "jane@example.com"}},
		{name: "no email", claims: auth.Claims{Subject: "sub-1"}},
		{name: "unknown email", claims: auth.Claims{Subject: "sub-1", Email: "john@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.FindOrStage(context.Background(), tt.claims)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}

	assert.Zero(t, count(t, db, &models.IdentityLink{}))
}

func TestFindOrStageAmbiguousEmail(t *testing.T) {
	db := dbtest.New(t)
	createUser(t, db, "jane@example.com")
	createUser(t, db, "JANE@example.com")

	got, err := auth.NewLinker(db, "").FindOrStage(context.Background(), auth.Claims{Subject: "sub-1", Email: "Jane@example.com"})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, count(t, db, &models.IdentityLink{}))
}

func TestCreate(t *testing.T) {
	db := dbtest.New(t)

	got, err := auth.NewLinker(db, "").Create(context.Background(), auth.Claims{
		Subject:           "sub-1",
		Email:             "jane@example.com",
		PreferredUsername: "jane",
	})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "jane", got.DisplayName)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsAdmin)
	assert.False(t, got.IsSuperuser)
	assert.False(t, got.HasUsablePassword())

	link := linkOf(t, db, got.ID)
	require.NotNil(t, link)
	assert.Equal(t, "sub-1", link.Subject)

	entries, err := audit.ListForUser(db, got.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionOIDCCreate, entries[0].Action)
}

func TestCreateMissingClaims(t *testing.T) {
	db := dbtest.New(t)
	l := auth.NewLinker(db, "")

	_, err := l.Create(context.Background(), auth.Claims{Email: "jane@example.com"})
	require.ErrorIs(t, err, auth.ErrMissingRequiredClaim)

	_, err = l.Create(context.Background(), auth.Claims{Subject: "sub-1"})
	require.ErrorIs(t, err, auth.ErrMissingRequiredClaim)

	assert.Zero(t, count(t, db, &models.User{}))
}

func TestCreateEmailTakenWithoutLink(t *testing.T) {
	db := dbtest.New(t)
	createUser(t, db, "jane@example.com")

	_, err := auth.NewLinker(db, "").Create(context.Background(), auth.Claims{Subject: "sub-1", Email: "jane@example.com"})
	require.ErrorIs(t, err, auth.ErrStoreWriteFailure)

	// the failed transaction left nothing behind
	assert.Equal(t, int64(1), count(t, db, &models.User{}))
	assert.Zero(t, count(t, db, &models.IdentityLink{}))
}

func TestCreateConcurrentSameSubject(t *testing.T) {
	db := dbtest.New(t)
	l := auth.NewLinker(db, "")

	const workers = 8

	var (
		wg  sync.WaitGroup
		ids = make([]uint64, workers)
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			user, err := l.Create(context.Background(), auth.Claims{Subject: "sub-1", Email: "jane@example.com"})
			if assert.NoError(t, err) {
				ids[i] = user.ID
			}
		}()
	}

	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	assert.Equal(t, int64(1), count(t, db, &models.User{}))
	assert.Equal(t, int64(1), count(t, db, &models.IdentityLink{}))
}
