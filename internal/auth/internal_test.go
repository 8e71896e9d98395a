package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "translated", err: fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: users.email"), want: true},
		{name: "mysql message", err: errors.New("Error 1062: Duplicate entry 'a' for key 'email'"), want: true},
		{name: "other", err: errors.New("connection refused"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestClaimsFill(t *testing.T) {
	base := Claims{Subject: "sub-1", DisplayName: "From Token"}

	got := base.fill(Claims{Subject: "sub-1", Email: "a@x.com", DisplayName: "From Userinfo", PreferredUsername: "a"})
	assert.Equal(t, Claims{Subject: "sub-1", Email: "a@x.com", DisplayName: "From Token", PreferredUsername: "a"}, got)

	assert.Equal(t, base, base.fill(Claims{Subject: "sub-2", Email: "b@x.com"}), "other subject ignored")
}

func TestClaimsName(t *testing.T) {
	assert.Equal(t, "Jane", Claims{DisplayName: "Jane", PreferredUsername: "jane"}.Name())
	assert.Equal(t, "jane", Claims{PreferredUsername: "jane"}.Name())
	assert.Empty(t, Claims{}.Name())
}

func TestScopes(t *testing.T) {
	assert.Equal(t, []string{"openid"}, scopes(""))
	assert.Equal(t, []string{"openid", "email"}, scopes("email"))
	assert.Equal(t, []string{"email", "openid", "profile"}, scopes(" email openid  profile "))
}

func TestFirstOrCreate(t *testing.T) {
	db := dbtest.New(t)

	var org models.Organisation

	created, err := firstOrCreate(db, &org, &models.Organisation{Slug: "a"}, &models.Organisation{Slug: "a", Name: "A"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, org.ID)

	var again models.Organisation

	created, err = firstOrCreate(db, &again, &models.Organisation{Slug: "a"}, &models.Organisation{Slug: "a", Name: "other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, org.ID, again.ID)
	assert.Equal(t, "A", again.Name)
}

func TestFirstOrCreateRecoversFromLostInsert(t *testing.T) {
	db := dbtest.New(t)

	require.NoError(t, db.Create(&models.Organisation{Slug: "taken", Name: "Winner"}).Error)

	// the lookup condition misses the existing row, the insert hits its unique
	// slug and the second lookup finds nothing either
	var org models.Organisation

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := firstOrCreate(tx, &org,
			&models.Organisation{Slug: "taken", Name: "Loser"},
			&models.Organisation{Slug: "taken", Name: "Loser"},
		)

		return err
	})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// the savepoint kept the outer transaction usable
	err = db.Transaction(func(tx *gorm.DB) error {
		_, errCreate := firstOrCreate(tx, &org,
			&models.Organisation{Slug: "taken", Name: "Loser"},
			&models.Organisation{Slug: "taken", Name: "Loser"},
		)
		require.Error(t, errCreate)

		return tx.Create(&models.Organisation{Slug: "next", Name: "Next"}).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Organisation{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
