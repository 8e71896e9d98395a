package audit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dbtest"
)

func TestRecord(t *testing.T) {
	db := dbtest.New(t)

	entry, err := Record(db, 7, ActionOIDCLogin, map[string]any{"provider": "Company SSO"})
	require.NoError(t, err)

	assert.Len(t, entry.ID, 36)
	assert.Equal(t, uint64(7), entry.UserID)

	var data map[string]string
	require.NoError(t, json.Unmarshal([]byte(entry.Data), &data))
	assert.Equal(t, "Company SSO", data["provider"])

	empty, err := Record(db, 7, ActionOIDCLink, nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", empty.Data)
}

func TestRecordErrors(t *testing.T) {
	db := dbtest.New(t)

	tests := []struct {
		name    string
		userID  uint64
		action  string
		wantErr error
	}{
		{name: "empty action", userID: 1, action: "", wantErr: ErrActionEmpty},
		{name: "zero user", userID: 0, action: ActionOIDCLogin, wantErr: ErrUserIDZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Record(db, tt.userID, tt.action, nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Record(nil, 1, ActionOIDCLogin, nil)
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestListForUserAndCount(t *testing.T) {
	db := dbtest.New(t)

	for range 3 {
		_, err := Record(db, 1, ActionOIDCLogin, nil)
		require.NoError(t, err)
	}

	_, err := Record(db, 1, ActionOIDCCreate, nil)
	require.NoError(t, err)

	_, err = Record(db, 2, ActionOIDCLogin, nil)
	require.NoError(t, err)

	entries, err := ListForUser(db, 1, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	limited, err := ListForUser(db, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	logins, err := CountAction(db, 1, ActionOIDCLogin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), logins)

	_, err = ListForUser(nil, 1, 0)
	assert.ErrorIs(t, err, ErrDBNil)
}
