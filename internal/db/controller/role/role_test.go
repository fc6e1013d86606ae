package role

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUpsert(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	_, err := Get(ctx, db, "u-1", "lms")
	require.ErrorIs(t, err, ErrRoleNotFound)

	require.NoError(t, Upsert(ctx, db, "u-1", "lms", "student", "admin-1"))

	ra, err := Get(ctx, db, "u-1", "lms")
	require.NoError(t, err)
	assert.Equal(t, "student", ra.Role)
	assert.Equal(t, "admin-1", ra.GrantedBy)

	require.NoError(t, Upsert(ctx, db, "u-1", "lms", "teacher", "admin-2"))

	ra, err = Get(ctx, db, "u-1", "lms")
	require.NoError(t, err)
	assert.Equal(t, "teacher", ra.Role)
	assert.Equal(t, "admin-2", ra.GrantedBy)

	require.NoError(t, Upsert(ctx, db, "u-1", "scb", "admin", "cli"))

	all, err := ListByUser(ctx, db, "u-1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "lms", all[0].App)
	assert.Equal(t, "scb", all[1].App)

	_, err = Get(ctx, db, "u-2", "lms")
	require.ErrorIs(t, err, ErrRoleNotFound)
}

func TestNilDB(t *testing.T) {
	ctx := context.Background()

	_, err := Get(ctx, nil, "u", "lms")
	require.ErrorIs(t, err, ErrDBNil)
	require.ErrorIs(t, Upsert(ctx, nil, "u", "lms", "student", ""), ErrDBNil)
}
