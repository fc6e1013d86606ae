package superadmin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	ok, err := Is(ctx, db, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, Add(ctx, db, "u-1", "cli"))
	require.NoError(t, Add(ctx, db, "u-1", "cli"))

	ok, err = Is(ctx, db, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := List(ctx, db)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, Remove(ctx, db, "u-1"))
	require.ErrorIs(t, Remove(ctx, db, "u-1"), ErrNotSuperAdmin)

	ok, err = Is(ctx, db, "")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Is(ctx, nil, "u-1")
	require.ErrorIs(t, err, ErrDBNil)
}
