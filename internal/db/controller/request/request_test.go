package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

func newRequest(user, app, role string) *models.AccessRequest {
	return &models.AccessRequest{UserID: user, Email: user + "@example.com", App: app, RequestedRole: role}
}

func TestCreateDuplicatePending(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	first := newRequest("u-1", "lms", "student")
	require.NoError(t, Create(ctx, db, first))
	assert.Equal(t, models.RequestPending, first.Status)

	err := Create(ctx, db, newRequest("u-1", "lms", "teacher"))
	require.ErrorIs(t, err, ErrRequestAlreadyPending)

	// other application is independent
	require.NoError(t, Create(ctx, db, newRequest("u-1", "scb", "student")))

	pending, err := List(ctx, db, Filter{Status: models.RequestPending, UserID: "u-1", App: "lms"})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	got, err := Pending(ctx, db, "u-1", "lms")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestDecide(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	r := newRequest("u-1", "lms", "student")
	require.NoError(t, Create(ctx, db, r))

	got, err := Decide(ctx, db, r.ID, models.RequestApproved, "teacher", "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got.Status)
	assert.Equal(t, "teacher", got.GrantedRole)
	assert.Equal(t, "admin-1", got.DecidedBy)
	assert.NotNil(t, got.DecidedAt)
	assert.Nil(t, got.PendingKey)

	_, err = Decide(ctx, db, r.ID, models.RequestRejected, "", "admin-1")
	require.ErrorIs(t, err, ErrRequestNotPending)

	_, err = Decide(ctx, db, "missing", models.RequestRejected, "", "admin-1")
	require.ErrorIs(t, err, ErrRequestNotFound)

	// a decided request frees the slot for a new one
	require.NoError(t, Create(ctx, db, newRequest("u-1", "lms", "admin")))

	all, err := List(ctx, db, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	r := newRequest("u-1", "jr", "recruiter")
	require.NoError(t, Create(ctx, db, r))
	require.NoError(t, RecordEvent(ctx, db, &models.ApprovalEvent{
		RequestID: r.ID, UserID: "u-1", Actor: "u-1", Action: models.ActionSubmit, App: "jr", Role: "recruiter",
	}))

	require.NoError(t, Delete(ctx, db, r.ID))
	require.ErrorIs(t, Delete(ctx, db, r.ID), ErrRequestNotFound)

	_, err := Get(ctx, db, r.ID)
	require.ErrorIs(t, err, ErrRequestNotFound)

	all, err := List(ctx, db, Filter{})
	require.NoError(t, err)
	assert.Empty(t, all)

	events, err := Events(ctx, db, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.ActionSubmit, events[0].Action)
}

func TestNilDB(t *testing.T) {
	ctx := context.Background()

	require.ErrorIs(t, Create(ctx, nil, newRequest("u", "lms", "student")), ErrDBNil)
	_, err := List(ctx, nil, Filter{})
	require.ErrorIs(t, err, ErrDBNil)
	require.ErrorIs(t, Delete(ctx, nil, "x"), ErrDBNil)
}
