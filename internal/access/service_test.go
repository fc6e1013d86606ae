package access_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/UnifiedPortal/UnifiedPortal/internal/access"
	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/profile"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/request"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/controller/superadmin"
	"github.com/UnifiedPortal/UnifiedPortal/internal/db/models"
)

const (
	adminID = "00000000-0000-0000-0000-0000000000aa"
	aliceID = "00000000-0000-0000-0000-000000000a11"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	require.NoError(t, superadmin.Add(context.Background(), db, adminID, "test"))

	return db
}

func newService(t *testing.T) (*access.Service, *gorm.DB, *access.Metrics) {
	t.Helper()

	db := setupTestDB(t)
	m := access.NewMetrics(prometheus.NewRegistry())

	return access.New(db, m), db, m
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var metric dto.Metric
	require.NoError(t, c.Write(&metric))

	return metric.GetCounter().GetValue()
}

func lookup(t *testing.T, name string) *catalog.Application {
	t.Helper()

	app, err := catalog.Lookup(name)
	require.NoError(t, err)

	return app
}

func submit(t *testing.T, svc *access.Service, app, role string) *models.AccessRequest {
	t.Helper()

	r, err := svc.Submit(context.Background(), access.SubmitInput{
		UserID: aliceID, Email: "alice@example.com", App: app, Role: role,
	})
	require.NoError(t, err)

	return r
}

func TestResolveNoRole(t *testing.T) {
	svc, _, _ := newService(t)

	res := svc.Resolve(context.Background(), aliceID, lookup(t, "lms"))
	assert.False(t, res.HasRole())
	require.NoError(t, res.Err)
	assert.Nil(t, res.Pending)
	assert.Empty(t, res.App.Menu(res.Role))
}

func TestResolveShowsPending(t *testing.T) {
	svc, _, _ := newService(t)

	r := submit(t, svc, "lms", "student")

	res := svc.Resolve(context.Background(), aliceID, lookup(t, "lms"))
	assert.False(t, res.HasRole())
	require.NotNil(t, res.Pending)
	assert.Equal(t, r.ID, res.Pending.ID)
}

func TestResolveStoreFailure(t *testing.T) {
	svc, db, _ := newService(t)

	require.NoError(t, db.Migrator().DropTable(&models.RoleAssignment{}))

	res := svc.Resolve(context.Background(), aliceID, lookup(t, "scb"))
	require.Error(t, res.Err)
	assert.False(t, res.HasRole())
}

func TestAliceScenario(t *testing.T) {
	ctx := context.Background()
	svc, db, m := newService(t)

	r := submit(t, svc, "LMS", "student")
	assert.Equal(t, "lms", r.App)

	approved, err := svc.Approve(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID, Role: "teacher"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, approved.Status)
	assert.Equal(t, "teacher", approved.GrantedRole)

	res := svc.Resolve(ctx, aliceID, lookup(t, "lms"))
	require.NoError(t, res.Err)
	assert.Equal(t, catalog.RoleTeacher, res.Role)
	assert.Equal(t, lookup(t, "lms").Menu(catalog.RoleTeacher), res.App.Menu(res.Role))

	p, err := profile.Get(ctx, db, aliceID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", p.Email)

	events, err := svc.Events(ctx, adminID, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.ActionSubmit, events[0].Action)
	assert.Equal(t, models.ActionApprove, events[1].Action)

	// holding a role blocks a new request
	_, err = svc.Submit(ctx, access.SubmitInput{UserID: aliceID, App: "lms", Role: "admin"})
	require.ErrorIs(t, err, access.ErrAlreadyHasRole)

	assert.InDelta(t, 1, counterValue(t, m.Submissions().WithLabelValues("lms", "created")), 0)
	assert.InDelta(t, 1, counterValue(t, m.Submissions().WithLabelValues("lms", "has_role")), 0)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	tests := []struct {
		name  string
		input access.SubmitInput
		want  error
	}{
		{"unknown app", access.SubmitInput{UserID: aliceID, App: "crm", Role: "student"}, catalog.ErrUnknownApplication},
		{"role of other app", access.SubmitInput{UserID: aliceID, App: "jr", Role: "student"}, catalog.ErrRoleNotRequestable},
		{"superadmin not requestable", access.SubmitInput{UserID: aliceID, App: "scb", Role: "superadmin"}, catalog.ErrRoleNotRequestable},
		{"missing user", access.SubmitInput{App: "scb", Role: "student"}, access.ErrInvalidInput},
		{"missing role", access.SubmitInput{UserID: aliceID, App: "scb"}, access.ErrInvalidInput},
		{"bad email", access.SubmitInput{UserID: aliceID, Email: "nope", App: "scb", Role: "student"}, access.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDuplicatePending(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)

	submit(t, svc, "jr", "job_seeker")

	_, err := svc.Submit(ctx, access.SubmitInput{UserID: aliceID, App: "jr", Role: "recruiter"})
	require.ErrorIs(t, err, access.ErrRequestAlreadyPending)

	all, err := request.List(ctx, db, request.Filter{UserID: aliceID, App: "jr"})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApproveRules(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	r := submit(t, svc, "scb", "student")

	_, err := svc.Approve(ctx, access.DecisionInput{Actor: aliceID, RequestID: r.ID, Role: "student"})
	require.ErrorIs(t, err, access.ErrNotSuperAdmin)

	_, err = svc.Approve(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID, Role: "teacher"})
	require.ErrorIs(t, err, catalog.ErrRoleNotRequestable)

	res := svc.Resolve(ctx, aliceID, lookup(t, "scb"))
	assert.False(t, res.HasRole(), "failed approval leaves no role")

	approved, err := svc.Approve(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID})
	require.NoError(t, err)
	assert.Equal(t, "student", approved.GrantedRole, "empty role grants the requested one")

	_, err = svc.Approve(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID, Role: "admin"})
	require.ErrorIs(t, err, access.ErrRequestNotPending)

	_, err = svc.Reject(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID})
	require.ErrorIs(t, err, access.ErrRequestNotPending)

	res = svc.Resolve(ctx, aliceID, lookup(t, "scb"))
	assert.Equal(t, catalog.RoleStudent, res.Role)
}

func TestApproveRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, db, _ := newService(t)

	r := submit(t, svc, "lms", "student")

	// the event insert is the last write of the transaction
	require.NoError(t, db.Migrator().DropTable(&models.ApprovalEvent{}))

	_, err := svc.Approve(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID, Role: "teacher"})
	require.Error(t, err)

	res := svc.Resolve(ctx, aliceID, lookup(t, "lms"))
	require.NoError(t, res.Err)
	assert.False(t, res.HasRole(), "role upsert rolled back")

	got, err := request.Get(ctx, db, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, got.Status)
	assert.NotNil(t, got.PendingKey)
	assert.Empty(t, got.GrantedRole)

	_, err = profile.Get(ctx, db, aliceID)
	require.Error(t, err, "profile upsert rolled back")
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	r := submit(t, svc, "lms", "admin")

	_, err := svc.Reject(ctx, access.DecisionInput{Actor: aliceID, RequestID: r.ID})
	require.ErrorIs(t, err, access.ErrNotSuperAdmin)

	rejected, err := svc.Reject(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.Status)

	res := svc.Resolve(ctx, aliceID, lookup(t, "lms"))
	assert.False(t, res.HasRole())
	assert.Nil(t, res.Pending)

	pending, err := svc.List(ctx, adminID, access.ListPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	all, err := svc.List(ctx, adminID, access.ListAll)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.RequestRejected, all[0].Status)

	// a rejected user may ask again
	submit(t, svc, "lms", "student")
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	r := submit(t, svc, "jr", "recruiter")

	require.ErrorIs(t, svc.Delete(ctx, access.DecisionInput{Actor: aliceID, RequestID: r.ID}), access.ErrNotSuperAdmin)
	require.NoError(t, svc.Delete(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID}))
	require.ErrorIs(t, svc.Delete(ctx, access.DecisionInput{Actor: adminID, RequestID: r.ID}), access.ErrRequestNotFound)

	all, err := svc.List(ctx, adminID, access.ListAll)
	require.NoError(t, err)
	assert.Empty(t, all)

	events, err := svc.Events(ctx, adminID, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.ActionDelete, events[1].Action)
}

func TestListRequiresSuperAdmin(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.List(context.Background(), aliceID, access.ListPending)
	require.ErrorIs(t, err, access.ErrNotSuperAdmin)

	ok, err := svc.IsSuperAdmin(context.Background(), adminID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecisionValidation(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Approve(context.Background(), access.DecisionInput{Actor: adminID, RequestID: "not-a-uuid"})
	require.ErrorIs(t, err, access.ErrInvalidInput)
}

func TestGrant(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	r, err := svc.Grant(ctx, aliceID, "SCB", "superadmin")
	require.NoError(t, err)
	assert.Equal(t, catalog.RoleSuperAdmin, r)

	_, err = svc.Grant(ctx, aliceID, "scb", "teacher")
	require.ErrorIs(t, err, catalog.ErrUnknownRole)

	_, err = svc.Grant(ctx, "", "scb", "student")
	require.ErrorIs(t, err, access.ErrUserUnknown)

	roles, err := svc.Roles(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "superadmin", roles[0].Role)
	assert.Equal(t, access.ActorCLI, roles[0].GrantedBy)
}

func TestParseListFilter(t *testing.T) {
	assert.Equal(t, access.ListAll, access.ParseListFilter("all"))
	assert.Equal(t, access.ListPending, access.ParseListFilter("pending"))
	assert.Equal(t, access.ListPending, access.ParseListFilter(""))
	assert.Equal(t, access.ListPending, access.ParseListFilter("bogus"))
}
