package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
)

func TestLookup(t *testing.T) {
	for _, name := range []string{"lms", "LMS", " Lms "} {
		app, err := catalog.Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, catalog.LMS, app.Name)
	}

	_, err := catalog.Lookup("crm")
	require.ErrorIs(t, err, catalog.ErrUnknownApplication)

	assert.Equal(t, []catalog.AppName{catalog.SCB, catalog.LMS, catalog.JR}, catalog.Names())
}

func TestAllowLists(t *testing.T) {
	tests := []struct {
		app   catalog.AppName
		roles []catalog.Role
	}{
		{catalog.SCB, []catalog.Role{catalog.RoleStudent, catalog.RoleAdmin, catalog.RoleCounselor}},
		{catalog.LMS, []catalog.Role{catalog.RoleStudent, catalog.RoleTeacher, catalog.RoleAdmin}},
		{catalog.JR, []catalog.Role{catalog.RoleJobSeeker, catalog.RoleAdmin, catalog.RoleRecruiter}},
	}

	for _, tt := range tests {
		t.Run(string(tt.app), func(t *testing.T) {
			app, err := catalog.Lookup(string(tt.app))
			require.NoError(t, err)
			assert.Equal(t, tt.roles, app.Requestable)

			for _, r := range tt.roles {
				got, err := app.ParseRequestable(string(r))
				require.NoError(t, err)
				assert.Equal(t, r, got)
				assert.NotEmpty(t, app.Menu(r), "every requestable role has a menu")
			}

			_, err = app.ParseRequestable(string(catalog.RoleSuperAdmin))
			require.ErrorIs(t, err, catalog.ErrRoleNotRequestable)

			got, err := app.ParseRole("SuperAdmin")
			require.NoError(t, err)
			assert.Equal(t, catalog.RoleSuperAdmin, got)
		})
	}
}

func TestCrossApplicationRolesRejected(t *testing.T) {
	lms, err := catalog.Lookup("lms")
	require.NoError(t, err)

	_, err = lms.ParseRequestable("counselor")
	require.ErrorIs(t, err, catalog.ErrRoleNotRequestable)

	_, err = lms.ParseRole("recruiter")
	require.ErrorIs(t, err, catalog.ErrUnknownRole)
}

func TestMenu(t *testing.T) {
	lms, err := catalog.Lookup("lms")
	require.NoError(t, err)

	teacher := lms.Menu(catalog.RoleTeacher)
	require.Len(t, teacher, 6)
	assert.Equal(t, catalog.Feature{
		Title:       "Teacher Dashboard",
		Description: "Manage your teaching hub.",
		Link:        "/teacher",
	}, teacher[0])

	assert.Empty(t, lms.Menu("guest"))
	assert.Empty(t, lms.Menu(""))
	assert.Empty(t, lms.Menu(catalog.RoleSuperAdmin), "superadmin picks a role to preview")

	// callers must not be able to change the catalog
	teacher[0].Title = "changed"
	assert.Equal(t, "Teacher Dashboard", lms.Menu(catalog.RoleTeacher)[0].Title)
}

func TestJRMenu(t *testing.T) {
	jr, err := catalog.Lookup("jr")
	require.NoError(t, err)

	seeker := jr.Menu(catalog.RoleJobSeeker)
	require.Len(t, seeker, 5)
	assert.Equal(t, catalog.Feature{Title: "Job Search", Description: "Open Job Search.", Link: "/jobs"}, seeker[1])

	all := jr.Menu(catalog.RoleSuperAdmin)
	assert.Len(t, all, 5+6+5)
	assert.Equal(t, "[Job Seeker] Job Dashboard", all[0].Title)
	assert.Equal(t, "[Recruiter] Talent Pipeline", all[len(all)-6].Title)
	assert.Equal(t, "[Admin] Analytics & Reports", all[len(all)-1].Title)
}

func TestJRUnderscoreSuperAdminIsUnknown(t *testing.T) {
	jr, err := catalog.Lookup("jr")
	require.NoError(t, err)

	_, err = jr.ParseRole("super_admin")
	require.ErrorIs(t, err, catalog.ErrUnknownRole)
	assert.Empty(t, jr.Menu(catalog.Role("super_admin")))
}

func TestEffectiveRole(t *testing.T) {
	scb, err := catalog.Lookup("scb")
	require.NoError(t, err)

	tests := []struct {
		name   string
		actual catalog.Role
		viewAs string
		want   catalog.Role
	}{
		{"superadmin previews counselor", catalog.RoleSuperAdmin, "counselor", catalog.RoleCounselor},
		{"superadmin without selection", catalog.RoleSuperAdmin, "", catalog.RoleSuperAdmin},
		{"superadmin invalid selection", catalog.RoleSuperAdmin, "teacher", catalog.RoleSuperAdmin},
		{"student can not switch", catalog.RoleStudent, "admin", catalog.RoleStudent},
		{"no role can not switch", "", "admin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scb.EffectiveRole(tt.actual, tt.viewAs))
		})
	}
}

func TestRoleLabel(t *testing.T) {
	assert.Equal(t, "Job Seeker", catalog.RoleLabel(catalog.RoleJobSeeker))
	assert.Equal(t, "Admin", catalog.RoleLabel(catalog.RoleAdmin))
}
