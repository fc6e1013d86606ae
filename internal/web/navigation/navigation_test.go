package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1")

	assert.Equal(t, "Test Page", ctx.PageTitle)
	assert.Equal(t, "section1", ctx.ActiveSection)
	assert.Equal(t, "page1", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1")

	// Add first breadcrumb
	ctx.AddBreadcrumb("Home", "/", false)
	assert.Len(t, ctx.Breadcrumbs, 1)
	assert.Equal(t, "Home", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "/", ctx.Breadcrumbs[0].URL)
	assert.False(t, ctx.Breadcrumbs[0].Active)

	// Add second breadcrumb
	ctx.AddBreadcrumb("Applications", "/apps", false)
	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Applications", ctx.Breadcrumbs[1].Title)

	// Add active breadcrumb
	ctx.AddBreadcrumb("Current Page", "/apps/lms", true)
	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.True(t, ctx.Breadcrumbs[2].Active)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Test Page", "section1", "page1").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Applications", "/apps", false).
		AddBreadcrumb("Current", "/apps/jr", true)

	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, "Home", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "Applications", ctx.Breadcrumbs[1].Title)
	assert.Equal(t, "Current", ctx.Breadcrumbs[2].Title)
	assert.True(t, ctx.Breadcrumbs[2].Active)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Test Page", "apps", "lms")

	// Should return true when both section and page match
	assert.True(t, ctx.IsActive("apps", "lms"))

	// Should return false when section doesn't match
	assert.False(t, ctx.IsActive("admin", "lms"))

	// Should return false when page doesn't match
	assert.False(t, ctx.IsActive("apps", "jr"))

	// Should return false when neither match
	assert.False(t, ctx.IsActive("admin", "requests"))
}

func TestContext_IsSectionActive(t *testing.T) {
	ctx := NewContext("Test Page", "apps", "lms")

	// Should return true when section matches
	assert.True(t, ctx.IsSectionActive("apps"))

	// Should return false when section doesn't match
	assert.False(t, ctx.IsSectionActive("portal"))
	assert.False(t, ctx.IsSectionActive("admin"))
}

func TestBreadcrumbItem(t *testing.T) {
	item := BreadcrumbItem{
		Title:  "Test",
		URL:    "/test",
		Active: true,
	}

	assert.Equal(t, "Test", item.Title)
	assert.Equal(t, "/test", item.URL)
	assert.True(t, item.Active)
}

func TestAppLink(t *testing.T) {
	cfg := &config.Config{
		Applications: map[string]config.Application{
			"jr":  {BaseURL: "https://jr.example.com/"},
			"lms": {Title: "Courses"},
		},
	}

	assert.Equal(t, "https://jr.example.com", AppLink(cfg, catalog.JR))
	assert.Equal(t, "/apps/lms", AppLink(cfg, catalog.LMS))
	assert.Equal(t, "/apps/scb", AppLink(nil, catalog.SCB))
}

func TestAppItems(t *testing.T) {
	cfg := &config.Config{
		Applications: map[string]config.Application{
			"lms": {Title: "Courses", Description: "Learn things."},
		},
	}

	ctx := NewContext("LMS", SectionApps, "lms").WithApps(cfg)
	require.Len(t, ctx.Apps, 3)

	assert.Equal(t, "scb", ctx.Apps[0].Name)
	assert.False(t, ctx.Apps[0].Active)

	assert.Equal(t, "Courses", ctx.Apps[1].Title)
	assert.Equal(t, "Learn things.", ctx.Apps[1].Description)
	assert.True(t, ctx.Apps[1].Active)

	assert.NotEmpty(t, ctx.Apps[2].Title)
	assert.Equal(t, "/apps/jr", ctx.Apps[2].URL)
}
