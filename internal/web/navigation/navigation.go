// Package navigation builds the navigation bar, breadcrumbs and application links of a page.
package navigation

import (
	"strings"

	"github.com/UnifiedPortal/UnifiedPortal/internal/catalog"
	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
)

const (
	// SectionPortal is the landing page.
	SectionPortal = "portal"
	// SectionApps holds the application dashboards, the active page is the app name.
	SectionApps = "apps"
	// SectionAdmin is the super-admin console.
	SectionAdmin = "admin"

	// AppsPrefix is the route prefix of the dashboards.
	AppsPrefix = "/apps/"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// AppItem is one application in the navigation bar or on the landing page.
type AppItem struct {
	Name        string
	Title       string
	Description string
	URL         string
	Active      bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
	Apps          []AppItem
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithApps fills the application items from cfg.
func (c *Context) WithApps(cfg *config.Config) *Context {
	c.Apps = AppItems(cfg, c)

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// AppLink returns the configured base URL of app, or its dashboard route in this server.
func AppLink(cfg *config.Config, app catalog.AppName) string {
	if cfg != nil {
		if a, ok := cfg.Applications[string(app)]; ok && a.BaseURL != "" {
			return strings.TrimRight(a.BaseURL, "/")
		}
	}

	return DashboardPath(app)
}

// DashboardPath is the local dashboard route of app.
func DashboardPath(app catalog.AppName) string {
	return AppsPrefix + string(app)
}

// AppItems lists the catalog applications with titles overridden by cfg.
// current may be nil.
func AppItems(cfg *config.Config, current *Context) []AppItem {
	apps := catalog.Applications()
	items := make([]AppItem, 0, len(apps))

	for _, a := range apps {
		item := AppItem{
			Name:        string(a.Name),
			Title:       a.Title,
			Description: a.Description,
			URL:         AppLink(cfg, a.Name),
		}

		if cfg != nil {
			if o, ok := cfg.Applications[string(a.Name)]; ok {
				if o.Title != "" {
					item.Title = o.Title
				}

				if o.Description != "" {
					item.Description = o.Description
				}
			}
		}

		if current != nil {
			item.Active = current.IsActive(SectionApps, item.Name)
		}

		items = append(items, item)
	}

	return items
}
