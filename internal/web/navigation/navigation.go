// Package navigation provides utilities for managing navigation state and breadcrumbs.
package navigation

import "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"

// Sections of the main menu.
const (
	SectionDashboard = "dashboard"
	SectionOrga      = "orga"
	SectionAccount   = "account"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Section string
	Page    string
	Title   string
	URL     string
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
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

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// Menu returns the main menu for user. Organiser pages are listed for admins
// only, the pages themselves check team capabilities.
func Menu(user *models.User) []MenuItem {
	if user == nil {
		return nil
	}

	items := []MenuItem{
		{Section: SectionDashboard, Page: "dashboard", Title: "Dashboard", URL: "/dashboard"},
	}

	if user.IsAdmin || user.IsSuperuser {
		items = append(items,
			MenuItem{Section: SectionOrga, Page: "settings", Title: "Organiser settings", URL: "/orga/settings"},
			MenuItem{Section: SectionOrga, Page: "teams", Title: "Teams", URL: "/orga/teams"},
		)
	}

	return append(items, MenuItem{Section: SectionAccount, Page: "profile", Title: "Profile", URL: "/profile"})
}
