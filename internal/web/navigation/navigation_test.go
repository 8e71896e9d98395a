package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
)

func TestNewContext(t *testing.T) {
	ctx := NewContext("Profile", SectionAccount, "profile")

	assert.Equal(t, "Profile", ctx.PageTitle)
	assert.Equal(t, SectionAccount, ctx.ActiveSection)
	assert.Equal(t, "profile", ctx.ActivePage)
	assert.NotNil(t, ctx.Breadcrumbs)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := NewContext("Teams", SectionOrga, "teams").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Organiser", "/orga/settings", false).
		AddBreadcrumb("Teams", "/orga/teams", true)

	assert.Len(t, ctx.Breadcrumbs, 3)
	assert.Equal(t, "Home", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "/orga/settings", ctx.Breadcrumbs[1].URL)
	assert.False(t, ctx.Breadcrumbs[1].Active)
	assert.True(t, ctx.Breadcrumbs[2].Active)
}

func TestContext_IsActive(t *testing.T) {
	ctx := NewContext("Teams", SectionOrga, "teams")

	assert.True(t, ctx.IsActive(SectionOrga, "teams"))
	assert.False(t, ctx.IsActive(SectionOrga, "settings"))
	assert.False(t, ctx.IsActive(SectionAccount, "teams"))
	assert.True(t, ctx.IsSectionActive(SectionOrga))
	assert.False(t, ctx.IsSectionActive(SectionDashboard))
}

func pages(items []MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.Page)
	}

	return out
}

func TestMenu(t *testing.T) {
	assert.Nil(t, Menu(nil))
	assert.Equal(t, []string{"dashboard", "profile"}, pages(Menu(&models.User{})))
	assert.Equal(t, []string{"dashboard", "settings", "teams", "profile"}, pages(Menu(&models.User{IsAdmin: true})))
	assert.Equal(t, []string{"dashboard", "settings", "teams", "profile"}, pages(Menu(&models.User{IsSuperuser: true})))
}
