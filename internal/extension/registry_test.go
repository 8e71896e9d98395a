package extension_test

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/extension"
)

func static(s string) extension.Contributor {
	return extension.ContributorFunc(func(extension.Context) template.HTML { return template.HTML(s) }) //nolint:gosec
}

func TestRegistryRendersInOrder(t *testing.T) {
	r := extension.NewRegistry()

	require.NoError(t, r.Register(extension.PointAuthPage, static("a")))
	require.NoError(t, r.Register(extension.PointAuthPage, static("b")))
	require.NoError(t, r.Register(extension.PointProfilePage, static("p")))

	assert.Equal(t, template.HTML("ab"), r.Render(extension.PointAuthPage, extension.Context{}))
	assert.Equal(t, template.HTML("p"), r.Render(extension.PointProfilePage, extension.Context{}))
	assert.Empty(t, r.Render(extension.PointOrgaSettings, extension.Context{}))
}

func TestRegistryRejects(t *testing.T) {
	r := extension.NewRegistry()

	assert.ErrorIs(t, r.Register("footer", static("x")), extension.ErrUnknownPoint)
	assert.ErrorIs(t, r.Register(extension.PointAuthPage, nil), extension.ErrNilContributor)
	assert.Empty(t, r.Render("footer", extension.Context{}))
}

func TestRegistryPoints(t *testing.T) {
	assert.Equal(t, []extension.Point{
		extension.PointAuthPage,
		extension.PointHTMLHead,
		extension.PointOrgaSettings,
		extension.PointProfilePage,
	}, extension.NewRegistry().Points())
}

func TestRegisterOIDC(t *testing.T) {
	enabled := true

	r := extension.NewRegistry()
	require.NoError(t, extension.RegisterOIDC(r, extension.OIDCOptions{
		Provider:  "Company <SSO>",
		LoginPath: "/auth/oidc/login",
		Enabled:   func() bool { return enabled },
	}))

	t.Run("button carries next and escapes the provider", func(t *testing.T) {
		out := string(r.Render(extension.PointAuthPage, extension.Context{Next: "/orga/settings?tab=1"}))

		assert.Contains(t, out, `href="/auth/oidc/login?next=%2Forga%2Fsettings%3Ftab%3D1"`)
		assert.Contains(t, out, "Sign in with Company &lt;SSO&gt;")
		assert.NotContains(t, out, "<style>")
	})

	t.Run("style only when hidden", func(t *testing.T) {
		ctx := extension.Context{HidePasswordUI: true}

		assert.Contains(t, string(r.Render(extension.PointAuthPage, ctx)), "display:none")
		assert.Contains(t, string(r.Render(extension.PointProfilePage, ctx)), "display:none")
		assert.Contains(t, string(r.Render(extension.PointHTMLHead, ctx)), "display:none")
		assert.Empty(t, r.Render(extension.PointHTMLHead, extension.Context{}))
	})

	t.Run("no button while unavailable", func(t *testing.T) {
		enabled = false
		t.Cleanup(func() { enabled = true })

		assert.NotContains(t, string(r.Render(extension.PointAuthPage, extension.Context{})), "Sign in with")
		assert.Empty(t, r.Render(extension.PointOrgaSettings, extension.Context{}))
	})

	t.Run("settings card", func(t *testing.T) {
		assert.Contains(t, string(r.Render(extension.PointOrgaSettings, extension.Context{})), "Single sign-on")
	})
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/auth/oidc/login", extension.LoginURL("/auth/oidc/login", ""))
	assert.Equal(t, "/auth/oidc/login?next=%2Fprofile", extension.LoginURL("/auth/oidc/login", "/profile"))
}
