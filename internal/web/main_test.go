package web_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/dbtest"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/db/models"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/webtest"
)

type staticFlow struct{}

func (staticFlow) AuthURL(state, _, _, _ string) string {
	return "https://id.example.com/authorize?state=" + state
}

func (staticFlow) Exchange(context.Context, string, string, string, string) (auth.Claims, *auth.Tokens, error) {
	return auth.Claims{}, nil, auth.ErrAuthenticationFailed
}

func (staticFlow) LogoutURL(string, string) string { return "" }

func newService(t *testing.T, cfg *config.Config, clients *auth.ClientHolder) *web.Service {
	t.Helper()

	webtest.InitSession()

	svc, err := web.New(cfg, dbtest.New(t), clients)
	require.NoError(t, err)

	return svc
}

func TestNewRejectsNil(t *testing.T) {
	_, err := web.New(nil, nil, nil)
	require.Error(t, err)
}

func TestCheckAlive(t *testing.T) {
	svc := newService(t, webtest.Config(), auth.StaticClient(staticFlow{}))

	resp, _ := webtest.Do(t, svc.App, webtest.Get("/checkalive"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "not started yet")
	assert.False(t, svc.Alive())
}

func TestMetrics(t *testing.T) {
	svc := newService(t, webtest.Config(), auth.StaticClient(staticFlow{}))

	resp, body := webtest.Do(t, svc.App, webtest.Get(web.MetricsPath))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "go_goroutines")
}

func TestStaticFiles(t *testing.T) {
	svc := newService(t, webtest.Config(), auth.StaticClient(staticFlow{}))

	resp, body := webtest.Do(t, svc.App, webtest.Get("/static/css/bridge.css"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ".password-auth")
}

func TestRootRedirectsToDashboard(t *testing.T) {
	svc := newService(t, webtest.Config(), auth.StaticClient(staticFlow{}))

	resp, _ := webtest.Do(t, svc.App, webtest.Get("/"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestLoginPageRendersEmbeddedTemplate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *config.Config)
		clients     *auth.ClientHolder
		wantButton  bool
		wantForm    bool
		wantHideCSS bool
	}{
		{
			name:       "both backends",
			mutate:     func(*config.Config) {},
			clients:    auth.StaticClient(staticFlow{}),
			wantButton: true,
			wantForm:   true,
		},
		{
			name:        "password form hidden",
			mutate:      func(cfg *config.Config) { cfg.OIDC.HidePasswordForm = true },
			clients:     auth.StaticClient(staticFlow{}),
			wantButton:  true,
			wantHideCSS: true,
		},
		{
			name:     "local only",
			mutate:   func(cfg *config.Config) { cfg.Auth.Backends = []string{config.BackendLocal} },
			clients:  nil,
			wantForm: true,
		},
		{
			name:     "hide flag ignored without oidc backend",
			mutate: func(cfg *config.Config) {
				cfg.Auth.Backends = []string{config.BackendLocal}
				cfg.OIDC.HidePasswordForm = true
			},
			clients:  nil,
			wantForm: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := webtest.Config()
			tt.mutate(cfg)

			svc := newService(t, cfg, tt.clients)

			resp, body := webtest.Do(t, svc.App, webtest.Get("/login?next=/profile"))
			require.Equal(t, http.StatusOK, resp.StatusCode)

			assert.Equal(t, tt.wantButton, strings.Contains(body, "Sign in with Company SSO"))
			assert.Equal(t, tt.wantForm, strings.Contains(body, `class="password-auth"`))
			assert.Equal(t, tt.wantHideCSS, strings.Contains(body, ".password-auth{display:none"))

			if tt.wantButton {
				assert.Contains(t, body, "/auth/oidc/login?next=%2Fprofile")
			}
		})
	}
}

func TestOIDCRoutesOnlyWithBackend(t *testing.T) {
	cfg := webtest.Config()
	cfg.Auth.Backends = []string{config.BackendLocal}

	svc := newService(t, cfg, nil)

	resp, _ := webtest.Do(t, svc.App, webtest.Get("/auth/oidc/login"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardRendersWithLayout(t *testing.T) {
	cfg := webtest.Config()
	webtest.InitSession()

	db := dbtest.New(t)

	svc, err := web.New(cfg, db, auth.StaticClient(staticFlow{}))
	require.NoError(t, err)

	user := models.User{Email: "jane@example.com", DisplayName: "Jane", Password: models.UnusablePassword(), IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	resp, body := webtest.Do(t, svc.App, webtest.Get("/dashboard", webtest.LoginCookie(t, user.ID)))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, "<title>Bridge</title>")
	assert.Contains(t, body, "Welcome, Jane")
	assert.Contains(t, body, "You are not a member of any team.")
	assert.Contains(t, body, "/auth/oidc/logout")
}
