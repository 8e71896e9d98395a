package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func etcPath(t *testing.T) string {
	t.Helper()

	// Get the project root by going up from internal/config
	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(etcPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.NotZero(t, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, 12*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, DBTypeSQLite, cfg.DB.Type)

	assert.True(t, cfg.Auth.Has(BackendOIDC))
	assert.True(t, cfg.Auth.Has(BackendLocal))
	assert.Equal(t, "Company SSO", cfg.OIDC.ProviderName)
	assert.Equal(t, []string{"admin@example.com", "3f1c9a2e-admin-subject"}, cfg.OIDC.AdminList)
	assert.Equal(t, []string{"root@example.com"}, cfg.OIDC.SuperuserList)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	jsonOverride := `{"Title":"Test Override","Webserver":{"Port":9090},` +
		`"OIDC":{"admin_users":"","superuser":" a@x.com ,b@x.com","hide_password_form":true}}`
	t.Setenv(EnvJSONOverride, jsonOverride)

	cfg, err := ReadConfig(etcPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Empty(t, cfg.OIDC.AdminList)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.OIDC.SuperuserList)
	assert.True(t, cfg.OIDC.HidePasswordForm)

	// keys not present in the override keep the file values
	assert.Equal(t, "go-oidc-bridge", cfg.OIDC.ClientID)
}

func TestReadConfigBrokenJSONOverride(t *testing.T) {
	t.Setenv(EnvJSONOverride, "{")

	_, err := ReadConfig(etcPath(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvJSONOverride)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	require.Error(t, err)
}

func TestParseIdentifierList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "only separators", raw: " , ,", want: nil},
		{name: "single", raw: "abc", want: []string{"abc"}},
		{name: "trimmed", raw: " a@x.com , sub-1 ", want: []string{"a@x.com", "sub-1"}},
		{name: "order kept", raw: "z,a,m", want: []string{"z", "a", "m"}},
		{name: "case kept", raw: "A@X.com", want: []string{"A@X.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIdentifierList(tt.raw))
		})
	}
}

func validConfig() Config {
	c := Default()
	c.Webserver.URL = "http://localhost:8080"
	c.OIDC.ClientID = "client"
	c.OIDC.DiscoveryEndpoint = "https://id.example.com"

	return c
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "no backend",
			mutate:  func(c *Config) { c.Auth.Backends = nil },
			wantErr: ErrNoAuthBackend,
		},
		{
			name:    "oidc without client id",
			mutate:  func(c *Config) { c.OIDC.ClientID = "" },
			wantErr: ErrOIDCClientIDEmpty,
		},
		{
			name: "oidc without any endpoint",
			mutate: func(c *Config) {
				c.OIDC.DiscoveryEndpoint = ""
				c.OIDC.TokenEndpoint = "https://id.example.com/token"
			},
			wantErr: ErrOIDCNoEndpoints,
		},
		{
			name: "oidc with manual endpoints only",
			mutate: func(c *Config) {
				c.OIDC.DiscoveryEndpoint = ""
				c.OIDC.AuthorizationEndpoint = "https://id.example.com/auth"
				c.OIDC.TokenEndpoint = "https://id.example.com/token"
				c.OIDC.UserEndpoint = "https://id.example.com/userinfo"
				c.OIDC.JWKSEndpoint = "https://id.example.com/jwks"
			},
		},
		{
			name: "local only needs no oidc settings",
			mutate: func(c *Config) {
				c.Auth.Backends = []string{BackendLocal}
				c.OIDC.ClientID = ""
				c.OIDC.DiscoveryEndpoint = ""
			},
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.DB.Path = "" },
			wantErr: ErrDBPathEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			err := validate(&c)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestConfigValidationStructTags(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown backend", mutate: func(c *Config) { c.Auth.Backends = []string{"ldap"} }},
		{name: "unknown db type", mutate: func(c *Config) { c.DB.Type = "oracle" }},
		{name: "unknown session storage", mutate: func(c *Config) { c.Webserver.Session.Storage = "file" }},
		{name: "unknown sign algo", mutate: func(c *Config) { c.OIDC.SignAlgo = "none" }},
		{name: "negative renew", mutate: func(c *Config) { c.OIDC.RenewIDTokenExpirySeconds = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			assert.Error(t, validate(&c))
		})
	}
}

func TestValidateDefaultsShutDownTime(t *testing.T) {
	c := validConfig()
	c.Webserver.ShutDownTime = 0

	require.NoError(t, validate(&c))
	assert.Equal(t, 5, c.Webserver.ShutDownTime)
}

func TestDumpConfigRedacted(t *testing.T) {
	c := validConfig()
	c.OIDC.ClientSecret = "very-secret"
	c.DB.Password = "db-secret"

	out, err := DumpConfig(c.Redacted())
	require.NoError(t, err)
	assert.NotContains(t, out, "very-secret")
	assert.NotContains(t, out, "db-secret")
	assert.True(t, strings.Contains(out, "rp_client_id"))

	outJSON, err := DumpConfigJSON(c.Redacted())
	require.NoError(t, err)
	assert.NotContains(t, outJSON, "very-secret")
	assert.Contains(t, outJSON, `"rp_client_id": "client"`)

	// the original value is untouched
	assert.Equal(t, "very-secret", c.OIDC.ClientSecret)
}

func TestAuthHas(t *testing.T) {
	tests := []struct {
		name     string
		backends []string
		backend  string
		want     bool
	}{
		{name: "present", backends: []string{BackendLocal, BackendOIDC}, backend: BackendOIDC, want: true},
		{name: "absent", backends: []string{BackendLocal}, backend: BackendOIDC, want: false},
		{name: "none configured", backends: nil, backend: BackendLocal, want: false},
		{name: "case sensitive", backends: []string{"OIDC"}, backend: BackendOIDC, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Auth{Backends: tt.backends}.Has(tt.backend))
		})
	}
}
