package config

import (
	"slices"
	"time"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/logger"
)

// Authentication backend names accepted in Auth.Backends.
const (
	BackendLocal = "local"
	BackendOIDC  = "oidc"
)

// Session storage kinds accepted in Webserver.Session.Storage.
const (
	SessionStorageDB     = "db"
	SessionStorageMemory = "memory"
	SessionStorageRedis  = "redis"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration // lifetime of a login session
	Storage    string        `validate:"omitempty,oneof=db memory redis"`
	Table      string        // table name used by the db storage
	Redis      Redis
}

// Redis holds the connection settings for the redis session storage.
type Redis struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config overall data structure.
type Config struct {
	DevMode      bool // enable dev mode for development
	DB           DB
	Log          logger.Log
	Title        string
	Webserver    Webserver
	Auth         Auth
	OIDC         OIDC
	Organisation Organisation
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver
	CheckAlive   string // liveness path, not access logged when Log.DisableCheckAlive is set

	// ProxyHeader is the header carrying the client IP when running behind a
	// TLS terminating proxy, e.g. X-Forwarded-For.
	ProxyHeader    string
	TrustedProxies []string

	Session Session // session settings
}

// Auth lists the active authentication backends.
type Auth struct {
	Backends []string `validate:"dive,oneof=local oidc"`
}

// Has reports whether the named backend is active.
func (a Auth) Has(backend string) bool {
	return slices.Contains(a.Backends, backend)
}

// Organisation holds the names used when the default administrative team is
// created on demand.
type Organisation struct {
	Slug      string
	Name      string
	AdminTeam string
}

// OIDC holds the relying party settings. Key names follow the [oidc] section
// operators already know from the host application.
type OIDC struct {
	ClientID     string `toml:"rp_client_id" json:"rp_client_id"`
	ClientSecret string `toml:"rp_client_secret" json:"rp_client_secret"`

	DiscoveryEndpoint     string `toml:"op_discovery_endpoint" json:"op_discovery_endpoint"`
	AuthorizationEndpoint string `toml:"op_authorization_endpoint" json:"op_authorization_endpoint"`
	TokenEndpoint         string `toml:"op_token_endpoint" json:"op_token_endpoint"`
	UserEndpoint          string `toml:"op_user_endpoint" json:"op_user_endpoint"`
	JWKSEndpoint          string `toml:"op_jwks_endpoint" json:"op_jwks_endpoint"`

	SignAlgo string `toml:"rp_sign_algo" json:"rp_sign_algo" validate:"omitempty,oneof=RS256 RS384 RS512 ES256 ES384 ES512 PS256 PS384 PS512 EdDSA"` //nolint:lll
	Scopes   string `toml:"rp_scopes" json:"rp_scopes"` // space separated

	StoreAccessToken          bool `toml:"store_access_token" json:"store_access_token"`
	StoreIDToken              bool `toml:"store_id_token" json:"store_id_token"`
	RenewIDTokenExpirySeconds int  `toml:"renew_id_token_expiry_seconds" json:"renew_id_token_expiry_seconds" validate:"gte=0"` //nolint:lll

	CreateUser bool `toml:"create_user" json:"create_user"`
	UseNonce   bool `toml:"use_nonce" json:"use_nonce"`

	// RedirectURL overrides the callback URL. Empty means Webserver.URL + callback path.
	RedirectURL        string `toml:"redirect_url" json:"redirect_url"`
	LoginRedirectURL   string `toml:"login_redirect_url" json:"login_redirect_url"`
	LogoutRedirectURL  string `toml:"logout_redirect_url" json:"logout_redirect_url"`
	ProviderName       string `toml:"provider_name" json:"provider_name"`
	ForceHTTPSRedirect bool   `toml:"force_https_redirect" json:"force_https_redirect"`

	// AdminUsers and Superusers are comma separated subject ids or emails.
	AdminUsers       string `toml:"admin_users" json:"admin_users"`
	Superusers       string `toml:"superuser" json:"superuser"`
	HidePasswordForm bool   `toml:"hide_password_form" json:"hide_password_form"`

	// AdminList and SuperuserList are parsed from AdminUsers and Superusers
	// once by ReadConfig.
	AdminList     []string `toml:"-" json:"-"`
	SuperuserList []string `toml:"-" json:"-"`
}

// HasManualEndpoints reports whether all four provider endpoints are configured by hand.
func (o OIDC) HasManualEndpoints() bool {
	return o.AuthorizationEndpoint != "" && o.TokenEndpoint != "" && o.UserEndpoint != "" && o.JWKSEndpoint != ""
}
