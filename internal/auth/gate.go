package auth

import (
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
)

// ShouldHidePasswordUI reports whether password login, registration, reset and
// change forms are hidden. They are hidden only when oidc.hide_password_form
// is set and the oidc backend is active, so a broken oidc setup can't lock
// everybody out.
func ShouldHidePasswordUI(cfg *config.Config) bool {
	return cfg.OIDC.HidePasswordForm && cfg.Auth.Has(config.BackendOIDC)
}

// Gate evaluates ShouldHidePasswordUI per request. Available, when set,
// reports whether the oidc client is usable right now.
type Gate struct {
	cfg       *config.Config
	available func() bool
}

// NewGate returns a gate for cfg. available may be nil.
func NewGate(cfg *config.Config, available func() bool) *Gate {
	return &Gate{cfg: cfg, available: available}
}

// ShouldHidePasswordUI is ShouldHidePasswordUI of the gate config, false while
// the oidc client is unavailable.
func (g *Gate) ShouldHidePasswordUI() bool {
	if !ShouldHidePasswordUI(g.cfg) {
		return false
	}

	return g.available == nil || g.available()
}

// OIDCEnabled reports whether the oidc sign in is offered.
func (g *Gate) OIDCEnabled() bool {
	if !g.cfg.Auth.Has(config.BackendOIDC) {
		return false
	}

	return g.available == nil || g.available()
}

// HasPasswordAuth reports whether password forms are shown.
func (g *Gate) HasPasswordAuth() bool {
	return g.cfg.Auth.Has(config.BackendLocal) && !g.ShouldHidePasswordUI()
}

// TemplateData returns the flags password templates branch on.
func (g *Gate) TemplateData() map[string]any {
	return map[string]any{
		"OIDCOnlyAuth":    g.ShouldHidePasswordUI(),
		"HasPasswordAuth": g.HasPasswordAuth(),
		"OIDCEnabled":     g.OIDCEnabled(),
	}
}
