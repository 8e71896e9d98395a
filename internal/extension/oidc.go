package extension

import (
	"html/template"
	"net/url"
	"strings"
)

// hidePasswordStyle hides every element marked as password ui.
const hidePasswordStyle = `<style>.password-auth{display:none !important;}</style>`

var (
	signInButton = template.Must(template.New("oidc-button").Parse( //nolint:gochecknoglobals
		`<div class="oidc-login">` +
			`<a class="btn btn-oidc" href="{{ .URL }}">Sign in with {{ .Provider }}</a>` +
			`</div>`))

	settingsCard = template.Must(template.New("oidc-settings").Parse( //nolint:gochecknoglobals
		`<div class="card"><div>` +
			`<h2>Single sign-on</h2>` +
			`<p>Sign in with {{ .Provider }} is enabled. ` +
			`Administrators are assigned from the identity provider on every login.</p>` +
			`</div></div>`))
)

// OIDCOptions configure the oidc contributions.
type OIDCOptions struct {
	// Provider is the name shown on the sign in button.
	Provider string
	// LoginPath is the oidc initiate endpoint.
	LoginPath string
	// Enabled reports whether oidc login is usable. Nil means always.
	Enabled func() bool
}

func (o OIDCOptions) enabled() bool {
	return o.Enabled == nil || o.Enabled()
}

// RegisterOIDC adds the sign in button to the auth page, the password hiding
// style to html head, auth and profile pages and a status card to the
// organiser settings.
func RegisterOIDC(r *Registry, opts OIDCOptions) error {
	hide := ContributorFunc(func(ctx Context) template.HTML {
		if !ctx.HidePasswordUI {
			return ""
		}

		return hidePasswordStyle
	})

	button := ContributorFunc(func(ctx Context) template.HTML {
		if !opts.enabled() {
			return ""
		}

		return execute(signInButton, map[string]string{
			"URL":      LoginURL(opts.LoginPath, ctx.Next),
			"Provider": opts.Provider,
		})
	})

	settings := ContributorFunc(func(Context) template.HTML {
		if !opts.enabled() {
			return ""
		}

		return execute(settingsCard, map[string]string{"Provider": opts.Provider})
	})

	for _, reg := range []struct {
		point Point
		c     Contributor
	}{
		{PointHTMLHead, hide},
		{PointAuthPage, button},
		{PointAuthPage, hide},
		{PointProfilePage, hide},
		{PointOrgaSettings, settings},
	} {
		if err := r.Register(reg.point, reg.c); err != nil {
			return err
		}
	}

	return nil
}

// LoginURL returns the initiate endpoint carrying next.
func LoginURL(loginPath, next string) string {
	if next == "" {
		return loginPath
	}

	return loginPath + "?next=" + url.QueryEscape(next)
}

func execute(t *template.Template, data any) template.HTML {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return ""
	}

	return template.HTML(b.String()) //nolint:gosec
}
