package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// LoginPath is the native login page, oidc failures land here too.
	LoginPath = RootPath + "login"

	// DashboardPath is the landing page after login.
	DashboardPath = RootPath + "dashboard"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
