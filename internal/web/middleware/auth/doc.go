// Package auth provides authentication middleware for the web application.
//
// Middleware validates the session cookie, loads the session user from the
// database into fiber.Locals and redirects unauthenticated requests to the
// login page. RequireCapability guards pages by team capability.
//
// Usage:
//
//	app.Get("/orga/teams",
//		authmw.Middleware(db),
//		authmw.RequireCapability(svc, auth.CapChangeTeams),
//		s.Get,
//	)
package auth
