package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrNoAuthBackend error if auth.backends is empty.
	ErrNoAuthBackend = errors.New("toml config auth.backends needs at least one backend")

	// ErrOIDCClientIDEmpty error if the oidc backend is active without rp_client_id.
	ErrOIDCClientIDEmpty = errors.New("toml config oidc.rp_client_id can not be empty when the oidc backend is active")

	// ErrOIDCNoEndpoints error if neither discovery nor all manual endpoints are set.
	ErrOIDCNoEndpoints = errors.New(
		"toml config oidc needs op_discovery_endpoint or all of the op_*_endpoint settings",
	)

	// ErrDBPathEmpty error if the sqlite engine is selected without a path.
	ErrDBPathEmpty = errors.New("toml config db.path can not be empty for sqlite")
)
