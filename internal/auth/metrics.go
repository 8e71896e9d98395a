package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultCreated = "created"
	resultFailure = "failure"
)

var authAttempts = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "oidc_auth_attempts_total",
		Help: "Number of oidc authentication attempts, differentiated by result.",
	},
	[]string{"result"},
)

var syncMutations = promauto.NewCounter( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "oidc_privilege_sync_mutations_total",
		Help: "Number of rows changed by privilege synchronization.",
	},
)
