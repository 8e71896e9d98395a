package auth

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultRetryInterval is the minimum time between two discovery attempts.
const DefaultRetryInterval = time.Minute

// BuildFunc creates a FlowClient, typically by provider discovery.
type BuildFunc func(ctx context.Context) (FlowClient, error)

// ClientHolder hands out the FlowClient and retries a failed build at most
// once per retry interval, so a provider that was down at startup becomes
// usable without a restart.
type ClientHolder struct {
	mu       sync.Mutex
	client   FlowClient
	build    BuildFunc
	retry    time.Duration
	next     time.Time
	building bool
	now      func() time.Time
}

// NewClientHolder returns a holder building its client with build.
func NewClientHolder(build BuildFunc, retry time.Duration) *ClientHolder {
	if retry <= 0 {
		retry = DefaultRetryInterval
	}

	return &ClientHolder{build: build, retry: retry, now: time.Now}
}

// StaticClient returns a holder that always hands out c.
func StaticClient(c FlowClient) *ClientHolder {
	return &ClientHolder{client: c, retry: DefaultRetryInterval, now: time.Now}
}

// Client returns the client, building it when none exists and the retry
// interval has passed. It returns ErrDiscoveryUnavailable while unavailable
// or while another build is in flight.
func (h *ClientHolder) Client(ctx context.Context) (FlowClient, error) {
	h.mu.Lock()

	if h.client != nil {
		client := h.client
		h.mu.Unlock()

		return client, nil
	}

	if !h.claimBuild() {
		h.mu.Unlock()
		return nil, ErrDiscoveryUnavailable
	}

	h.mu.Unlock()

	return h.run(ctx)
}

// Available reports whether a client exists. While none exists and the retry
// interval has passed, a build is started in the background. It never waits
// on a build.
func (h *ClientHolder) Available() bool {
	h.mu.Lock()

	if h.client != nil {
		h.mu.Unlock()
		return true
	}

	start := h.claimBuild()

	h.mu.Unlock()

	if start {
		go func() { _, _ = h.run(context.Background()) }()
	}

	return false
}

// claimBuild marks a build as running when none is and the retry interval
// has passed. h.mu must be held.
func (h *ClientHolder) claimBuild() bool {
	if h.build == nil || h.building || h.now().Before(h.next) {
		return false
	}

	h.building = true
	h.next = h.now().Add(h.retry)

	return true
}

// run executes a claimed build without holding h.mu.
func (h *ClientHolder) run(ctx context.Context) (FlowClient, error) {
	client, err := h.build(ctx)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.building = false

	if err != nil {
		log.Error().Err(err).Msg("oidc login unavailable")
		return nil, err
	}

	h.client = client

	return client, nil
}
