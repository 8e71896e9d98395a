package session

import (
	"encoding/json"
	"time"
)

const flowPrefix = "oidc_flow:"

// FlowTTL bounds the time between initiating an oidc login and its callback.
const FlowTTL = 10 * time.Minute

// Flow is the state of an oidc login between redirect and callback.
type Flow struct {
	Nonce       string
	Verifier    string
	Next        string
	RedirectURL string
}

// SaveFlow stores flow under state for FlowTTL.
func SaveFlow(state string, flow *Flow) error {
	out, err := json.Marshal(flow)
	if err != nil {
		return err
	}

	return Store.Storage.Set(flowPrefix+state, out, FlowTTL)
}

// TakeFlow returns the flow stored under state and removes it, so every state
// is accepted once.
func TakeFlow(state string) (*Flow, error) {
	if state == "" {
		return nil, ErrNotFound
	}

	key := flowPrefix + state

	raw, err := Store.Storage.Get(key)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, ErrNotFound
	}

	if err = Store.Storage.Delete(key); err != nil {
		return nil, err
	}

	var flow Flow
	if err = json.Unmarshal(raw, &flow); err != nil {
		return nil, err
	}

	return &flow, nil
}
