// Package webtest holds the fakes shared by handler tests.
package webtest

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/extension"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/session"
)

// NoOpViews is a minimal Fiber Views engine used for tests.
// It writes the template name followed by every scalar, template.HTML and
// extension point list of the data as key=value lines, sorted by key,
// so tests can assert what handlers rendered.
type NoOpViews struct{}

// Load implements fiber.Views.
func (NoOpViews) Load() error { return nil }

// Render implements fiber.Views.
func (NoOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	_, _ = io.WriteString(w, name+"\n")

	var m map[string]interface{}

	switch d := data.(type) {
	case fiber.Map:
		m = d
	case map[string]interface{}:
		m = d
	default:
		return nil
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		switch v := m[k].(type) {
		case string, bool, int64, template.HTML, []extension.Point:
			_, _ = fmt.Fprintf(w, "%s=%v\n", k, v)
		}
	}

	return nil
}

// Storage is a minimal in-memory implementation of fiber.Storage for tests.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ fiber.Storage = (*Storage)(nil)

// Get implements fiber.Storage.
func (s *Storage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

// Set implements fiber.Storage.
func (s *Storage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

// Delete implements fiber.Storage.
func (s *Storage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Reset implements fiber.Storage.
func (s *Storage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

// Close implements fiber.Storage.
func (s *Storage) Close() error { return nil }

// Len returns the number of stored keys.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// InitSession initializes a fresh in-memory session store for one test.
func InitSession() *Storage {
	storage := &Storage{data: make(map[string][]byte)}
	session.Init(storage, time.Hour)

	return storage
}

// Config returns a config with both backends and the oidc section filled.
func Config() *config.Config {
	cfg := config.Default()
	cfg.Title = "Bridge"
	cfg.Webserver.URL = "https://bridge.example.com"
	cfg.Webserver.Session.ExpiryTime = time.Hour
	cfg.OIDC.ClientID = "bridge"
	cfg.OIDC.ProviderName = "Company SSO"
	cfg.OIDC.DiscoveryEndpoint = "https://id.example.com"
	cfg.OIDC.AdminUsers = "admin@example.com"
	cfg.OIDC.AdminList = []string{"admin@example.com"}
	cfg.OIDC.Superusers = "root-subject"
	cfg.OIDC.SuperuserList = []string{"root-subject"}

	return &cfg
}

// View returns the page helpers for cfg with the oidc contributions registered.
func View(t testing.TB, cfg *config.Config) *handler.View {
	t.Helper()

	registry := extension.NewRegistry()
	require.NoError(t, extension.RegisterOIDC(registry, extension.OIDCOptions{
		Provider:  cfg.OIDC.ProviderName,
		LoginPath: "/auth/oidc/login",
	}))

	return &handler.View{
		Cfg:        cfg,
		Gate:       auth.NewGate(cfg, nil),
		Extensions: registry,
	}
}

// NewApp returns a fiber app rendering with NoOpViews.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{Views: NoOpViews{}})
}

// Do sends req and returns the response with its body read.
func Do(t testing.TB, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

// Get builds a GET request carrying cookies.
func Get(target string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// PostForm builds a form POST request carrying cookies.
func PostForm(target string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	for _, c := range cookies {
		req.AddCookie(c)
	}

	return req
}

// Cookie returns the named cookie set by resp or nil.
func Cookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// LoginCookie starts a session for userID and returns its cookie.
func LoginCookie(t testing.TB, userID uint64) *http.Cookie {
	t.Helper()

	id, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := session.Data{UserID: userID}
	require.NoError(t, data.Write(id, time.Hour))

	return &http.Cookie{Name: session.CookieName, Value: id}
}
