package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/auth"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/extension"
	accesslog "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/logger/adapter/fiber"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler"
	oidchandler "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/auth/oidc"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/dashboard"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/login"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/logout"
	orgasettings "github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/orga/settings"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/orga/teams"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/profile"
	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/web/handler/register"
)

// MetricsPath exposes the prometheus registry.
const MetricsPath = "/metrics"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	s.WaitShutdown()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for SIGINT or SIGTERM and stops the http server.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether checkalive answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates the web service. The password form gate and the extension
// points are built once here and evaluated per request.
func New(cfg *config.Config, db *gorm.DB, clients *auth.ClientHolder) (*Service, error) {
	if cfg == nil || db == nil {
		return nil, errors.New(handler.ErrNilACDFatalLogMsg)
	}

	oidcActive := cfg.Auth.Has(config.BackendOIDC) && clients != nil

	available := func() bool { return oidcActive && clients.Available() }

	extensions := extension.NewRegistry()
	if oidcActive {
		if err := extension.RegisterOIDC(extensions, extension.OIDCOptions{
			Provider:  cfg.OIDC.ProviderName,
			LoginPath: oidchandler.LoginPath,
			Enabled:   available,
		}); err != nil {
			return nil, err
		}
	}

	view := &handler.View{
		Cfg:        cfg,
		Gate:       auth.NewGate(cfg, available),
		Extensions: extensions,
	}

	service := &Service{
		cfg: cfg,
		App: newApp(cfg),
	}

	service.mountInfra()

	if err := service.mountHandlers(db, view, clients, oidcActive); err != nil {
		return nil, err
	}

	return service, nil
}

func newApp(cfg *config.Config) *fiber.App {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in dev mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.Reload(true)

		log.Warn().Msg("dev mode enabled: using local filesystem for templates")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:          8192, //nolint:mnd
			AppName:                 cfg.Title,
			CaseSensitive:           true,
			Prefork:                 false,
			Immutable:               true,
			Views:                   templateEngine,
			ProxyHeader:             cfg.Webserver.ProxyHeader,
			EnableTrustedProxyCheck: len(cfg.Webserver.TrustedProxies) > 0,
			TrustedProxies:          cfg.Webserver.TrustedProxies,
		},
	)

	app.Use(recover.New())
	app.Use(accesslog.New(accesslog.Config{
		Log:            cfg.Log,
		CheckAliveURI:  cfg.Webserver.CheckAlive,
		QuerylessPaths: []string{oidchandler.CallbackPath},
	}))

	return app
}

func (s *Service) mountInfra() {
	s.App.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	s.App.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	checkAlive := s.cfg.Webserver.CheckAlive
	if checkAlive == "" {
		checkAlive = "/checkalive"
	}

	s.App.Get(checkAlive, func(c *fiber.Ctx) error {
		if !s.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("alive")
	})
}

func (s *Service) mountHandlers(db *gorm.DB, view *handler.View, clients *auth.ClientHolder, oidcActive bool) error {
	cfg := s.cfg

	if oidcActive {
		if err := oidchandler.Handler.Init(s.App, cfg, db, clients); err != nil {
			return err
		}
	}

	if err := logout.Handler.Init(s.App, cfg); err != nil {
		return err
	}

	for _, h := range []handler.Service{
		&login.Handler,
		&register.Handler,
		&profile.Handler,
		&dashboard.Handler,
		&orgasettings.Handler,
		&teams.Handler,
	} {
		if err := h.Init(s.App, cfg, db, view); err != nil {
			return err
		}
	}

	s.App.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(handler.DashboardPath)
	})

	return nil
}
