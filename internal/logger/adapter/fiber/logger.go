// Package fiber implements a zerolog access log middleware for fiber.
package fiber

import (
	"io"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/logger"
)

// Config implements fiber middleware struct.
type Config struct {
	// Next defines a function to skip this middleware when returned true.
	//
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Log is the logger configuration deciding the access log targets.
	Log logger.Log

	// CheckAliveURI is not logged when Log.DisableCheckAlive is set.
	CheckAliveURI string

	// QuerylessPaths are logged without their query string, e.g. the oidc
	// callback carrying the authorization code.
	QuerylessPaths []string

	// Output is an additional target, used by tests.
	Output io.Writer
}

// New creates a new fiber access logging middleware using zerolog.
func New(cfg Config) fiber.Handler {
	var writers []io.Writer

	if cfg.Log.File.Enabled {
		if err := os.MkdirAll(cfg.Log.File.Path, 0o750); err != nil { //nolint:mnd
			log.Error().Err(err).Str("path", cfg.Log.File.Path).Msg("can't create access log directory")
		} else {
			writers = append(writers, cfg.Log.File.Access.Writer(cfg.Log.File.Path))
		}
	}

	if cfg.Log.Console.Enabled && cfg.Log.EnableAccessLogToConsole {
		if cfg.Log.Console.UseConsoleWriter {
			writers = append(writers, zerolog.ConsoleWriter{
				Out:          os.Stdout,
				TimeFormat:   zerolog.TimeFieldFormat,
				PartsExclude: []string{zerolog.LevelFieldName},
			})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	if cfg.Output != nil {
		writers = append(writers, cfg.Output)
	}

	access := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			// let the app error handler write the status before it is logged
			if errH := c.App().ErrorHandler(c, chainErr); errH != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		c.Set("X-Performance", strconv.FormatFloat(elapsed.Seconds(), 'f', 6, 64)) //nolint:mnd

		if cfg.Log.DisableCheckAlive && cfg.CheckAliveURI != "" && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		// fasthttp normalizes the path, the raw query is appended for the log only
		uri := c.Path()
		if q := c.Context().QueryArgs().QueryString(); len(q) > 0 && !slices.Contains(cfg.QuerylessPaths, uri) {
			uri += "?" + string(q)
		}

		ev := access.Log().
			Str("IP", c.IP()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", elapsed).
			Str("URI", uri).
			Str("method", c.Method()).
			Str("host", c.Hostname()).
			Str(fiber.HeaderUserAgent, c.Get(fiber.HeaderUserAgent)).
			Str(fiber.HeaderReferer, c.Get(fiber.HeaderReferer))

		if chainErr != nil {
			ev = ev.Err(chainErr)
		}

		ev.Send()

		return nil
	}
}
