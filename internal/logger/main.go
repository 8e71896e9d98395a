// Package logger sets up the global zerolog logger from config.Log.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// levelRouter sends each event to the writer of its level group.
type levelRouter struct {
	trace io.Writer
	info  io.Writer // debug and info
	warn  io.Writer
	err   io.Writer // error, fatal and panic
}

// Write is used for events without a level.
func (r *levelRouter) Write(p []byte) (int, error) {
	return r.info.Write(p) //nolint:wrapcheck
}

// WriteLevel implements zerolog.LevelWriter.
func (r *levelRouter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		return r.trace.Write(p) //nolint:wrapcheck
	case l == zerolog.WarnLevel:
		return r.warn.Write(p) //nolint:wrapcheck
	case l > zerolog.WarnLevel && l != zerolog.NoLevel:
		return r.err.Write(p) //nolint:wrapcheck
	default:
		return r.info.Write(p) //nolint:wrapcheck
	}
}

// Init the zerolog logger.
// Depending on the config it enables all, some or no logger at all.
func Init(cfg Log) error {
	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, newConsoleRouter(cfg.Console))
	}

	if cfg.File.Enabled {
		fileRouter, errFile := newFileRouter(cfg.File)
		if errFile != nil {
			return errFile
		}

		writers = append(writers, fileRouter)
	}

	zerolog.SetGlobalLevel(logLevel)

	lc := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Hook(NewPrometheusHook(cfg.ServiceName)).
		With().
		Timestamp().
		Str("app", cfg.AppName)

	if cfg.ReportCaller {
		lc = lc.Caller()
	}

	// stack traces of pkg/errors are only worth their size on trace level
	if logLevel == zerolog.TraceLevel {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
		lc = lc.Stack()
	}

	log.Logger = lc.Logger()

	return nil
}

// Writer opens the rolling file of this rotation below dir.
func (r Rotation) Writer(dir string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, r.Name),
		MaxSize:    r.MaxSize,
		MaxAge:     r.MaxAge,
		MaxBackups: r.MaxBackups,
	}
}

func newFileRouter(cfg LogFile) (io.Writer, error) {
	for _, r := range []Rotation{cfg.Trace, cfg.Info, cfg.Warn, cfg.Error} {
		if r.Name == "" {
			return nil, ErrFileNameIsEmpty
		}
	}

	if err := os.MkdirAll(cfg.Path, 0o750); err != nil { //nolint:mnd
		return nil, errors.Wrapf(err, "can't create log directory %s", cfg.Path)
	}

	return &levelRouter{
		trace: cfg.Trace.Writer(cfg.Path),
		info:  cfg.Info.Writer(cfg.Path),
		warn:  cfg.Warn.Writer(cfg.Path),
		err:   cfg.Error.Writer(cfg.Path),
	}, nil
}

func newConsoleRouter(cfg Console) io.Writer {
	out := func(w io.Writer) io.Writer {
		if !cfg.UseConsoleWriter {
			return w
		}

		return zerolog.ConsoleWriter{Out: w, TimeFormat: zerolog.TimeFieldFormat}
	}

	return &levelRouter{
		trace: out(os.Stderr),
		info:  out(os.Stdout),
		warn:  out(os.Stderr),
		err:   out(os.Stderr),
	}
}
