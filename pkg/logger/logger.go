// Package logger holds the process-wide zerolog logger of the club admin
// service. main calls Init once; stores, services and handlers take a child
// from Component so every line names the part of the service that wrote it.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options is read from the LOG_* settings.
type Options struct {
	// Level is trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty switches to the console writer for local runs.
	Pretty bool
	// Output defaults to stdout.
	Output io.Writer
	// Service is stamped on every line as "service".
	Service string
}

var (
	mu   sync.Mutex
	once sync.Once
	base *zerolog.Logger
)

// Init builds the logger on the first call. Later calls return that logger
// and ignore their options.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		lvl := parseLevel(opts.Level)
		zerolog.SetGlobalLevel(lvl)

		l := zerolog.New(writer(opts)).Level(lvl).With().Timestamp().Caller()
		if opts.Service != "" {
			l = l.Str("service", opts.Service)
		}
		built := l.Logger()

		mu.Lock()
		base = &built
		mu.Unlock()
	})
	return Get()
}

func writer(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return out
}

// Component tags a child logger with "component", e.g. store or http.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Get panics until Init has run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if base == nil {
		panic("logger: Get() called before Init()")
	}
	return *base
}

// Reset drops the logger so tests can call Init again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	base = nil
}

// parseLevel accepts "warning" as well as zerolog's own names. Levels below
// trace or above error are not offered, so they fall back to info too.
func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || s == "" || lvl < zerolog.TraceLevel || lvl > zerolog.ErrorLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
