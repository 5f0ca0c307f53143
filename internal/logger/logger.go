package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const serviceName = "gdpr-api"

// Init configures the global zerolog logger. Production writes JSON at info level,
// every other environment gets a coloured console writer with caller information.
func Init(env string) zerolog.Logger {
	return New(os.Stdout, env)
}

// New builds a logger writing to out and installs it as the global logger.
func New(out io.Writer, env string) zerolog.Logger {
	production := strings.EqualFold(env, "production")

	if production {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var base zerolog.Logger
	if production {
		base = zerolog.New(out)
	} else {
		base = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			PartsOrder: []string{"time", "level", "caller", "service", "env", "message", "err"},
			FormatLevel: func(i any) string {
				return strings.ToUpper(fmt.Sprintf("[%s]", i))
			},
			FormatCaller: func(caller any) string {
				return fmt.Sprintf("(%s)", caller)
			},
		})
	}

	base = base.With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env).
		Logger()

	if !production {
		base = base.With().Caller().Logger()
	}

	log.Logger = base
	return base
}
