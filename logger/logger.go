package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds the logging flags.
type Logger struct {
	//nolint:staticcheck // allow duplicate struct tags
	Level string `long:"log-level" env:"LOG_LEVEL" description:"Log level" default:"info" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error"`
	//nolint:staticcheck // allow duplicate struct tags
	Format string `long:"log-format" env:"LOG_FORMAT" description:"Log format" default:"console" choice:"json" choice:"console"`
}

// Setup configures the global zerolog logger to write to stderr.
func (l *Logger) Setup() {
	l.SetupWriter(os.Stderr)
}

// SetupWriter configures the global zerolog logger to write to out. Colors
// are only used when out is a terminal.
func (l *Logger) SetupWriter(out io.Writer) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if l.Format == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	if f, ok := out.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			output.NoColor = false
		}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
}
