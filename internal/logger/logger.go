package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the process logger.  Production output is JSON on stderr;
// dev output goes through the console writer at debug level.
func Setup(dev bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if dev {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if dev {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
			With().Caller().Logger()
	}

	return logger
}
