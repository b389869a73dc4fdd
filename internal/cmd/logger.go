package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/tommy351/reqecho/pkg/config"
)

func NewLogger(conf *config.LogConfig) zerolog.Logger {
	return newLogger(conf, os.Stdout)
}

func newLogger(conf *config.LogConfig, out *os.File) zerolog.Logger {
	var w io.Writer = out
	tty := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())

	if conf.Format == config.LogFormatConsole || (conf.Format == "" && tty) {
		w = zerolog.ConsoleWriter{
			Out:     colorable.NewColorable(out),
			NoColor: !tty,
		}
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(conf.Level)

	if err != nil || conf.Level == "" {
		logger = logger.Level(zerolog.InfoLevel)

		if err != nil {
			logger.Warn().Str("level", conf.Level).Msg("Unknown log level, falling back to info")
		}

		return logger
	}

	return logger.Level(level)
}
