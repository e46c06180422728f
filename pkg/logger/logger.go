package logx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/catalog-chat/server/internal/core"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

// LoggerOpts controls where and how verbosely the global logger writes.
// When File is set, output is mirrored into a size-rotated log file.
type LoggerOpts struct {
	Environment core.Environment
	Level       string
	File        string
	MaxSizeMB   int
	MaxBackups  int
}

func safe(otps ...LoggerOpts) *LoggerOpts {
	if len(otps) == 0 {
		return DefaultLoggerOpts
	}
	return &otps[0]
}

func Init(otps ...LoggerOpts) {
	opts := safe(otps...)

	var out io.Writer = os.Stderr
	level := zerolog.InfoLevel
	if !opts.Environment.IsProduction() {
		out = zerolog.NewConsoleWriter()
		level = zerolog.DebugLevel
	}
	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			Compress:   true,
		})
	}
	if opts.Level != "" {
		if parsed, err := zerolog.ParseLevel(opts.Level); err == nil {
			level = parsed
		}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger().Level(level)
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
