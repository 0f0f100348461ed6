// Package logging builds the demo's zap logger and routes list errors to it.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/go-drift/listadapter/cmd/listdemo/internal/config"
	"github.com/go-drift/listadapter/pkg/errors"
)

// New returns a logger for cfg. Entries go to a rotating file when
// cfg.Filename is set and to fallback otherwise; a nil fallback discards
// them.
func New(cfg config.LogConfig, level zapcore.Level, fallback io.Writer) *zap.Logger {
	var sink zapcore.WriteSyncer
	switch {
	case cfg.Filename != "":
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxAge:     cfg.MaxDays,
			MaxBackups: cfg.MaxBackups,
		})
	case fallback != nil:
		sink = zapcore.Lock(zapcore.AddSync(fallback))
	default:
		return zap.NewNop()
	}
	core := zapcore.NewCore(encoder(cfg.Format), sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller()).Named("listdemo")
}

func encoder(format string) zapcore.Encoder {
	if format == "json" {
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(enc)
	}
	return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
}

// Install routes list errors and recovered panics to logger and returns a
// function restoring the previous routing.
func Install(logger *zap.Logger, verbose bool) func() {
	errors.SetHandler(&errors.LogHandler{Logger: logger.Named("adapter"), Verbose: verbose})
	return func() { errors.SetHandler(nil) }
}
