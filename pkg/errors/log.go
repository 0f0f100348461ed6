package errors

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogHandler is an ErrorHandler that writes through a zap logger.
//
// Ignored calls (see [ErrorKind.Misuse]) are logged at debug level, so the
// default stderr logger stays quiet unless a host installs a debug logger.
// Everything else is logged at error level.
type LogHandler struct {
	// Logger receives the entries. Nil uses a stderr console logger at info level.
	Logger *zap.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

var (
	stderrLoggerOnce sync.Once
	stderrLogger     *zap.Logger
)

func defaultLogger() *zap.Logger {
	stderrLoggerOnce.Do(func() {
		encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zapcore.InfoLevel)
		stderrLogger = zap.New(core).Named("listadapter")
	})
	return stderrLogger
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defaultLogger()
}

// WantsStackTrace implements [StackTracer]; verbose handlers log stacks.
func (h *LogHandler) WantsStackTrace() bool { return h.Verbose }

// HandleError logs an Error.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Kind == KindOutOfRange {
		fields = append(fields, zap.Int("position", err.Position))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	if err.Kind.Misuse() {
		h.logger().Debug("list operation ignored", fields...)
		return
	}
	h.logger().Error("list operation failed", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("recovered panic", fields...)
}
