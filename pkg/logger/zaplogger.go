package logger

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timestampLayout = "2006-01-02T15-04-05.000"

// Options configure a Logger. Zero values fall back to sane defaults.
type Options struct {
	AppName string
	AppEnv  string
	Level   string
}

// Logger is a thin zap wrapper taking structured fields as maps.
type Logger struct {
	appEnv  string
	appName string
	l       *zap.Logger
}

func NewZapLogger(opts Options, writers ...io.Writer) *Logger {
	var syncers []zapcore.WriteSyncer

	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = timeEncoder(timestampLayout, time.UTC)
	cfg.TimeKey = "timestamp"

	if len(writers) == 0 {
		syncers = append(syncers, os.Stdout)
	}
	for _, w := range writers {
		syncers = append(syncers, zapcore.AddSync(w))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg),
		zapcore.NewMultiWriteSyncer(syncers...),
		ParseLevel(opts.Level),
	)

	return &Logger{
		appEnv:  opts.AppEnv,
		appName: opts.AppName,
		l:       zap.New(core),
	}
}

// NewNop returns a logger that discards everything; handy in tests.
func NewNop() *Logger {
	return &Logger{l: zap.NewNop()}
}

// ParseLevel maps a textual level to zap, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// With returns a child logger that attaches fields to every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{
		appEnv:  l.appEnv,
		appName: l.appName,
		l:       l.l.With(mapToZapFields(fields)...),
	}
}

func (l *Logger) Stop() error {
	return l.l.Sync()
}

func (l *Logger) Error(err error, fields ...map[string]any) {
	l.entry(fields).Error(err.Error(), append(l.meta(), zap.String("error", err.Error()), zap.Stack("stack"))...)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	l.entry(fields).Info(msg, l.meta()...)
}

func (l *Logger) Warning(msg string, fields ...map[string]any) {
	l.entry(fields).Warn(msg, l.meta()...)
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	l.entry(fields).Debug(msg, l.meta()...)
}

func (l *Logger) Fatal(msg string, fields ...map[string]any) {
	l.entry(fields).Fatal(msg, l.meta()...)
}

func (l *Logger) entry(fields []map[string]any) *zap.Logger {
	if len(fields) == 0 {
		return l.l
	}
	return l.l.WithOptions(zap.Fields(mapToZapFields(fields[0])...))
}

// meta is called two frames below the public method, so caller info points
// at the code that logged.
func (l *Logger) meta() []zap.Field {
	file, line, funcName := getRuntimeParams()
	return []zap.Field{
		zap.String("app_zone", l.appEnv),
		zap.String("app_name", l.appName),
		zap.String("caller_file", file),
		zap.Int("caller_line", line),
		zap.String("caller_func", funcName),
	}
}

func mapToZapFields(data map[string]any) []zap.Field {
	zapFields := make([]zap.Field, 0, len(data))

	for k, v := range data {
		if err, ok := v.(error); ok {
			zapFields = append(zapFields, zap.String(k, err.Error()))
			continue
		}
		zapFields = append(zapFields, zap.Any(k, v))
	}

	return zapFields
}

func getRuntimeParams() (file string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "not_defined", 0, "not_defined"
	}
	return file, line, runtime.FuncForPC(pc).Name()
}

func timeEncoder(layout string, location *time.Location) func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		t = t.In(location)
		type appendTimeEncoder interface {
			AppendTimeLayout(time.Time, string)
		}
		if enc, ok := enc.(appendTimeEncoder); ok {
			enc.AppendTimeLayout(t, layout)
			return
		}
		enc.AppendString(t.Format(layout))
	}
}
