package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"weather-udp/pkg/logger"
)

const (
	_sentryMaxErrorDepth        = 9
	_sentryServerRequestTimeout = 5 * time.Second
	_sentryFlushTimeout         = 2 * time.Second
	_logTimestampLayout         = "2006-01-02T15-04-05.000"
)

// SentryHook is an io.Writer fed with the logger's JSON lines. Error and
// fatal entries become Sentry events; everything else is ignored.
type SentryHook struct {
	appZone string
	appName string
	enabled bool
	capture func(*sentry.Event)
	l       *logger.Logger
}

func NewSentryHook(appZone, appName, dsn string, isDebug bool) *SentryHook {
	h := &SentryHook{appZone: appZone, appName: appName, capture: captureEvent}
	if dsn == "" {
		return h
	}

	transport := sentry.NewHTTPTransport()
	transport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(sentry.ClientOptions{
		AttachStacktrace: true,
		Debug:            isDebug,
		Dsn:              dsn,
		Environment:      appZone,
		MaxErrorDepth:    _sentryMaxErrorDepth,
		ServerName:       appName,
		Transport:        transport,
	}); err != nil {
		log.Println("sentry init error:", err.Error())
		return h
	}

	h.enabled = true
	return h
}

func captureEvent(e *sentry.Event) {
	sentry.CaptureEvent(e)
}

// Enabled reports whether events would actually be forwarded.
func (h *SentryHook) Enabled() bool {
	return h.enabled && (h.appZone == "prod" || h.appZone == "dev")
}

type logLine struct {
	Level      string `json:"level"`
	CallerFile string `json:"caller_file"`
	CallerLine int    `json:"caller_line"`
	CallerFunc string `json:"caller_func"`
	Stack      string `json:"stack"`
	Message    string `json:"msg"`
	Error      string `json:"error"`
	RequestID  string `json:"request_id"`
	Timestamp  string `json:"timestamp"`
}

func (h *SentryHook) Write(p []byte) (int, error) {
	if !h.Enabled() {
		return len(p), nil
	}

	var line logLine
	if err := json.Unmarshal(p, &line); err != nil {
		h.report(errors.Wrap(err, "[SentryHook] decode log line"))
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(line.Level)
	if err != nil {
		h.report(errors.Wrap(err, "[SentryHook] parse zap level"))
		return len(p), nil
	}

	if level < zapcore.ErrorLevel || line.Message == "" {
		return len(p), nil
	}

	h.capture(h.buildEvent(level, line))

	return len(p), nil
}

func (h *SentryHook) buildEvent(level zapcore.Level, line logLine) *sentry.Event {
	event := sentry.NewEvent()
	event.Environment = h.appZone
	event.Level = mapLevel(level)
	event.Message = line.Message
	if ts, err := time.ParseInLocation(_logTimestampLayout, line.Timestamp, time.UTC); err == nil {
		event.Timestamp = ts
	}
	event.Extra["AppName"] = h.appName
	event.Extra["Error"] = line.Error
	event.Extra["CallerFile"] = line.CallerFile
	event.Extra["CallerLine"] = line.CallerLine
	event.Extra["CallerFunc"] = line.CallerFunc
	event.Extra["Stack"] = line.Stack
	if line.RequestID != "" {
		event.Tags["request_id"] = line.RequestID
	}
	event.Exception = append(event.Exception, sentry.Exception{
		Type:  line.Message,
		Value: line.Error,
	})
	return event
}

func (h *SentryHook) report(err error) {
	if h.l != nil {
		h.l.Debug(err.Error())
		return
	}
	log.Println(err.Error())
}

// SetLogger lets the hook report its own decode problems. Those reports are
// logged at debug level so they never loop back into the hook.
func (h *SentryHook) SetLogger(l *logger.Logger) {
	if l != nil {
		h.l = l
	}
}

// Flush waits for buffered events to be delivered.
func (h *SentryHook) Flush() {
	if h.enabled {
		sentry.Flush(_sentryFlushTimeout)
	}
}

func mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel, zapcore.DPanicLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelDebug
	}
}
