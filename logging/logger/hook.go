package logger

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryHook forwards log entries at or above a level to Sentry
type SentryHook struct {
	hub    *sentry.Hub
	levels []logrus.Level
}

// NewSentryHook creates a hook on the current Sentry hub for every level
// from panic down to minLevel.
func NewSentryHook(minLevel logrus.Level) *SentryHook {
	levels := make([]logrus.Level, 0, minLevel+1)
	for _, l := range logrus.AllLevels {
		if l <= minLevel {
			levels = append(levels, l)
		}
	}
	return &SentryHook{hub: sentry.CurrentHub(), levels: levels}
}

// Levels returns the levels the hook fires on
func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

// Fire sends the entry to Sentry
func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if h.hub.Client() == nil {
		return nil
	}

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentryLevel(entry.Level))
		for k, v := range entry.Data {
			if k == logrus.ErrorKey {
				continue
			}
			if k == traceKey {
				if s, ok := v.(string); ok {
					scope.SetTag(traceKey, s)
				}
			}
			scope.SetExtra(k, v)
		}

		if err, ok := entry.Data[logrus.ErrorKey].(error); ok {
			scope.SetExtra("message", entry.Message)
			h.hub.CaptureException(err)
			return
		}
		h.hub.CaptureException(errors.New(entry.Message))
	})
	return nil
}

// Flush waits for buffered events to be sent
func (h *SentryHook) Flush(timeout time.Duration) bool {
	return h.hub.Flush(timeout)
}

func sentryLevel(l logrus.Level) sentry.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	case logrus.ErrorLevel:
		return sentry.LevelError
	case logrus.WarnLevel:
		return sentry.LevelWarning
	case logrus.InfoLevel:
		return sentry.LevelInfo
	default:
		return sentry.LevelDebug
	}
}
