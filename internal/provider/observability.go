package provider

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single provider invocation.
type CallEvent struct {
	Task      TaskType
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about provider calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logObserver) OnCallComplete(event CallEvent) {
	if event.Success {
		o.logger.Info("provider_call",
			"task", event.Task,
			"latency_ms", event.LatencyMs,
			"status", "ok",
		)
		return
	}
	o.logger.Error("provider_call",
		"task", event.Task,
		"latency_ms", event.LatencyMs,
		"status", "err",
		"error_code", event.ErrorCode,
	)
}
