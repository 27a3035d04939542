package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// TurnEvent captures lightweight execution telemetry for a routed turn.
type TurnEvent struct {
	ConversationID string
	Intent         string
	Agent          string
	CacheHit       bool
	Degraded       bool
	Duration       time.Duration
	Success        bool
	Err            error
}

// TurnObserver receives routed-turn events.
type TurnObserver interface {
	ObserveTurn(ctx context.Context, event TurnEvent)
}

// NoopTurnObserver ignores all events.
type NoopTurnObserver struct{}

func (NoopTurnObserver) ObserveTurn(context.Context, TurnEvent) {}

type logTurnObserver struct {
	logger *slog.Logger
}

// NewLogTurnObserver writes turn events to the provided writer.
func NewLogTurnObserver(w io.Writer) TurnObserver {
	if w == nil {
		return NoopTurnObserver{}
	}
	return &logTurnObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logTurnObserver) ObserveTurn(ctx context.Context, event TurnEvent) {
	attrs := []any{
		"conversation_id", event.ConversationID,
		"intent", event.Intent,
		"agent", event.Agent,
		"cache_hit", event.CacheHit,
		"degraded", event.Degraded,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "turn", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "turn", attrs...)
}
