package service

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"
)

// UseCaseEvent describes one finished service call.
type UseCaseEvent struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Success reports whether the call returned without error.
func (e UseCaseEvent) Success() bool { return e.Err == nil }

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type observerSet []UseCaseObserver

func (s observerSet) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range s {
		obs.ObserveUseCase(ctx, event)
	}
}

type slogObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver logs one text line per use case to w.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return &slogObserver{logger: slog.New(h).With("component", "service")}
}

func (o *slogObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := []any{
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success(),
	}
	for _, k := range slices.Sorted(maps.Keys(event.Fields)) {
		attrs = append(attrs, k, event.Fields[k])
	}
	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, "error", event.Err.Error())
	}
	o.logger.Log(ctx, level, "service_use_case", attrs...)
}

// observe is deferred by each use case with its named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, err error) {
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Err:       err,
		Fields:    fields,
	})
}

func combineObservers(observers []UseCaseObserver) UseCaseObserver {
	set := make(observerSet, 0, len(observers))
	for _, obs := range observers {
		if obs != nil {
			set = append(set, obs)
		}
	}
	switch len(set) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return set[0]
	}
	return set
}
