package calculator

import (
	"context"
	"fmt"
	"time"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/keymap"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Service drives calculator sessions. It is shared by every front end.
type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ---------------------------------------------------------------------------
// Session lifecycle
// ---------------------------------------------------------------------------

// CreateSession starts a session and returns its initial state.
func (s *Service) CreateSession(ctx context.Context) (State, error) {
	ctx, span := tracer.Start(ctx, "calculator.session.create")
	defer span.End()

	sess, err := s.store.Create()
	if err != nil {
		return State{}, failSpan(span, err)
	}

	sessionGauge.Add(ctx, 1)
	span.SetAttributes(attribute.String("calculator.session_id", sess.ID))

	observability.LoggerWithTrace(ctx).Info("calculator session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	snap := sess.run(s.now(), func(*engine.Engine) {})
	return stateOf(sess.ID, snap), nil
}

// State returns the current observables of a session.
func (s *Service) State(ctx context.Context, id string) (State, error) {
	_, span := tracer.Start(ctx, "calculator.session.state",
		trace.WithAttributes(attribute.String("calculator.session_id", id)),
	)
	defer span.End()

	sess, err := s.store.Get(id)
	if err != nil {
		return State{}, failSpan(span, err)
	}

	snap := sess.run(s.now(), func(*engine.Engine) {})
	return stateOf(id, snap), nil
}

// DeleteSession drops a session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "calculator.session.delete",
		trace.WithAttributes(attribute.String("calculator.session_id", id)),
	)
	defer span.End()

	if err := s.store.Delete(id); err != nil {
		return failSpan(span, err)
	}

	sessionGauge.Add(ctx, -1)
	observability.LoggerWithTrace(ctx).Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
	return nil
}

// Reap drops idle sessions every interval until ctx is done.
func (s *Service) Reap(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := s.store.Sweep(idle)
			if len(removed) == 0 {
				continue
			}
			sessionGauge.Add(ctx, -int64(len(removed)))
			observability.Logger.Info("calculator sessions expired",
				zap.Int("count", len(removed)),
				zap.Duration("idle", idle),
			)
		}
	}
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Apply runs cmds against a session in order.
func (s *Service) Apply(ctx context.Context, id string, cmds []engine.Command) (Result, error) {
	ctx, span := tracer.Start(ctx, "calculator.apply",
		trace.WithAttributes(
			attribute.String("calculator.session_id", id),
			attribute.Int("calculator.commands", len(cmds)),
		),
	)
	defer span.End()

	if len(cmds) == 0 {
		return Result{}, failSpan(span, ErrNoCommands)
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return Result{}, failSpan(span, err)
	}

	var res Result
	snap := sess.run(s.now(), func(e *engine.Engine) {
		res = s.applyAll(ctx, span, e, cmds)
	})
	res.State = stateOf(id, snap)

	s.finish(ctx, span, "apply", res)
	return res, nil
}

// PressKeys resolves key events through the default key map and applies
// them.
func (s *Service) PressKeys(ctx context.Context, id string, events []keymap.KeyEvent) (Result, error) {
	cmds, err := keymap.Resolve(events)
	if err != nil {
		return Result{}, err
	}
	return s.Apply(ctx, id, cmds)
}

// Clear resets a session's value; memory survives.
func (s *Service) Clear(ctx context.Context, id string) (State, error) {
	res, err := s.Apply(ctx, id, []engine.Command{engine.Clear()})
	if err != nil {
		return State{}, err
	}
	return res.State, nil
}

// Evaluate runs cmds on a fresh engine that is discarded afterwards.
func (s *Service) Evaluate(ctx context.Context, cmds []engine.Command) (Result, error) {
	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.Int("calculator.commands", len(cmds))),
	)
	defer span.End()

	if len(cmds) == 0 {
		return Result{}, failSpan(span, ErrNoCommands)
	}

	e := engine.New()
	res := s.applyAll(ctx, span, e, cmds)
	res.State = stateOf("", e.Snapshot())

	s.finish(ctx, span, "evaluate", res)
	return res, nil
}

// applyAll feeds cmds to e, with a child span and a counter increment per
// command.
func (s *Service) applyAll(ctx context.Context, parent trace.Span, e *engine.Engine, cmds []engine.Command) Result {
	var res Result
	start := time.Now()

	for i, c := range cmds {
		_, cmdSpan := tracer.Start(ctx, fmt.Sprintf("calculator.command.%d", i),
			trace.WithAttributes(
				attribute.Int("calculator.command.index", i),
				attribute.String("calculator.command", c.String()),
			),
		)

		applied := e.Apply(c)
		if applied {
			res.Applied++
		} else {
			res.Rejected++
			cmdSpan.AddEvent("command.rejected", trace.WithAttributes(
				attribute.Bool("calculator.locked", !e.Valid()),
			))
		}

		cmdSpan.SetAttributes(
			attribute.Bool("calculator.command.applied", applied),
			attribute.String("calculator.display", e.Display()),
		)
		cmdSpan.End()

		commandCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("command", c.String()),
			attribute.Bool("applied", applied),
		))
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	batchHistogram.Record(ctx, elapsed)

	parent.AddEvent("batch.complete", trace.WithAttributes(
		attribute.Int("applied", res.Applied),
		attribute.Int("rejected", res.Rejected),
		attribute.Float64("duration_ms", elapsed),
	))
	return res
}

func (s *Service) finish(ctx context.Context, span trace.Span, opName string, res Result) {
	if res.Value != nil {
		resultGauge.Record(ctx, *res.Value, metric.WithAttributes(attribute.String("operation", opName)))
	}

	span.SetAttributes(
		attribute.String("calculator.display", res.Display),
		attribute.String("calculator.history", res.History),
		attribute.Bool("calculator.locked", res.Locked),
	)
	span.SetStatus(codes.Ok, "")

	observability.LoggerWithTrace(ctx).Info("calculator commands applied",
		zap.String("operation", opName),
		zap.String("session_id", res.SessionID),
		zap.String("display", res.Display),
		zap.String("history", res.History),
		zap.Bool("locked", res.Locked),
		zap.Int("applied", res.Applied),
		zap.Int("rejected", res.Rejected),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)
}

func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
