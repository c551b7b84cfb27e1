// Package actions decodes the JSON payloads of a replay's action stream into
// typed core actions. Each payload names its kind under the "action" key; the
// Registry routes it to the handler registered for that kind.
package actions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/awbwapp/replay/pkg/core"
)

var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrMalformedAction = errors.New("malformed action")
)

// Payload is one action payload together with the replay state it is decoded against.
type Payload struct {
	Kind   string
	JSON   gjson.Result
	Replay *core.ReplayData
	Turn   *core.TurnData
}

// HandlerFunc decodes one payload of a registered kind.
type HandlerFunc func(Payload) (core.Action, error)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures handler registration.
type Option func(*config)

type config struct {
	logged bool
}

// Logged adds debug logging to the handler.
func Logged() Option {
	return func(c *config) {
		c.logged = true
	}
}

// Registry routes action payloads to registered handlers.
type Registry struct {
	handlers map[string]HandlerFunc
	logger   Logger

	decoded  metric.Int64Counter
	rejected metric.Int64Counter
}

// New creates an empty Registry with the given logger.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(logger Logger) (*Registry, error) {
	r := &Registry{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}

	m := meter()

	var err error

	r.decoded, err = m.Int64Counter(
		"actions.decoded",
		metric.WithDescription("Total action payloads decoded"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating decoded counter: %w", err)
	}

	r.rejected, err = m.Int64Counter(
		"actions.rejected",
		metric.WithDescription("Total action payloads that failed to decode"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	return r, nil
}

// NewRegistry creates a Registry with handlers for every known action kind.
func NewRegistry(logger Logger, opts ...Option) (*Registry, error) {
	r, err := New(logger)
	if err != nil {
		return nil, err
	}

	r.Register(core.ActionMove, decodeMove, opts...)
	r.Register(core.ActionFire, decodeFire, opts...)
	r.Register(core.ActionCapture, decodeCapture, opts...)
	r.Register(core.ActionBuild, decodeBuild, opts...)
	r.Register(core.ActionEnd, decodeEnd, opts...)
	r.Register(core.ActionPower, decodePower, opts...)
	r.Register(core.ActionLoad, decodeLoad, opts...)
	r.Register(core.ActionUnload, decodeUnload, opts...)
	r.Register(core.ActionSupply, decodeSupply, opts...)
	r.Register(core.ActionRepair, decodeRepair, opts...)
	r.Register(core.ActionJoin, decodeJoin, opts...)
	r.Register(core.ActionDelete, decodeDelete, opts...)
	r.Register(core.ActionHide, decodeHide, opts...)
	r.Register(core.ActionUnhide, decodeUnhide, opts...)
	r.Register(core.ActionResign, decodeResign, opts...)
	r.Register(core.ActionTag, decodeTag, opts...)

	return r, nil
}

// Register adds a handler for the given action kind, replacing any existing one.
func (r *Registry) Register(kind string, h HandlerFunc, opts ...Option) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	handler := h

	if cfg.logged {
		handler = r.withLogging(kind, handler)
	}

	r.handlers[kind] = handler
}

// HasHandler returns true if a handler is registered for the kind.
func (r *Registry) HasHandler(kind string) bool {
	_, ok := r.handlers[kind]
	return ok
}

// Decode routes payload to the handler for its "action" kind.
func (r *Registry) Decode(payload []byte, replay *core.ReplayData, turn *core.TurnData) (core.Action, error) {
	j := gjson.ParseBytes(payload)

	kind := j.Get("action")
	if kind.Type != gjson.String {
		r.rejected.Add(context.Background(), 1, metric.WithAttributes(attribute.String("action", "")))
		return nil, fmt.Errorf("%w: missing action name", ErrMalformedAction)
	}

	attrs := metric.WithAttributes(attribute.String("action", kind.Str))

	h, ok := r.handlers[kind.Str]
	if !ok {
		r.rejected.Add(context.Background(), 1, attrs)
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, kind.Str)
	}

	action, err := h(Payload{Kind: kind.Str, JSON: j, Replay: replay, Turn: turn})
	if err != nil {
		r.rejected.Add(context.Background(), 1, attrs)
		return nil, fmt.Errorf("decoding %s action: %w", kind.Str, err)
	}

	r.decoded.Add(context.Background(), 1, attrs)
	return action, nil
}

func (r *Registry) withLogging(kind string, h HandlerFunc) HandlerFunc {
	return func(p Payload) (core.Action, error) {
		start := time.Now()

		action, err := h(p)

		if err != nil {
			r.logger.Error("action failed", "action", kind, "day", p.Turn.Day, "duration", time.Since(start), "error", err)
		} else {
			r.logger.Debug("action decoded", "action", kind, "day", p.Turn.Day, "duration", time.Since(start))
		}

		return action, err
	}
}
