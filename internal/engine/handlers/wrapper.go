package handlers

import (
	"battlescape-server/pkg/api"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoPayload - действию над актором не передали данных.
	ErrNoPayload = errors.New("payload required")
	// ErrNoPlayer - команда без занятого слота игрока.
	ErrNoPlayer = errors.New("command without player")
)

// PayloadHandler - действие над разобранным payload'ом (MOVE, TURN, SHOOT, STATE, USE).
type PayloadHandler[T any] func(ctx Context, payload T) (Result, error)

// PlainHandler - действие без данных (ENDROUND, INIT).
type PlainHandler func(ctx Context) (Result, error)

// WithPayload превращает PayloadHandler в HandlerFunc: разбирает JSON,
// зовет Validate у payload'а и только потом трогает симуляцию.
func WithPayload[T any](handler PayloadHandler[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T
		if ctx.Player == nil {
			return Result{}, ErrNoPlayer
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			return Result{}, fmt.Errorf("%T: %w", payload, ErrNoPayload)
		}

		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("bad %T: %w", payload, err)
		}
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("invalid %T: %w", payload, err)
			}
		}
		return handler(ctx, payload)
	}
}

// WithEmptyPayload - для ENDROUND и INIT; присланные данные игнорируются.
func WithEmptyPayload(handler PlainHandler) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		if ctx.Player == nil {
			return Result{}, ErrNoPlayer
		}
		return handler(ctx)
	}
}
