package rpc

import (
	"encoding/json"
	"errors"

	"github.com/deadwatch/horde/internal/game"
	"github.com/deadwatch/horde/internal/snapshot"
)

// Code classifies a failed request for the client.
type Code string

const (
	// CodeValidation means the request itself was bad and retrying it
	// unchanged will fail again.
	CodeValidation Code = "validation"

	// CodeNotFound covers missing records, including records that exist but
	// belong to someone else.
	CodeNotFound Code = "not_found"

	// CodeSerialization means a game state document failed the strict codec.
	CodeSerialization Code = "serialization"

	// CodeUnavailable means a backend was not ready; the same request may
	// succeed later.
	CodeUnavailable Code = "unavailable"

	// CodeInternal is everything else.
	CodeInternal Code = "internal"
)

// Response is the envelope every reply travels in.
type Response struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *ResponseError  `json:"error,omitempty"`
}

// ResponseError carries the failure classification and a human-readable
// message.
type ResponseError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func ok(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return fail(err)
	}
	return okRaw(data)
}

// okRaw wraps an already-encoded payload. Snapshot documents go through here
// so the envelope never re-encodes the canonical bytes.
func okRaw(data []byte) []byte {
	out, err := json.Marshal(Response{OK: true, Data: data})
	if err != nil {
		return fail(err)
	}
	return out
}

func okEmpty() []byte {
	out, _ := json.Marshal(Response{OK: true})
	return out
}

func fail(err error) []byte {
	out, merr := json.Marshal(Response{
		OK:    false,
		Error: &ResponseError{Code: codeFor(err), Message: err.Error()},
	})
	if merr != nil {
		return []byte(`{"ok":false,"error":{"code":"internal","message":"encoding response"}}`)
	}
	return out
}

func codeFor(err error) Code {
	var fieldErr *snapshot.FieldError
	var parseErr *snapshot.ParseError

	switch {
	case game.IsRejection(err):
		return CodeValidation
	case errors.As(err, &fieldErr), errors.As(err, &parseErr):
		return CodeSerialization
	case errors.Is(err, game.ErrPlayerNotFound),
		errors.Is(err, game.ErrSaveNotFound),
		errors.Is(err, game.ErrEntryNotFound),
		errors.Is(err, game.ErrSessionNotFound):
		return CodeNotFound
	case game.IsTransient(err):
		return CodeUnavailable
	default:
		return CodeInternal
	}
}
