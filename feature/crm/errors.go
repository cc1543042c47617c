package crm

import (
	"errors"
	"fmt"
)

// Kind classifies a remote failure so callers can branch on it without
// inspecting status codes or error strings.
type Kind string

const (
	// KindTransient marks a retryable failure: rate limit, server-side 5xx,
	// or a connection-class transport error. Surfaced only after the retry
	// budget is exhausted.
	KindTransient Kind = "transient"
	// KindMalformed marks a remote contract violation: a successful reply
	// whose lead is missing required fields. Never retried.
	KindMalformed Kind = "malformed"
	// KindConflict marks an "identity already exists" response.
	KindConflict Kind = "conflict"
	// KindNotFound marks the unified negative lookup result: an explicit
	// found=false flag or a not-found status code.
	KindNotFound Kind = "not_found"
	// KindInvalid marks a malformed request rejected by the remote (400
	// class). Never retried.
	KindInvalid Kind = "invalid"
)

// Error is the typed failure returned by the client. Attempts is populated
// when the retry budget was exhausted.
type Error struct {
	Kind     Kind
	Status   int
	Attempts int
	Message  string
	cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Attempts > 1 {
		if e.cause != nil {
			return fmt.Sprintf("crm: %s after %d attempts: %v", msg, e.Attempts, e.cause)
		}
		return fmt.Sprintf("crm: %s after %d attempts", msg, e.Attempts)
	}
	if e.cause != nil {
		return fmt.Sprintf("crm: %s: %v", msg, e.cause)
	}
	return "crm: " + msg
}

// Unwrap exposes the last underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

func kindOf(err error) Kind {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Kind
	}
	return ""
}

// IsNotFound reports whether err is the unified not-found outcome.
func IsNotFound(err error) bool { return kindOf(err) == KindNotFound }

// IsConflict reports whether err is an "already exists" conflict.
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

// IsTransient reports whether err is a retryable-class failure (after
// exhaustion, the aggregate error keeps the transient kind).
func IsTransient(err error) bool { return kindOf(err) == KindTransient }

// IsMalformed reports whether err is a remote contract violation.
func IsMalformed(err error) bool { return kindOf(err) == KindMalformed }
