package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"syscall"
)

// Kind classifies a pipeline failure so callers can tell a timeout from a
// transport failure from an empty upstream result.
type Kind string

const (
	KindInvalidRequest      Kind = "invalid_request"
	KindGenerationFailure   Kind = "generation_failure"
	KindEmptyUpstreamResult Kind = "empty_upstream_result"
	KindUpstreamTimeout     Kind = "upstream_timeout"
	KindUpstreamTransport   Kind = "upstream_transport_error"
	KindMemoryUnavailable   Kind = "memory_backend_unavailable"
	KindMalformedResponse   Kind = "malformed_upstream_response"
	KindCanceled            Kind = "canceled"
)

// Error is the classified error returned by the orchestrator and the
// generation clients.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: KindUpstreamTimeout}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// UserMessage is the text returned to API callers.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindInvalidRequest:
		return "No prompt provided."
	case KindUpstreamTimeout:
		return fmt.Sprintf("The %s service timed out. Please try again.", e.Stage.Service())
	case KindUpstreamTransport:
		return fmt.Sprintf("A network error occurred when contacting the %s service.", e.Stage.Service())
	case KindEmptyUpstreamResult:
		return fmt.Sprintf("The %s service returned no result.", e.Stage.Service())
	case KindMalformedResponse:
		return fmt.Sprintf("Failed to get a valid response from the %s service.", e.Stage.Service())
	case KindCanceled:
		return "The request was canceled."
	case KindMemoryUnavailable:
		return "Memory backend unavailable."
	default:
		return fmt.Sprintf("The %s stage failed.", e.Stage.Service())
	}
}

// NewError builds a classified error.
func NewError(kind Kind, stage Stage, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

// KindOf returns the kind of err, or KindGenerationFailure for unclassified errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindGenerationFailure
}

// IsGenerationFailure reports whether err means a stage produced no usable content.
func IsGenerationFailure(err error) bool {
	k := KindOf(err)
	return k == KindGenerationFailure || k == KindEmptyUpstreamResult
}

// Classify wraps err into an *Error for stage. Errors that are already
// classified keep their kind. Context and network errors map to timeout,
// canceled or transport; anything else becomes fallback.
func Classify(stage Stage, err error, fallback Kind) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		if pe.Stage == "" {
			pe.Stage = stage
		}
		return pe
	}
	return NewError(classifyCause(err, fallback), stage, err)
}

func classifyCause(err error, fallback Kind) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindUpstreamTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindUpstreamTimeout
	}

	var (
		urlErr *url.Error
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr), errors.As(err, &urlErr):
		return KindUpstreamTransport
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return KindUpstreamTransport
	}
	return fallback
}
