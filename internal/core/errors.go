package core

import "errors"

// Sentinel errors returned by Router operations. Callers match them with
// errors.Is; the returned errors wrap them with the offending path, event or
// segment.
var (
	ErrNotStarted         = errors.New("router not started")
	ErrNoMatchingRoute    = errors.New("no matching route")
	ErrUnhandledEvent     = errors.New("unhandled event")
	ErrUnknownState       = errors.New("unknown state")
	ErrMissingContext     = errors.New("missing context")
	ErrNoTransition       = errors.New("handler did not transition")
	ErrAmbiguousHandler   = errors.New("handler transitioned more than once")
	ErrRedirectLoop       = errors.New("redirect loop")
	ErrHookFailed         = errors.New("hook failed")
	ErrDeferredOverflow   = errors.New("too many deferred operations")
	ErrBusy               = errors.New("transition in progress")
	ErrRouterMismatch     = errors.New("snapshot belongs to another router")
	ErrInvalidConfig      = errors.New("invalid router config")
	ErrHandlerUnavailable = errors.New("handler unavailable")
)
