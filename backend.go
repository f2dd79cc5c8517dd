// backend.go
package main

import (
	"context"
	"errors"
	"log"
	"time"
)

// Role selects which generation backend a request should prefer.
type Role int

const (
	// RolePrimary is the high-capability, rate-limited service reserved for
	// flagship content (the lead editorial).
	RolePrimary Role = iota
	// RoleSecondary is the low-latency service used for filler sections.
	RoleSecondary
)

func (r Role) String() string {
	if r == RolePrimary {
		return "primary"
	}
	return "secondary"
}

// FailureReason classifies why a generation attempt came back empty-handed.
type FailureReason string

const (
	FailureNone        FailureReason = ""
	FailureUnavailable FailureReason = "unavailable"
	// FailureCensored means the backend rejected the request through its
	// safety filter rather than erroring. Retrying the same instruction is
	// pointless; the caller has to revise it.
	FailureCensored FailureReason = "censored"
)

// errCensored is returned by backends when the service reports a
// content-safety block instead of a normal error.
var errCensored = errors.New("request blocked by content safety filter")

// placeholderText stands in for any section whose generation failed, so the
// published issue never carries an empty or missing value.
const placeholderText = "Content unavailable. The writer is on strike."

// GenerationRequest is one commission sent to the router. Immutable; built
// per section and discarded once the result is in.
type GenerationRequest struct {
	Role        Role
	Instruction string // system/persona instruction
	Context     string // background material, may be empty
}

// GenerationResult is what the router hands back. RawText is never empty:
// on total failure it carries placeholderText.
type GenerationResult struct {
	RawText   string
	Succeeded bool
	Backend   Role
	Reason    FailureReason
	Detail    string
}

// Backend is a single text-generation service endpoint.
type Backend interface {
	Name() string
	// Call sends a system instruction plus user content and returns the
	// generated text. A safety rejection is reported as errCensored.
	Call(ctx context.Context, instruction, content string) (string, error)
}

// Router selects a backend per request and absorbs its failures. It is the
// one component that must never let an unreachable service crash or stall
// the run: every call is bounded by a timeout, a failed primary is retried
// once against the secondary, and exhaustion degrades to placeholder text
// instead of an error.
type Router struct {
	primary   Backend // nil when no credential is configured
	secondary Backend
	timeout   time.Duration
}

// NewRouter wires the two backend roles. primary may be nil; requests
// hinting at it then go straight to the secondary.
func NewRouter(primary, secondary Backend, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Router{primary: primary, secondary: secondary, timeout: timeout}
}

// Generate resolves one request. It never returns an error: the result
// carries success, the backend that served it, and a failure reason plus
// placeholder text when every eligible backend is down.
func (r *Router) Generate(ctx context.Context, req GenerationRequest) GenerationResult {
	attempts := r.plan(req.Role)

	var lastErr error
	for _, att := range attempts {
		text, err := r.call(ctx, att.backend, req)
		if err == nil {
			return GenerationResult{RawText: text, Succeeded: true, Backend: att.role}
		}
		lastErr = err
		log.Printf("✗ %s backend failed: %v", att.backend.Name(), err)
	}

	reason := FailureUnavailable
	if errors.Is(lastErr, errCensored) {
		reason = FailureCensored
	}
	detail := ""
	if lastErr != nil {
		detail = lastErr.Error()
	}
	return GenerationResult{
		RawText: placeholderText,
		Backend: RoleSecondary,
		Reason:  reason,
		Detail:  detail,
	}
}

type attempt struct {
	backend Backend
	role    Role
}

// plan lists the backends to try, in order. A primary hint falls back to the
// secondary once; a secondary hint never escalates to the primary.
func (r *Router) plan(hint Role) []attempt {
	var attempts []attempt
	if hint == RolePrimary && r.primary != nil {
		attempts = append(attempts, attempt{r.primary, RolePrimary})
	}
	if r.secondary != nil {
		attempts = append(attempts, attempt{r.secondary, RoleSecondary})
	}
	return attempts
}

func (r *Router) call(ctx context.Context, b Backend, req GenerationRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := b.Call(callCtx, req.Instruction, req.Context)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", errors.New("empty response")
	}
	return text, nil
}
