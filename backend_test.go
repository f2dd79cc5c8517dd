// backend_test.go
package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

// stubBackend is a scriptable Backend for router tests.
type stubBackend struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) Call(ctx context.Context, instruction, content string) (string, error) {
	s.calls++
	return s.text, s.err
}

// blockingBackend never answers; it waits out the call context.
type blockingBackend struct{}

func (b *blockingBackend) Name() string { return "blocking" }

func (b *blockingBackend) Call(ctx context.Context, instruction, content string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestRouterPrimarySucceeds(t *testing.T) {
	primary := &stubBackend{name: "primary", text: "lead story"}
	secondary := &stubBackend{name: "secondary", text: "filler"}
	r := NewRouter(primary, secondary, time.Second)

	res := r.Generate(context.Background(), GenerationRequest{Role: RolePrimary, Instruction: "write"})

	if !res.Succeeded {
		t.Fatal("expected success")
	}
	if res.Backend != RolePrimary {
		t.Errorf("Backend = %v, want primary", res.Backend)
	}
	if res.RawText != "lead story" {
		t.Errorf("RawText = %q", res.RawText)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.calls)
	}
}

func TestRouterFallsBackToSecondary(t *testing.T) {
	primary := &stubBackend{name: "primary", err: errors.New("connection refused")}
	secondary := &stubBackend{name: "secondary", text: "filler"}
	r := NewRouter(primary, secondary, time.Second)

	res := r.Generate(context.Background(), GenerationRequest{Role: RolePrimary})

	if !res.Succeeded {
		t.Fatal("expected success via fallback")
	}
	if res.Backend != RoleSecondary {
		t.Errorf("Backend = %v, want secondary", res.Backend)
	}
	if primary.calls != 1 {
		t.Errorf("primary called %d times, want 1", primary.calls)
	}
}

func TestRouterPrimaryTimeoutFallsBack(t *testing.T) {
	secondary := &stubBackend{name: "secondary", text: "filler"}
	r := NewRouter(&blockingBackend{}, secondary, 10*time.Millisecond)

	res := r.Generate(context.Background(), GenerationRequest{Role: RolePrimary})

	if !res.Succeeded || res.Backend != RoleSecondary {
		t.Errorf("result = %+v, want secondary success", res)
	}
}

func TestRouterExhaustionYieldsPlaceholder(t *testing.T) {
	primary := &stubBackend{name: "primary", err: errors.New("down")}
	secondary := &stubBackend{name: "secondary", err: errors.New("also down")}
	r := NewRouter(primary, secondary, time.Second)

	res := r.Generate(context.Background(), GenerationRequest{Role: RolePrimary})

	if res.Succeeded {
		t.Fatal("expected failure")
	}
	if res.RawText != placeholderText {
		t.Errorf("RawText = %q, want placeholder", res.RawText)
	}
	if res.Reason != FailureUnavailable {
		t.Errorf("Reason = %q, want unavailable", res.Reason)
	}
	if res.Detail == "" {
		t.Error("Detail should carry the last error")
	}
}

func TestRouterReportsCensorship(t *testing.T) {
	primary := &stubBackend{name: "primary", err: errors.New("down")}
	secondary := &stubBackend{name: "secondary", err: errCensored}
	r := NewRouter(primary, secondary, time.Second)

	res := r.Generate(context.Background(), GenerationRequest{Role: RolePrimary})

	if res.Succeeded {
		t.Fatal("expected failure")
	}
	if res.Reason != FailureCensored {
		t.Errorf("Reason = %q, want censored", res.Reason)
	}
}

func TestRouterSecondaryHintSkipsPrimary(t *testing.T) {
	primary := &stubBackend{name: "primary", text: "should not be used"}
	secondary := &stubBackend{name: "secondary", text: "filler"}
	r := NewRouter(primary, secondary, time.Second)

	res := r.Generate(context.Background(), GenerationRequest{Role: RoleSecondary})

	if !res.Succeeded || res.Backend != RoleSecondary {
		t.Errorf("result = %+v, want secondary success", res)
	}
	if primary.calls != 0 {
		t.Errorf("primary called %d times, want 0", primary.calls)
	}
}

func TestRouterWithoutPrimary(t *testing.T) {
	secondary := &stubBackend{name: "secondary", text: "filler"}
	r := NewRouter(nil, secondary, time.Second)

	res := r.Generate(context.Background(), GenerationRequest{Role: RolePrimary})

	if !res.Succeeded || res.Backend != RoleSecondary {
		t.Errorf("result = %+v, want secondary success", res)
	}
}

func TestRouterEmptyResponseIsFailure(t *testing.T) {
	primary := &stubBackend{name: "primary", text: ""}
	secondary := &stubBackend{name: "secondary", text: "filler"}
	r := NewRouter(primary, secondary, time.Second)

	res := r.Generate(context.Background(), GenerationRequest{Role: RolePrimary})

	if !res.Succeeded || res.Backend != RoleSecondary {
		t.Errorf("result = %+v, want secondary after empty primary response", res)
	}
}
