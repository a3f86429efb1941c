package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type remoteErr struct {
	status int
}

func (e *remoteErr) Error() string {
	return fmt.Sprintf("remote status %d", e.status)
}

func (e *remoteErr) HTTPStatus() int {
	return e.status
}

// captureSleeps replaces the backoff sleep with a recorder for the duration
// of the test.
func captureSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	t.Cleanup(func() { sleep = orig })
	return &waits
}

func TestDoReturnsOnSuccess(t *testing.T) {
	captureSleeps(t)
	calls := 0
	err := Do(context.Background(), Options{Label: "ok"}, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoTerminalErrorNotRetried(t *testing.T) {
	captureSleeps(t)
	terminal := &remoteErr{status: 400}
	calls := 0
	err := Do(context.Background(), Options{Label: "terminal"}, func(ctx context.Context) error {
		calls++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("expected terminal error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("terminal error consumed %d attempts, want 1", calls)
	}
}

func TestDoNetworkErrorNotRetried(t *testing.T) {
	captureSleeps(t)
	calls := 0
	err := Do(context.Background(), Options{}, func(ctx context.Context) error {
		calls++
		return errors.New("connection refused")
	})
	if err == nil || calls != 1 {
		t.Fatalf("expected single failing attempt, got calls=%d err=%v", calls, err)
	}
}

func TestDoRetriesServerErrorsUntilSuccess(t *testing.T) {
	waits := captureSleeps(t)
	calls := 0
	err := Do(context.Background(), Options{Label: "flaky"}, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &remoteErr{status: 503}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	want := []time.Duration{800 * time.Millisecond, 1600 * time.Millisecond}
	if len(*waits) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *waits)
	}
	for i, w := range want {
		if (*waits)[i] != w {
			t.Errorf("sleep %d = %s, want %s", i, (*waits)[i], w)
		}
	}
}

func TestDoRetriesRateLimit(t *testing.T) {
	captureSleeps(t)
	calls := 0
	err := Do(context.Background(), Options{}, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return &remoteErr{status: 429}
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("expected retry on 429, got calls=%d err=%v", calls, err)
	}
}

func TestDoExhaustsBudgetAndReturnsLastError(t *testing.T) {
	captureSleeps(t)
	last := &remoteErr{status: 500}
	calls := 0
	err := Do(context.Background(), Options{Tries: 5}, func(ctx context.Context) error {
		calls++
		return last
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected last error unchanged, got %v", err)
	}
	if calls != 5 {
		t.Fatalf("expected 5 attempts, got %d", calls)
	}
}

func TestDoBackoffDoublesAndCaps(t *testing.T) {
	waits := captureSleeps(t)
	err := Do(context.Background(), Options{Tries: 7}, func(ctx context.Context) error {
		return &remoteErr{status: 502}
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	want := []time.Duration{
		800 * time.Millisecond,
		1600 * time.Millisecond,
		3200 * time.Millisecond,
		6400 * time.Millisecond,
		8 * time.Second,
		8 * time.Second,
	}
	if len(*waits) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), *waits)
	}
	for i, w := range want {
		if (*waits)[i] != w {
			t.Errorf("sleep %d = %s, want %s", i, (*waits)[i], w)
		}
	}
}

func TestDoValueReturnsResult(t *testing.T) {
	captureSleeps(t)
	calls := 0
	got, err := DoValue(context.Background(), Options{}, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &remoteErr{status: 500}
		}
		return "result", nil
	})
	if err != nil || got != "result" {
		t.Fatalf("got (%q, %v), want (\"result\", nil)", got, err)
	}
}
