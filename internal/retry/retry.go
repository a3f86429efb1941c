// Package retry wraps remote calls with bounded exponential backoff.
package retry

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

const (
	defaultTries   = 5
	initialBackoff = 800 * time.Millisecond
	maxBackoff     = 8 * time.Second
)

// Options configures a retried call.
type Options struct {
	Tries int    // total attempts, defaults to 5
	Label string // identifies the call in log output
}

// statusCoder is implemented by remote errors carrying an HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// retriable reports whether a failure is worth another attempt: server-side
// errors and rate limits only. Errors without an HTTP status (network
// failures included) are terminal.
func retriable(err error) bool {
	var sc statusCoder
	if !errors.As(err, &sc) {
		return false
	}
	status := sc.HTTPStatus()
	return status >= http.StatusInternalServerError || status == http.StatusTooManyRequests
}

// sleep is a variable so tests can run without real backoff delays.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do invokes fn until it succeeds, fails terminally, or the attempt budget
// is exhausted. The final error is returned unchanged. Backoff doubles from
// 800ms up to a cap of 8s, without jitter.
func Do(ctx context.Context, opts Options, fn func(context.Context) error) error {
	tries := opts.Tries
	if tries <= 0 {
		tries = defaultTries
	}
	label := opts.Label
	if label == "" {
		label = "request"
	}

	wait := initialBackoff
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !retriable(err) || attempt >= tries {
			log.Printf("[retry] %s failed (attempt %d/%d): %v", label, attempt, tries, err)
			return err
		}
		log.Printf("[retry] %s retrying after %s (attempt %d/%d): %v", label, wait, attempt, tries, err)
		if serr := sleep(ctx, wait); serr != nil {
			return err
		}
		wait *= 2
		if wait > maxBackoff {
			wait = maxBackoff
		}
	}
}

// DoValue is Do for calls that produce a result.
func DoValue[T any](ctx context.Context, opts Options, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, opts, func(ctx context.Context) error {
		var ferr error
		out, ferr = fn(ctx)
		return ferr
	})
	return out, err
}
