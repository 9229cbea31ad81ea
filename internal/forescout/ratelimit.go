package forescout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/opabravo/forescout-tools/internal/logging"
)

const (
	// DefaultSafetyMargin is added to every server-mandated wait
	DefaultSafetyMargin = 1 * time.Second

	// maxRateLimitBody bounds how much of a 429 body is read
	maxRateLimitBody = 64 * 1024
)

var waitPattern = regexp.MustCompile(`(?i)wait\s+(\d+)\s+seconds?`)

// RateLimitDirective is the wait the appliance asked for in a 429 answer
type RateLimitDirective struct {
	Wait time.Duration
}

// SendFunc performs one HTTP exchange. It is called again, unchanged,
// after every rate-limit wait, so it must build a fresh request each time.
type SendFunc func(ctx context.Context) (*http.Response, error)

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Executor runs requests and absorbs "429 Too Many Requests" answers by
// waiting for the server-mandated duration and re-issuing the request.
// There is no retry bound: the operator interrupts the process (which
// cancels ctx) if the appliance never lets the call through.
//
// Other errors and statuses are returned to the caller untouched.
type Executor struct {
	// Margin is added to each server-mandated wait
	Margin time.Duration

	// Pacer, when set, spaces consecutive requests on the client side
	Pacer *rate.Limiter

	// Sleep is the blocking wait used between attempts
	Sleep SleepFunc
}

// NewExecutor creates an executor with the default safety margin.
// interval > 0 enables client-side pacing of one request per interval.
func NewExecutor(interval time.Duration) *Executor {
	e := &Executor{
		Margin: DefaultSafetyMargin,
		Sleep:  sleepContext,
	}
	if interval > 0 {
		e.Pacer = rate.NewLimiter(rate.Every(interval), 1)
	}
	return e
}

// Do executes send, repeating it after each rate-limit wait until the
// response is anything other than 429.
func (e *Executor) Do(ctx context.Context, send SendFunc) (*http.Response, error) {
	sleep := e.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; ; attempt++ {
		if e.Pacer != nil {
			if err := e.Pacer.Wait(ctx); err != nil {
				return nil, NewTransportError("request pacing interrupted", err)
			}
		}

		resp, err := send(ctx)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxRateLimitBody))
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, NewTransportError("failed to read rate-limit response", readErr)
		}

		directive, err := ParseRateLimit(body)
		if err != nil {
			return nil, &Error{
				Kind:       ErrTransportFailure,
				Message:    "rate limited without a usable wait duration",
				StatusCode: http.StatusTooManyRequests,
				Body:       string(bytes.TrimSpace(body)),
				Err:        err,
			}
		}

		wait := directive.Wait + e.Margin
		logging.Warn("Rate limit detected, waiting",
			zap.Duration("wait", directive.Wait),
			zap.Duration("margin", e.Margin),
			zap.Int("attempt", attempt),
		)

		if err := sleep(ctx, wait); err != nil {
			return nil, NewTransportError("rate-limit wait interrupted", err)
		}
	}
}

// ParseRateLimit extracts the wait duration from a 429 body of the form
// {"errors": ["... Wait N seconds ..."]}.
func ParseRateLimit(body []byte) (RateLimitDirective, error) {
	var payload struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return RateLimitDirective{}, fmt.Errorf("invalid rate-limit body: %w", err)
	}
	if len(payload.Errors) == 0 {
		return RateLimitDirective{}, fmt.Errorf("rate-limit body has no errors")
	}

	var text string
	if err := json.Unmarshal(payload.Errors[0], &text); err != nil {
		// Some versions wrap the message in an object; search its raw text.
		text = string(payload.Errors[0])
	}

	m := waitPattern.FindStringSubmatch(text)
	if m == nil {
		return RateLimitDirective{}, fmt.Errorf("no wait duration in %q", text)
	}

	seconds, err := strconv.Atoi(m[1])
	if err != nil {
		return RateLimitDirective{}, fmt.Errorf("invalid wait duration %q: %w", m[1], err)
	}

	return RateLimitDirective{Wait: time.Duration(seconds) * time.Second}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
