package fetch

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ecotrace/carbon-cli/internal/metrics"
	"github.com/ecotrace/carbon-cli/internal/ratelimit"
)

// chainState enumerates the fetch chain's states. Modeling the fallback
// order as an explicit machine keeps the termination conditions testable.
type chainState int

const (
	stateInit chainState = iota
	stateTrying
	stateSuccess
	stateExhausted
)

// Result is a successfully fetched document with its source strategy.
type Result struct {
	Content string
	URL     string
	Source  string
}

// Report collects the outcome of every attempt for diagnostics. It is
// returned on success and failure alike.
type Report struct {
	Attempts []Outcome
}

// Blocked reports whether any strategy observed a bot block.
func (r *Report) Blocked() bool {
	for _, o := range r.Attempts {
		if o.Kind == OutcomeBotBlocked {
			return true
		}
	}
	return false
}

func (r *Report) String() string {
	parts := make([]string, 0, len(r.Attempts))
	for _, o := range r.Attempts {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, "; ")
}

// ErrChainExhausted is returned when every strategy failed. It carries the
// per-strategy outcomes so the caller can surface what happened.
type ErrChainExhausted struct {
	Report *Report
}

func (e *ErrChainExhausted) Error() string {
	return "fetch: all strategies exhausted: " + e.Report.String()
}

// Chain tries strategies in fixed priority order until one yields a
// document. Strategies are never attempted concurrently: parallel requests
// against the same host raise the odds of tripping bot detection.
type Chain struct {
	strategies     []Strategy
	limiter        *ratelimit.HostLimiter
	retries        int
	attemptTimeout time.Duration
	overallTimeout time.Duration
}

// NewChain creates a Chain. retries bounds attempts per strategy; backoff
// between retries comes from the shared limiter.
func NewChain(limiter *ratelimit.HostLimiter, retries int, attemptTimeout, overallTimeout time.Duration, strategies ...Strategy) *Chain {
	if retries < 1 {
		retries = 1
	}
	return &Chain{
		strategies:     strategies,
		limiter:        limiter,
		retries:        retries,
		attemptTimeout: attemptTimeout,
		overallTimeout: overallTimeout,
	}
}

// MaxAttempts returns the upper bound on network calls for a single URL.
func (c *Chain) MaxAttempts() int {
	return c.retries * len(c.strategies)
}

// Fetch runs the chain for one URL. On success it returns the document and
// the attempt report; when every strategy fails it returns an
// *ErrChainExhausted wrapping the report. A cancelled context surfaces as
// an error, never as empty data.
func (c *Chain) Fetch(ctx context.Context, targetURL string) (*Result, *Report, error) {
	if c.overallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.overallTimeout)
		defer cancel()
	}

	report := &Report{}
	state := stateInit
	idx := 0
	var result *Result

	for {
		switch state {
		case stateInit:
			if len(c.strategies) == 0 {
				state = stateExhausted
				continue
			}
			state = stateTrying

		case stateTrying:
			outcome := c.tryStrategy(ctx, c.strategies[idx], targetURL, report)
			if outcome.Kind == OutcomeDocument {
				result = &Result{Content: outcome.Content, URL: outcome.URL, Source: outcome.Strategy}
				state = stateSuccess
				continue
			}
			if outcome.Kind == OutcomeCancelled {
				return nil, report, eris.Wrap(outcome.Err, "fetch: cancelled")
			}
			if idx+1 < len(c.strategies) {
				// Back off before the next strategy too: switching
				// strategies does not reset the host's view of us.
				if err := c.limiter.Sleep(ctx, 0); err != nil {
					return nil, report, eris.Wrap(err, "fetch: cancelled")
				}
				idx++
				continue
			}
			state = stateExhausted

		case stateSuccess:
			zap.L().Debug("fetch: chain succeeded",
				zap.String("url", targetURL),
				zap.String("strategy", result.Source),
				zap.Int("attempts", len(report.Attempts)),
			)
			return result, report, nil

		case stateExhausted:
			metrics.ChainExhausted()
			zap.L().Warn("fetch: chain exhausted",
				zap.String("url", targetURL),
				zap.String("report", report.String()),
			)
			return nil, report, &ErrChainExhausted{Report: report}
		}
	}
}

// tryStrategy runs one strategy with its retry budget. Only network
// failures earn a retry; a bot block makes further attempts against the
// same strategy futile and advances the chain immediately.
func (c *Chain) tryStrategy(ctx context.Context, s Strategy, targetURL string, report *Report) Outcome {
	var last Outcome
	for attempt := 0; attempt < c.retries; attempt++ {
		attemptCtx := ctx
		var cancel context.CancelFunc
		if c.attemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		}
		last = s.Fetch(attemptCtx, targetURL)
		if cancel != nil {
			cancel()
		}

		// A per-attempt deadline is retryable; a dead parent context is not.
		if last.Kind == OutcomeCancelled && ctx.Err() == nil {
			last = netFailure(last.Strategy, last.URL, last.Err)
		}

		report.Attempts = append(report.Attempts, last)
		metrics.FetchAttempt(s.Name(), string(last.Kind))

		if last.Kind != OutcomeNetworkFailure {
			return last
		}

		zap.L().Debug("fetch: strategy attempt failed",
			zap.String("strategy", s.Name()),
			zap.String("url", targetURL),
			zap.Int("attempt", attempt+1),
			zap.Error(last.Err),
		)

		if attempt+1 < c.retries {
			if err := c.limiter.Sleep(ctx, attempt); err != nil {
				return cancelled(s.Name(), targetURL, err)
			}
		}
	}
	return last
}
