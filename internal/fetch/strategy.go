// Package fetch implements the multi-strategy document retrieval chain
// with bot-detection handling and rate-limited backoff.
package fetch

import (
	"context"
	"fmt"
)

// OutcomeKind tags the result of one strategy attempt.
type OutcomeKind string

const (
	OutcomeDocument       OutcomeKind = "document"
	OutcomeBotBlocked     OutcomeKind = "bot_blocked"
	OutcomeNetworkFailure OutcomeKind = "network_failure"
	OutcomeNotFound       OutcomeKind = "not_found"
	OutcomeCancelled      OutcomeKind = "cancelled"
)

// Outcome is the tagged result of a single fetch attempt. Exactly one of
// Content, Signal, or Err is meaningful depending on Kind.
type Outcome struct {
	Kind     OutcomeKind
	Strategy string
	URL      string
	Content  string    // Kind == OutcomeDocument
	Signal   BlockType // Kind == OutcomeBotBlocked
	Err      error     // Kind == OutcomeNetworkFailure or OutcomeCancelled
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeDocument:
		return fmt.Sprintf("%s: document (%d bytes)", o.Strategy, len(o.Content))
	case OutcomeBotBlocked:
		return fmt.Sprintf("%s: blocked (%s)", o.Strategy, o.Signal)
	case OutcomeNetworkFailure:
		return fmt.Sprintf("%s: network failure: %v", o.Strategy, o.Err)
	case OutcomeNotFound:
		return fmt.Sprintf("%s: not found", o.Strategy)
	case OutcomeCancelled:
		return fmt.Sprintf("%s: cancelled: %v", o.Strategy, o.Err)
	}
	return string(o.Kind)
}

// Strategy is one specific method of retrieving a listing's document.
type Strategy interface {
	Fetch(ctx context.Context, targetURL string) Outcome
	Name() string
}

func document(strategy, url, content string) Outcome {
	return Outcome{Kind: OutcomeDocument, Strategy: strategy, URL: url, Content: content}
}

func blocked(strategy, url string, signal BlockType) Outcome {
	return Outcome{Kind: OutcomeBotBlocked, Strategy: strategy, URL: url, Signal: signal}
}

func netFailure(strategy, url string, err error) Outcome {
	return Outcome{Kind: OutcomeNetworkFailure, Strategy: strategy, URL: url, Err: err}
}

func notFound(strategy, url string) Outcome {
	return Outcome{Kind: OutcomeNotFound, Strategy: strategy, URL: url}
}

func cancelled(strategy, url string, err error) Outcome {
	return Outcome{Kind: OutcomeCancelled, Strategy: strategy, URL: url, Err: err}
}
