package eureka

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// -----------------------------------------------------------------------------
// Adapter Functions - wrap functions to create Attempt processors
// -----------------------------------------------------------------------------

// Do creates a processor from a custom function that can fail.
// This is the easiest way to add custom logic to a refinement cycle.
//
// Example:
//
//	gate := eureka.Do("require-code", func(ctx context.Context, a *eureka.Attempt) (*eureka.Attempt, error) {
//	    if !strings.Contains(a.Proposal.Solution, "```") {
//	        return a, fmt.Errorf("proposal carries no code block")
//	    }
//	    return a, nil
//	})
func Do(name string, fn func(context.Context, *Attempt) (*Attempt, error)) pipz.Processor[*Attempt] {
	return pipz.Apply(pipz.Name(name), fn)
}

// Transform creates a processor from a pure transformation function.
// Use this when your operation cannot fail.
func Transform(name string, fn func(context.Context, *Attempt) *Attempt) pipz.Processor[*Attempt] {
	return pipz.Transform(pipz.Name(name), fn)
}

// Effect creates a processor that performs a side effect without modifying
// the attempt. Use this for logging, metrics, or other observation.
//
// Example:
//
//	progress := eureka.Effect("log-iteration", func(ctx context.Context, a *eureka.Attempt) error {
//	    log.Printf("iteration %d: success=%t", a.Proposal.Iteration, a.Result.Success)
//	    return nil
//	})
func Effect(name string, fn func(context.Context, *Attempt) error) pipz.Processor[*Attempt] {
	return pipz.Effect(pipz.Name(name), fn)
}

// Enrich creates a processor that optionally enhances an attempt.
// Unlike Do, errors are logged but don't stop the cycle.
func Enrich(name string, fn func(context.Context, *Attempt) (*Attempt, error)) pipz.Processor[*Attempt] {
	return pipz.Enrich(pipz.Name(name), fn)
}

// -----------------------------------------------------------------------------
// Sequential Connectors - process attempts in order
// -----------------------------------------------------------------------------

// Sequence creates a sequential pipeline of attempt processors.
// Each processor receives the output of the previous one. The loop itself
// runs its propose-execute-analyze stages through one of these.
func Sequence(name string, processors ...pipz.Chainable[*Attempt]) *pipz.Sequence[*Attempt] {
	return pipz.NewSequence(pipz.Name(name), processors...)
}

// -----------------------------------------------------------------------------
// Control Flow Connectors - route attempts based on conditions
// -----------------------------------------------------------------------------

// Filter creates a conditional processor that either processes or passes
// through. When the predicate returns true, the processor is executed.
//
// Example:
//
//	onlyFailed := eureka.Filter("failed-only",
//	    func(ctx context.Context, a *eureka.Attempt) bool { return !a.Result.Success },
//	    diagnosticsProcessor,
//	)
func Filter(name string, predicate func(context.Context, *Attempt) bool, processor pipz.Chainable[*Attempt]) *pipz.Filter[*Attempt] {
	return pipz.NewFilter(pipz.Name(name), predicate, processor)
}

// Switch creates a router that directs attempts to different processors.
// The condition function returns a route key that selects the processor.
func Switch[K comparable](name string, condition func(context.Context, *Attempt) K) *pipz.Switch[*Attempt, K] {
	return pipz.NewSwitch(pipz.Name(name), condition)
}

// -----------------------------------------------------------------------------
// Error Handling Connectors - caller-supplied failure policy
//
// The core performs no retries of its own: a generator failure surfaces
// exactly once. Wrap the loop's stages (or your Executor) with these when
// the driving caller wants a retry or timeout policy.
// -----------------------------------------------------------------------------

// Fallback creates a processor that tries alternatives on failure.
// Each processor is tried in order until one succeeds.
func Fallback(name string, processors ...pipz.Chainable[*Attempt]) *pipz.Fallback[*Attempt] {
	return pipz.NewFallback(pipz.Name(name), processors...)
}

// Retry creates a processor that retries on failure up to maxAttempts
// times. Immediate retry without delay - for backoff, use Backoff instead.
func Retry(name string, processor pipz.Chainable[*Attempt], maxAttempts int) *pipz.Retry[*Attempt] {
	return pipz.NewRetry(pipz.Name(name), processor, maxAttempts)
}

// Backoff creates a processor that retries with exponential backoff.
func Backoff(name string, processor pipz.Chainable[*Attempt], maxAttempts int, baseDelay time.Duration) *pipz.Backoff[*Attempt] {
	return pipz.NewBackoff(pipz.Name(name), processor, maxAttempts, baseDelay)
}

// Timeout creates a processor that enforces a time limit on execution.
// The core relies on the generator's own timeout behavior; use this when
// the caller wants a harder bound.
func Timeout(name string, processor pipz.Chainable[*Attempt], duration time.Duration) *pipz.Timeout[*Attempt] {
	return pipz.NewTimeout(pipz.Name(name), processor, duration)
}

// Handle creates a processor that handles errors without stopping the
// cycle. When the primary processor fails, the error handler is invoked
// for monitoring with a pipz.Error[*Attempt] carrying full error context.
func Handle(name string, processor pipz.Chainable[*Attempt], errorHandler pipz.Chainable[*pipz.Error[*Attempt]]) *pipz.Handle[*Attempt] {
	return pipz.NewHandle(pipz.Name(name), processor, errorHandler)
}

// -----------------------------------------------------------------------------
// Resource Protection Connectors - protect the generator
// -----------------------------------------------------------------------------

// RateLimiter creates a processor that enforces rate limits, protecting a
// rate-limited generator backend.
func RateLimiter(name string, requestsPerSecond float64, burst int) *pipz.RateLimiter[*Attempt] {
	return pipz.NewRateLimiter[*Attempt](pipz.Name(name), requestsPerSecond, burst)
}

// CircuitBreaker creates a processor that prevents cascade failures.
// Opens the circuit after failureThreshold consecutive failures.
func CircuitBreaker(name string, processor pipz.Chainable[*Attempt], failureThreshold int, resetTimeout time.Duration) *pipz.CircuitBreaker[*Attempt] {
	return pipz.NewCircuitBreaker(pipz.Name(name), processor, failureThreshold, resetTimeout)
}
