package circuitbreaker

import (
	"errors"
	"fmt"
	"time"
)

type State int

const (
	StateClosed   State = iota // Normal operation
	StateOpen                  // Rejecting calls
	StateHalfOpen              // Probing for recovery
)

// ErrTimeout is returned when a call runs past the per-call deadline, or
// when the breaker is open and the recovery window has not yet elapsed.
var ErrTimeout = errors.New("circuit breaker: timeout")

// OperationError wraps a failure produced by the guarded operation itself,
// so callers can tell it apart from a breaker-level timeout. The wrapped
// error is forwarded untouched and never inspected by the breaker.
type OperationError struct {
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("circuit breaker: operation failed: %v", e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// CircuitBreaker guards calls to an unreliable operation producing values
// of type R. It is driven by a single caller making sequential Call
// invocations; it is NOT safe for concurrent use from multiple goroutines
// without external synchronization.
type CircuitBreaker[R any] struct {
	state              State
	failureThreshold   int
	failureCount       int
	lastFailure        time.Time
	timeout            time.Duration
	recoveryTime       time.Duration
	openSuccessCount   int
	openThresholdCount int
}

type result[R any] struct {
	value R
	err   error
}

// New creates a circuit breaker in the closed state. failureThreshold is
// the number of consecutive failures that must be exceeded before the
// breaker opens, timeout bounds every single call to the operation,
// recoveryTime is how long the breaker stays open before probing, and
// openThresholdCount is the number of consecutive successful probes
// required to close again. Zero values are legal and simply make the
// breaker maximally strict or maximally lenient.
func New[R any](failureThreshold int, timeout, recoveryTime time.Duration, openThresholdCount int) *CircuitBreaker[R] {
	return &CircuitBreaker[R]{
		state:              StateClosed,
		failureThreshold:   failureThreshold,
		timeout:            timeout,
		recoveryTime:       recoveryTime,
		openThresholdCount: openThresholdCount,
	}
}

// Call executes op under the current state's policy and applies the
// resulting state transition. It returns one of four outcome shapes:
//
//   - (value, true, nil): the operation ran and succeeded
//   - (zero, false, nil): the breaker declined the call while moving from
//     open to half-open; the operation was not attempted
//   - (zero, false, *OperationError): the operation ran and failed
//   - (zero, false, ErrTimeout): the deadline elapsed with no result, or
//     the breaker is open and not yet eligible to probe
func (cb *CircuitBreaker[R]) Call(op func() (R, error)) (R, bool, error) {
	switch cb.state {
	case StateOpen:
		var zero R
		return zero, false, cb.handleOpen()
	case StateHalfOpen:
		return cb.handleHalfOpen(op)
	default:
		return cb.handleClosed(op)
	}
}

func (cb *CircuitBreaker[R]) handleOpen() error {
	if time.Since(cb.lastFailure) >= cb.recoveryTime {
		// Eligible to probe again. The call that triggers the transition
		// is itself rejected, not attempted.
		cb.state = StateHalfOpen
		cb.openSuccessCount = 0
		cb.failureCount = 0
		return nil
	}

	return ErrTimeout
}

func (cb *CircuitBreaker[R]) handleClosed(op func() (R, error)) (R, bool, error) {
	res, timedOut := cb.timedCall(op)

	switch {
	case timedOut:
		cb.tripOnTimeout()
		var zero R
		return zero, false, ErrTimeout

	case res.err != nil:
		cb.lastFailure = time.Now()
		cb.failureCount++
		if cb.failureCount > cb.failureThreshold {
			cb.state = StateOpen
		}
		var zero R
		return zero, false, &OperationError{Err: res.err}

	default:
		cb.failureCount = 0
		cb.state = StateClosed
		return res.value, true, nil
	}
}

func (cb *CircuitBreaker[R]) handleHalfOpen(op func() (R, error)) (R, bool, error) {
	res, timedOut := cb.timedCall(op)

	switch {
	case timedOut:
		cb.tripOnTimeout()
		var zero R
		return zero, false, ErrTimeout

	case res.err != nil:
		cb.lastFailure = time.Now()
		cb.failureCount = 1
		cb.state = StateOpen
		var zero R
		return zero, false, &OperationError{Err: res.err}

	default:
		cb.openSuccessCount++
		if cb.openSuccessCount >= cb.openThresholdCount {
			cb.state = StateClosed
			cb.openSuccessCount = 0
			cb.failureCount = 0
		}
		return res.value, true, nil
	}
}

// timedCall runs op on its own goroutine and waits up to the configured
// timeout for its result. The result channel is buffered so a worker that
// outlives the deadline can still finish and exit; its result is discarded.
// The breaker never cancels an in-flight worker.
func (cb *CircuitBreaker[R]) timedCall(op func() (R, error)) (result[R], bool) {
	resCh := make(chan result[R], 1)

	go func() {
		v, err := op()
		resCh <- result[R]{value: v, err: err}
	}()

	select {
	case res := <-resCh:
		return res, false
	case <-time.After(cb.timeout):
		return result[R]{}, true
	}
}

func (cb *CircuitBreaker[R]) tripOnTimeout() {
	cb.lastFailure = time.Now()
	// The counter is set to 1, not incremented: a timeout trips the
	// breaker immediately and never accumulates toward the threshold.
	cb.failureCount = 1
	cb.state = StateOpen
}

// State returns the breaker's current state.
func (cb *CircuitBreaker[R]) State() State {
	return cb.state
}

// FailureCount returns the current consecutive-failure counter.
func (cb *CircuitBreaker[R]) FailureCount() int {
	return cb.failureCount
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}
