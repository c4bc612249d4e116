// Package circuitbreaker implements the circuit breaker pattern around a
// single unreliable operation.
//
// A circuit breaker prevents a caller from repeatedly invoking an operation
// that is likely to fail or hang. It has three states:
//
//   - CLOSED: Normal operation, calls pass through
//   - OPEN: Operation failing, calls rejected without execution
//   - HALF-OPEN: Testing if the operation recovered
//
// Every attempted call runs on its own goroutine and is bounded by a
// per-call timeout; a call that outlives the deadline counts as a failure
// and trips the breaker immediately.
//
// Usage:
//
//	cb := circuitbreaker.New[string](3, time.Second, 5*time.Second, 2)
//	res, ok, err := cb.Call(fetchRemote)
//	switch {
//	case err == nil && ok:
//		// use res
//	case err == nil:
//		// rejected while transitioning to half-open
//	default:
//		// *OperationError or ErrTimeout
//	}
package circuitbreaker
