// Package unreliable provides the sample flaky operations the demo harness
// guards with a circuit breaker. It stands in for a downstream dependency
// whose behavior the breaker cannot control or inspect.
package unreliable

import (
	"errors"
	"time"
)

// ErrServiceFailed is the failure the simulated service reports.
var ErrServiceFailed = errors.New("service failed")

// Service simulates a flaky downstream call: it fails whenever the current
// wall-clock second is even, and succeeds otherwise.
func Service() (string, error) {
	if time.Now().Unix()%2 == 0 {
		return "", ErrServiceFailed
	}

	return "Success!", nil
}

// Slow returns an operation that takes at least d to answer and then
// succeeds. Useful for exercising the breaker's timeout path: the result
// arrives even though the breaker may have stopped waiting for it.
func Slow(d time.Duration) func() (string, error) {
	return func() (string, error) {
		time.Sleep(d)
		return "Success!", nil
	}
}
