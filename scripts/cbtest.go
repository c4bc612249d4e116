// cbtest is a manual test tool that drives a circuit breaker through its
// full lifecycle: tripping on failures, rejecting while open, probing after
// the recovery window, closing on successful probes, and tripping again on
// a timed-out call.
//
// Usage:
//
//	go run scripts/cbtest.go -threshold 2 -call-timeout 100ms -recovery 500ms -half-open 2
package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
	"github.com/angeloszaimis/circuit-guard/internal/unreliable"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

func main() {
	var (
		threshold   = flag.Int("threshold", 2, "Consecutive failures that must be exceeded before opening")
		callTimeout = flag.Duration("call-timeout", 100*time.Millisecond, "Per-call deadline")
		recovery    = flag.Duration("recovery", 500*time.Millisecond, "Time the breaker stays open before probing")
		halfOpen    = flag.Int("half-open", 2, "Consecutive successful probes required to close")
	)
	flag.Parse()

	cb := circuitbreaker.New[string](*threshold, *callTimeout, *recovery, *halfOpen)

	failing := func() (string, error) {
		return "", errors.New("downstream unavailable")
	}
	healthy := func() (string, error) {
		return "Success!", nil
	}

	fmt.Println(colorCyan + "╔════════════════════════════════════════════════════════════════╗" + colorReset)
	fmt.Println(colorCyan + "║                  CIRCUIT BREAKER EXERCISE                      ║" + colorReset)
	fmt.Println(colorCyan + "╚════════════════════════════════════════════════════════════════╝" + colorReset)
	fmt.Println()

	// PHASE 1: Trip the breaker with consecutive failures.
	fmt.Println(colorBlue + "━━━ PHASE 1: Trip on consecutive failures ━━━" + colorReset)
	for i := 0; cb.State() != circuitbreaker.StateOpen; i++ {
		report(cb, i+1, func() { cb.Call(failing) })
	}
	fmt.Println(colorGreen + "  ✓ Breaker opened after the threshold was exceeded" + colorReset)
	fmt.Println()

	// PHASE 2: Calls are rejected without touching the operation.
	fmt.Println(colorBlue + "━━━ PHASE 2: Rejection while open ━━━" + colorReset)
	executed := false
	_, _, err := cb.Call(func() (string, error) {
		executed = true
		return "should not run", nil
	})
	if executed {
		fmt.Println(colorRed + "  ✗ Operation executed while the breaker was open!" + colorReset)
	} else {
		fmt.Printf("  Rejected with: %v\n", err)
		fmt.Println(colorGreen + "  ✓ Operation was never executed" + colorReset)
	}
	fmt.Println()

	// PHASE 3: Wait out the recovery window, probe, and close.
	fmt.Println(colorBlue + "━━━ PHASE 3: Recovery ━━━" + colorReset)
	fmt.Printf("  Waiting %v for the recovery window...\n", *recovery)
	time.Sleep(*recovery + 50*time.Millisecond)

	_, ok, err := cb.Call(healthy)
	fmt.Printf("  Transition call: ok=%v err=%v state=%s\n", ok, err, cb.State())

	for cb.State() == circuitbreaker.StateHalfOpen {
		res, _, _ := cb.Call(healthy)
		fmt.Printf("  Probe succeeded: %q state=%s\n", res, cb.State())
	}
	if cb.State() == circuitbreaker.StateClosed {
		fmt.Println(colorGreen + "  ✓ Breaker closed after successful probes" + colorReset)
	}
	fmt.Println()

	// PHASE 4: A slow call trips the breaker straight back open.
	fmt.Println(colorBlue + "━━━ PHASE 4: Timeout ━━━" + colorReset)
	slowBy := *callTimeout * 3
	fmt.Printf("  Calling an operation that takes %v against a %v deadline...\n", slowBy, *callTimeout)

	start := time.Now()
	_, _, err = cb.Call(unreliable.Slow(slowBy))
	fmt.Printf("  Returned after %v with: %v\n", time.Since(start).Round(time.Millisecond), err)

	if cb.State() == circuitbreaker.StateOpen && cb.FailureCount() == 1 {
		fmt.Println(colorGreen + "  ✓ Timeout reopened the breaker with failure count 1" + colorReset)
	} else {
		fmt.Printf(colorYellow+"  ⚠ Unexpected state %s (failure count %d)\n"+colorReset, cb.State(), cb.FailureCount())
	}
	fmt.Println()

	fmt.Println(colorCyan + "╔════════════════════════════════════════════════════════════════╗" + colorReset)
	fmt.Println(colorCyan + "║                      EXERCISE COMPLETE                         ║" + colorReset)
	fmt.Println(colorCyan + "╚════════════════════════════════════════════════════════════════╝" + colorReset)
}

func report(cb *circuitbreaker.CircuitBreaker[string], n int, call func()) {
	before := cb.State()
	call()
	after := cb.State()

	line := fmt.Sprintf("  Call %d: %s → %s (failure count %d)", n, before, after, cb.FailureCount())
	if before != after {
		fmt.Println(colorYellow + line + colorReset)
	} else {
		fmt.Println(line)
	}
}
