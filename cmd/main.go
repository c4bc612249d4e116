package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/circuit-guard/config"
	"github.com/angeloszaimis/circuit-guard/internal/circuitbreaker"
	"github.com/angeloszaimis/circuit-guard/internal/unreliable"
	"github.com/angeloszaimis/circuit-guard/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.App.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cb, err := buildBreaker(cfg)
	if err != nil {
		log.Error("Failed to build circuit breaker", slog.Any("err", err))
		os.Exit(1)
	}

	interval, err := time.ParseDuration(cfg.Demo.Interval)
	if err != nil {
		log.Error("Invalid demo interval",
			slog.String("interval", cfg.Demo.Interval),
			slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Starting guarded call loop",
		slog.Int("calls", cfg.Demo.Calls),
		slog.Int("failure_threshold", cfg.Breaker.FailureThreshold),
		slog.String("call_timeout", cfg.Breaker.CallTimeout),
		slog.String("recovery_time", cfg.Breaker.RecoveryTime))

	runLoop(ctx, log, cb, unreliable.Service, cfg.Demo.Calls, interval)
}

func buildBreaker(cfg *config.Config) (*circuitbreaker.CircuitBreaker[string], error) {
	callTimeout, err := time.ParseDuration(cfg.Breaker.CallTimeout)
	if err != nil {
		return nil, err
	}

	recoveryTime, err := time.ParseDuration(cfg.Breaker.RecoveryTime)
	if err != nil {
		return nil, err
	}

	return circuitbreaker.New[string](
		cfg.Breaker.FailureThreshold,
		callTimeout,
		recoveryTime,
		cfg.Breaker.HalfOpenSuccesses,
	), nil
}

// runLoop drives the breaker against op, logging each of the four outcome
// shapes, until calls are exhausted or ctx is cancelled.
func runLoop(
	ctx context.Context,
	log *slog.Logger,
	cb *circuitbreaker.CircuitBreaker[string],
	op func() (string, error),
	calls int,
	interval time.Duration,
) {
	for i := 0; i < calls; i++ {
		res, ok, err := cb.Call(op)

		var opErr *circuitbreaker.OperationError
		switch {
		case err == nil && ok:
			log.Info("Service call succeeded",
				slog.String("result", res),
				slog.String("state", cb.State().String()))

		case err == nil:
			log.Warn("Call rejected, breaker is probing for recovery",
				slog.String("state", cb.State().String()))

		case errors.As(err, &opErr):
			log.Warn("Service call failed",
				slog.Any("err", opErr.Unwrap()),
				slog.String("state", cb.State().String()),
				slog.Int("failure_count", cb.FailureCount()))

		case errors.Is(err, circuitbreaker.ErrTimeout):
			log.Warn("Call timed out or breaker is open",
				slog.String("state", cb.State().String()))
		}

		select {
		case <-ctx.Done():
			log.Info("Shutting down gracefully...")
			return
		case <-time.After(interval):
		}
	}
}
