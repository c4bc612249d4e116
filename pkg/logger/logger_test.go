package logger_test

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/circuit-guard/pkg/logger"
)

func TestLogger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Logger Suite")
}

var _ = Describe("Logger", func() {
	Describe("New", func() {
		It("should create a logger for each supported level", func() {
			for _, level := range []string{"debug", "info", "warn", "error"} {
				log := logger.New(level, "dev")
				Expect(log).NotTo(BeNil())
			}
		})

		It("should default to info for an unknown level", func() {
			log := logger.New("verbose", "dev")
			Expect(log).NotTo(BeNil())
			Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeTrue())
			Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeFalse())
		})

		It("should honor the debug level", func() {
			log := logger.New("debug", "dev")
			Expect(log.Enabled(context.Background(), slog.LevelDebug)).To(BeTrue())
		})

		It("should suppress info when set to error", func() {
			log := logger.New("error", "dev")
			Expect(log.Enabled(context.Background(), slog.LevelInfo)).To(BeFalse())
			Expect(log.Enabled(context.Background(), slog.LevelError)).To(BeTrue())
		})

		It("should create a prod logger", func() {
			log := logger.New("info", "prod")
			Expect(log).NotTo(BeNil())
		})
	})
})
