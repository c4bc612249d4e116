package unreliable_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/circuit-guard/internal/unreliable"
)

func TestUnreliable(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Unreliable Suite")
}

var _ = Describe("Service", func() {
	It("should either succeed with a payload or fail with the service error", func() {
		res, err := unreliable.Service()
		if err != nil {
			Expect(err).To(MatchError(unreliable.ErrServiceFailed))
			Expect(res).To(BeEmpty())
		} else {
			Expect(res).To(Equal("Success!"))
		}
	})

	It("should track wall-clock second parity", func() {
		// Sample away from a second boundary so the parity the service
		// observes matches the one asserted on.
		for time.Now().UnixMilli()%1000 > 800 {
			time.Sleep(50 * time.Millisecond)
		}

		_, err := unreliable.Service()
		if time.Now().Unix()%2 == 0 {
			Expect(err).To(MatchError(unreliable.ErrServiceFailed))
		} else {
			Expect(err).NotTo(HaveOccurred())
		}
	})
})

var _ = Describe("Slow", func() {
	It("should take at least the requested duration", func() {
		op := unreliable.Slow(50 * time.Millisecond)

		start := time.Now()
		res, err := op()

		Expect(time.Since(start)).To(BeNumerically(">=", 50*time.Millisecond))
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal("Success!"))
	})
})
