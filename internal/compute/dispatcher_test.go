package compute

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/hardware"
	"github.com/san-kum/pilab/internal/logging"
	"github.com/san-kum/pilab/internal/metrics"
	"github.com/san-kum/pilab/internal/series"
)

func profile(vendors ...hardware.Vendor) *hardware.Profile {
	p := &hardware.Profile{CPUModel: "test", Cores: 4, RAMMegabytes: 1024}
	for _, v := range vendors {
		p.Accelerators = append(p.Accelerators, hardware.Accelerator{Name: v.String() + "-gpu", Vendor: v})
	}
	return p
}

var _ = Describe("Dispatcher", func() {
	var (
		ctx      context.Context
		cpu      *countingEngine
		cuda     *countingEngine
		hip      *countingEngine
		phases   []Phase
		recorder *metrics.Recorder
		d        *Dispatcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		cpu = &countingEngine{name: "cpu", inner: series.New()}
		cuda = &countingEngine{name: "cuda", inner: NewAcceleratedEngine(FlavorCUDA, NewHostDevice("h"))}
		hip = &countingEngine{name: "hip", inner: NewAcceleratedEngine(FlavorHIP, NewHostDevice("h"))}
		phases = nil
		recorder = metrics.NewRecorder()
		d = NewDispatcher(cpu,
			WithCUDA(cuda),
			WithHIP(hip),
			WithLogger(logging.NewTestLogger(GinkgoT())),
			WithMetrics(recorder),
			WithPhaseHook(func(p Phase) { phases = append(phases, p) }))
	})

	Context("with no accelerators", func() {
		It("should match the series engine exactly", func() {
			want, err := series.New().Compute(ctx, 200)
			Expect(err).NotTo(HaveOccurred())

			got, err := d.Compute(ctx, 200, profile())
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Digits).To(Equal(want.Digits))
			Expect(got.FellBack).To(BeFalse())
			Expect(cpu.calls).To(Equal(1))
			Expect(cuda.calls + hip.calls).To(BeZero())
			Expect(phases).To(Equal([]Phase{PhaseNotStarted, PhaseSelecting, PhaseComputingSeries, PhaseDone}))
		})

		It("should accept a nil profile", func() {
			_, err := d.Compute(ctx, 5, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(cpu.calls).To(Equal(1))
		})
	})

	Context("vendor routing", func() {
		It("should never invoke cuda for an AMD-only profile", func() {
			res, err := d.Compute(ctx, 20, profile(hardware.VendorAMD))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Engine).To(Equal("hip"))
			Expect(cuda.calls).To(BeZero())
			Expect(cpu.calls).To(BeZero())
		})

		It("should pick the first known vendor in detection order", func() {
			res, err := d.Compute(ctx, 20, profile(hardware.VendorNone, hardware.VendorNVIDIA, hardware.VendorAMD))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Engine).To(Equal("cuda"))
			Expect(hip.calls).To(BeZero())

			res, err = d.Compute(ctx, 20, profile(hardware.VendorAMD, hardware.VendorNVIDIA))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Engine).To(Equal("hip"))
			Expect(cuda.calls).To(Equal(1))
		})

		It("should silently use the cpu for unknown vendors", func() {
			res, err := d.Compute(ctx, 20, profile(hardware.VendorNone, hardware.VendorNone))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Engine).To(Equal("cpu"))
			Expect(res.FellBack).To(BeFalse())
		})

		It("should report the selected accelerator", func() {
			sel := d.Select(profile(hardware.VendorNVIDIA))
			Expect(sel.Accelerated()).To(BeTrue())
			Expect(sel.Accelerator.Name).To(Equal("nvidia-gpu"))
			Expect(sel.Engine.Name()).To(Equal("cuda"))
		})

		It("should use the cpu when no engine is configured for the vendor", func() {
			bare := NewDispatcher(cpu)
			Expect(bare.Select(profile(hardware.VendorAMD)).Accelerated()).To(BeFalse())
		})
	})

	Context("fallback", func() {
		It("should retry once on the cpu when the accelerator is unavailable", func() {
			cuda.err = core.ErrAcceleratorUnavailable
			res, err := d.Compute(ctx, 20, profile(hardware.VendorNVIDIA))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.FellBack).To(BeTrue())
			Expect(res.Engine).To(Equal("cpu"))
			Expect(cuda.calls).To(Equal(1))
			Expect(cpu.calls).To(Equal(1))
			Expect(phases).To(Equal([]Phase{
				PhaseNotStarted, PhaseSelecting, PhaseComputingAccelerated, PhaseComputingSeries, PhaseDone,
			}))
		})

		It("should fail with ErrComputationFailed when the cpu fails too", func() {
			cuda.err = core.ErrAcceleratorUnavailable
			cpu.err = errors.New("out of memory")
			_, err := d.Compute(ctx, 20, profile(hardware.VendorNVIDIA))
			Expect(errors.Is(err, core.ErrComputationFailed)).To(BeTrue())
			Expect(cpu.calls).To(Equal(1))
			Expect(phases[len(phases)-1]).To(Equal(PhaseFailed))
		})

		It("should not fall back on other accelerator errors", func() {
			hip.err = core.Canceled(context.Canceled)
			_, err := d.Compute(ctx, 20, profile(hardware.VendorAMD))
			Expect(errors.Is(err, core.ErrCanceled)).To(BeTrue())
			Expect(cpu.calls).To(BeZero())
		})

		It("should fall back through the default stub devices", func() {
			def := NewDefaultDispatcher(Options{Logger: logging.NewTestLogger(GinkgoT())})
			res, err := def.Compute(ctx, 30, profile(hardware.VendorAMD))
			Expect(err).NotTo(HaveOccurred())
			want, _ := series.New().Compute(ctx, 30)
			Expect(res.Digits).To(Equal(want.Digits))
		})

		It("should run accelerated when emulation is enabled", func() {
			def := NewDefaultDispatcher(Options{Emulate: true})
			res, err := def.Compute(ctx, 30, profile(hardware.VendorNVIDIA))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Engine).To(Equal("cuda"))
			Expect(res.FellBack).To(BeFalse())
		})
	})

	Context("invalid arguments", func() {
		It("should fail before selecting an engine", func() {
			for _, digits := range []core.Digits{0, -5} {
				res, err := d.Compute(ctx, digits, profile(hardware.VendorNVIDIA))
				Expect(errors.Is(err, core.ErrInvalidArgument)).To(BeTrue())
				Expect(res.Digits).To(BeEmpty())
			}
			Expect(cuda.calls + cpu.calls).To(BeZero())
		})
	})

	Context("bound to a profile", func() {
		It("should route like Compute and report the selected engine", func() {
			e := d.Bind(profile(hardware.VendorAMD))
			Expect(e.Name()).To(Equal("hip"))

			res, err := e.Compute(ctx, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Engine).To(Equal("hip"))
			Expect(hip.calls).To(Equal(1))
			Expect(cuda.calls).To(BeZero())
		})
	})
})

var _ = Describe("Phase", func() {
	It("should name every phase", func() {
		for p := PhaseNotStarted; p <= PhaseFailed; p++ {
			Expect(p.String()).NotTo(HavePrefix("phase("))
		}
	})
})
