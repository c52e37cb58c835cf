package compute

import (
	"context"
	"errors"
	"math/big"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pilab/internal/core"
	"github.com/san-kum/pilab/internal/series"
)

var _ = Describe("HostDevice", func() {
	It("should match the exact series denominators", func() {
		out := make([]uint64, 5000)
		Expect(NewHostDevice("host").Denominators(1, out)).To(Succeed())

		z := new(big.Int)
		for i, got := range out {
			want := series.Denominator(z, uint64(i+1))
			Expect(want.IsUint64()).To(BeTrue())
			Expect(got).To(Equal(want.Uint64()), "term %d", i+1)
		}
	})

	It("should work as a zero value on large batches", func() {
		var h HostDevice
		out := make([]uint64, 2048)
		Expect(h.Denominators(1, out)).To(Succeed())
		Expect(out[2047]).To(Equal(series.Denominator(new(big.Int), 2048).Uint64()))
	})

	It("should accept an empty batch", func() {
		Expect(NewHostDevice("host").Denominators(1, nil)).To(Succeed())
	})

	It("should stay exact at the largest device term", func() {
		out := make([]uint64, 1)
		Expect(NewHostDevice("host").Denominators(maxDeviceTerm, out)).To(Succeed())
		want := series.Denominator(new(big.Int), maxDeviceTerm)
		Expect(want.IsUint64()).To(BeTrue())
		Expect(out[0]).To(Equal(want.Uint64()))
	})
})

var _ = Describe("AcceleratedEngine", func() {
	ctx := context.Background()

	It("should produce digits identical to the CPU engine", func() {
		for _, d := range []core.Digits{1, 7, 100, 500} {
			cpu, err := series.New().Compute(ctx, d)
			Expect(err).NotTo(HaveOccurred())

			acc := NewAcceleratedEngine(FlavorCUDA, NewHostDevice("host"), WithBatchSize(333))
			res, err := acc.Compute(ctx, d)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Digits).To(Equal(cpu.Digits), "digits=%d", d)
			Expect(res.Engine).To(Equal("cuda"))
			Expect(res.Terms).To(Equal(cpu.Terms))
			Expect(res.PrecisionBits).To(Equal(cpu.PrecisionBits))
		}
	})

	It("should reject non-positive digit counts", func() {
		acc := NewAcceleratedEngine(FlavorHIP, NewHostDevice("host"))
		for _, d := range []core.Digits{0, -5} {
			res, err := acc.Compute(ctx, d)
			Expect(errors.Is(err, core.ErrInvalidArgument)).To(BeTrue())
			Expect(res.Digits).To(BeEmpty())
		}
	})

	It("should report unavailability when the device cannot open", func() {
		dev := &brokenDevice{openErr: errors.New("driver missing")}
		_, err := NewAcceleratedEngine(FlavorCUDA, dev).Compute(ctx, 10)
		Expect(errors.Is(err, core.ErrAcceleratorUnavailable)).To(BeTrue())
	})

	It("should report unavailability when the device fails mid-run and still close it", func() {
		dev := &brokenDevice{HostDevice: *NewHostDevice("host"), failAfter: 1}
		_, err := NewAcceleratedEngine(FlavorCUDA, dev, WithBatchSize(10)).Compute(ctx, 10)
		Expect(errors.Is(err, core.ErrAcceleratorUnavailable)).To(BeTrue())
		Expect(dev.closed).To(BeTrue())
	})

	It("should refuse term counts past the device word size", func() {
		acc := NewAcceleratedEngine(FlavorCUDA, NewHostDevice("host"), WithEngineTermsPerDigit(maxDeviceTerm))
		_, err := acc.Compute(ctx, 2)
		Expect(errors.Is(err, core.ErrAcceleratorUnavailable)).To(BeTrue())
	})

	It("should stop on a canceled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewAcceleratedEngine(FlavorCUDA, NewHostDevice("host")).Compute(cctx, 10)
		Expect(errors.Is(err, core.ErrCanceled)).To(BeTrue())
		Expect(errors.Is(err, core.ErrAcceleratorUnavailable)).To(BeFalse())
	})

	It("should notify the observer once per batch", func() {
		var last, calls int
		obs := core.ObserverFunc(func(term, total int, _ *big.Float) {
			calls++
			last = term
		})
		_, err := NewAcceleratedEngine(FlavorCUDA, NewHostDevice("host"),
			WithBatchSize(40), WithEngineObserver(obs)).Compute(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(3))
		Expect(last).To(Equal(100))
	})

	It("should fail through the stub devices without build tags", func() {
		for _, f := range []Flavor{FlavorCUDA, FlavorHIP} {
			_, err := NewAcceleratedEngine(f, NewDevice(f, false)).Compute(ctx, 10)
			if err == nil {
				Skip("native accelerator present")
			}
			Expect(errors.Is(err, core.ErrAcceleratorUnavailable)).To(BeTrue())
		}
	})
})
