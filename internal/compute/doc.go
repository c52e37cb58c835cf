// Package compute runs π computations on the best engine the hardware allows.
//
// The [Dispatcher] is the entry point. It scans the hardware profile in
// detection order and picks one engine:
//
//   - CUDA: first NVIDIA accelerator
//   - HIP: first AMD accelerator
//   - CPU: no accelerators, or none from a known vendor
//
// If an accelerated engine reports [core.ErrAcceleratorUnavailable] the
// dispatcher retries once on the CPU series engine.
//
//	d := compute.NewDispatcher(series.New(), compute.WithCUDA(cudaEngine))
//	res, err := d.Compute(ctx, core.Kilo, hardware.Detect())
//
// # GPU Acceleration
//
// Accelerated engines evaluate term denominators on a [Device] and reduce the
// quotients on the host at full working precision, in term order, so their
// digits match the CPU engine exactly.
//
// Build with CUDA or HIP support:
//
//	./build_cuda.sh
//	./build_hip.sh
//
// Without those tags the devices are stubs whose Open always fails.
package compute
