package compute

import "github.com/san-kum/pilab/internal/core"

// hostChunk is the smallest slice of a batch worth its own goroutine.
const hostChunk = 1024

// HostDevice computes denominators on CPU worker goroutines. It stands in for
// an accelerator on machines without one. The zero value is ready to use.
type HostDevice struct {
	name string
}

func NewHostDevice(name string) *HostDevice {
	return &HostDevice{name: name}
}

func (h *HostDevice) Name() string { return h.name }
func (h *HostDevice) Open() error  { return nil }
func (h *HostDevice) Close()       {}

func (h *HostDevice) Denominators(first uint64, out []uint64) error {
	core.ParallelFor(len(out), hostChunk, func(start, end int) {
		fillDenominators(first, out, start, end)
	})
	return nil
}

func fillDenominators(first uint64, out []uint64, start, end int) {
	for i := start; i < end; i++ {
		n := 2 * (first + uint64(i))
		out[i] = n * (n + 1) * (n + 2)
	}
}
