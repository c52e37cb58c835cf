package compute

import "fmt"

// maxDeviceTerm keeps (2k)(2k+1)(2k+2) inside a uint64.
const maxDeviceTerm = 1_300_000

// Device evaluates Nilakantha term denominators in bulk.
type Device interface {
	Name() string
	Open() error
	// Denominators fills out[i] with the denominator of term first+i.
	Denominators(first uint64, out []uint64) error
	Close()
}

type Flavor int

const (
	FlavorCUDA Flavor = iota
	FlavorHIP
)

func (f Flavor) String() string {
	switch f {
	case FlavorCUDA:
		return "cuda"
	case FlavorHIP:
		return "hip"
	default:
		return fmt.Sprintf("flavor(%d)", int(f))
	}
}

// NewDevice returns the native device for a flavor, or a host emulation of it.
func NewDevice(f Flavor, emulate bool) Device {
	if emulate {
		return NewHostDevice(f.String() + "-emulated")
	}
	switch f {
	case FlavorHIP:
		return NewHIPDevice()
	default:
		return NewCUDADevice()
	}
}
