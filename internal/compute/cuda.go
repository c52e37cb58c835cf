//go:build cuda

package compute

/*
#cgo CFLAGS: -I/opt/cuda/include
#cgo LDFLAGS: -L/opt/cuda/lib64 -L${SRCDIR}/kernels -lcudart -lnilakantha_cuda -lstdc++
#include <stdint.h>

extern int cuda_device_count();
extern const char* cuda_device_name_get();
extern int nilakantha_denominators_cuda(uint64_t first, int count, uint64_t* out);
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type CUDADevice struct {
	available  bool
	deviceName string
}

func NewCUDADevice() *CUDADevice {
	count := int(C.cuda_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.cuda_device_name_get())
	}
	return &CUDADevice{
		available:  count > 0,
		deviceName: name,
	}
}

func (c *CUDADevice) Name() string {
	if c.available {
		return "cuda (" + c.deviceName + ")"
	}
	return "cuda (not available)"
}

func (c *CUDADevice) Open() error {
	if !c.available {
		return fmt.Errorf("cuda: no device found")
	}
	return nil
}

func (c *CUDADevice) Close() {}

func (c *CUDADevice) Denominators(first uint64, out []uint64) error {
	if len(out) == 0 {
		return nil
	}
	rc := C.nilakantha_denominators_cuda(
		C.uint64_t(first),
		C.int(len(out)),
		(*C.uint64_t)(unsafe.Pointer(&out[0])),
	)
	if rc != 0 {
		return fmt.Errorf("cuda: kernel failed with error %d", int(rc))
	}
	return nil
}
