//go:build hip

package compute

/*
#cgo CFLAGS: -I/opt/rocm/include -D__HIP_PLATFORM_AMD__
#cgo LDFLAGS: -L/opt/rocm/lib -L${SRCDIR}/kernels -lamdhip64 -lnilakantha_hip -lstdc++
#include <stdint.h>

extern int hip_device_count();
extern const char* hip_device_name_get();
extern int nilakantha_denominators_hip(uint64_t first, int count, uint64_t* out);
*/
import "C"

import (
	"fmt"
	"unsafe"
)

type HIPDevice struct {
	available  bool
	deviceName string
}

func NewHIPDevice() *HIPDevice {
	count := int(C.hip_device_count())
	name := ""
	if count > 0 {
		name = C.GoString(C.hip_device_name_get())
	}
	return &HIPDevice{
		available:  count > 0,
		deviceName: name,
	}
}

func (h *HIPDevice) Name() string {
	if h.available {
		return "hip (" + h.deviceName + ")"
	}
	return "hip (not available)"
}

func (h *HIPDevice) Open() error {
	if !h.available {
		return fmt.Errorf("hip: no device found")
	}
	return nil
}

func (h *HIPDevice) Close() {}

func (h *HIPDevice) Denominators(first uint64, out []uint64) error {
	if len(out) == 0 {
		return nil
	}
	rc := C.nilakantha_denominators_hip(
		C.uint64_t(first),
		C.int(len(out)),
		(*C.uint64_t)(unsafe.Pointer(&out[0])),
	)
	if rc != 0 {
		return fmt.Errorf("hip: kernel failed with error %d", int(rc))
	}
	return nil
}
