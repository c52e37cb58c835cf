//go:build !hip

package compute

import "errors"

type HIPDevice struct{}

func NewHIPDevice() *HIPDevice {
	return &HIPDevice{}
}

func (h *HIPDevice) Name() string { return "hip (not available)" }
func (h *HIPDevice) Open() error  { return errors.New("hip: built without hip support") }
func (h *HIPDevice) Close()       {}

func (h *HIPDevice) Denominators(first uint64, out []uint64) error {
	return errors.New("hip: built without hip support")
}
