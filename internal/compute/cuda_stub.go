//go:build !cuda

package compute

import "errors"

type CUDADevice struct{}

func NewCUDADevice() *CUDADevice {
	return &CUDADevice{}
}

func (c *CUDADevice) Name() string { return "cuda (not available)" }
func (c *CUDADevice) Open() error  { return errors.New("cuda: built without cuda support") }
func (c *CUDADevice) Close()       {}

func (c *CUDADevice) Denominators(first uint64, out []uint64) error {
	return errors.New("cuda: built without cuda support")
}
