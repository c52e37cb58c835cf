package hardware

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Vendor int

const (
	VendorNone Vendor = iota
	VendorNVIDIA
	VendorAMD
)

func (v Vendor) String() string {
	switch v {
	case VendorNVIDIA:
		return "nvidia"
	case VendorAMD:
		return "amd"
	default:
		return "none"
	}
}

// ParseVendor maps a vendor name to a Vendor; unknown names are VendorNone.
func ParseVendor(s string) Vendor {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nvidia":
		return VendorNVIDIA
	case "amd", "ati":
		return VendorAMD
	default:
		return VendorNone
	}
}

func (v Vendor) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v *Vendor) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*v = ParseVendor(s)
	return nil
}

type Accelerator struct {
	Name            string `yaml:"name"`
	Vendor          Vendor `yaml:"vendor"`
	MemoryMegabytes int    `yaml:"memory_mb"`
}

// Profile is a read-only snapshot of the machine a computation runs on.
type Profile struct {
	CPUModel     string        `yaml:"cpu_model"`
	Cores        int           `yaml:"cores"`
	RAMMegabytes int           `yaml:"ram_mb"`
	CPUFeatures  []string      `yaml:"cpu_features,omitempty"`
	Accelerators []Accelerator `yaml:"accelerators"`
}

func (p *Profile) Validate() error {
	if p.Cores < 1 {
		return fmt.Errorf("hardware: cores must be at least 1, got %d", p.Cores)
	}
	if p.RAMMegabytes < 0 {
		return fmt.Errorf("hardware: ram_mb must be non-negative, got %d", p.RAMMegabytes)
	}
	for i, a := range p.Accelerators {
		if a.MemoryMegabytes < 0 {
			return fmt.Errorf("hardware: accelerator %d (%s): memory_mb must be non-negative", i, a.Name)
		}
	}
	return nil
}

// HasAccelerator reports whether any accelerator of vendor v is present.
func (p *Profile) HasAccelerator(v Vendor) bool {
	for _, a := range p.Accelerators {
		if a.Vendor == v {
			return true
		}
	}
	return false
}

// Load reads a profile from a YAML file, filling unset core counts with 1.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("hardware: parse %s: %w", path, err)
	}
	if p.Cores == 0 {
		p.Cores = 1
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func Save(path string, p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
