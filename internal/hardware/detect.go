package hardware

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/cpu"
)

const (
	pciVendorNVIDIA = "0x10de"
	pciVendorAMD    = "0x1002"
)

// Detector reads hardware facts from a procfs/sysfs tree rooted at Root.
type Detector struct {
	Root string
}

func NewDetector() *Detector {
	return &Detector{Root: "/"}
}

// Detect snapshots the current machine.
func Detect() *Profile {
	return NewDetector().Detect()
}

func (d *Detector) Detect() *Profile {
	p := &Profile{
		CPUModel:     d.cpuModel(),
		Cores:        runtime.NumCPU(),
		RAMMegabytes: d.ramMegabytes(),
		CPUFeatures:  cpuFeatures(),
		Accelerators: d.accelerators(),
	}
	if p.Cores < 1 {
		p.Cores = 1
	}
	return p
}

func (d *Detector) path(parts ...string) string {
	return filepath.Join(append([]string{d.Root}, parts...)...)
}

func (d *Detector) cpuModel() string {
	f, err := os.Open(d.path("proc", "cpuinfo"))
	if err != nil {
		return runtime.GOARCH
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "model name") {
			if _, v, ok := strings.Cut(line, ":"); ok {
				return strings.TrimSpace(v)
			}
		}
	}
	return runtime.GOARCH
}

func (d *Detector) ramMegabytes() int {
	f, err := os.Open(d.path("proc", "meminfo"))
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 2 && fields[0] == "MemTotal:" {
			kb, err := strconv.Atoi(fields[1])
			if err != nil {
				return 0
			}
			return kb / 1024
		}
	}
	return 0
}

func cpuFeatures() []string {
	var features []string
	add := func(has bool, name string) {
		if has {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41 || cpu.X86.HasSSE42, "sse4")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
		add(cpu.X86.HasBMI2, "bmi2")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return features
}

type drmCard struct {
	index int
	dir   string
}

// accelerators lists display-class PCI devices in card index order.
func (d *Detector) accelerators() []Accelerator {
	matches, _ := filepath.Glob(d.path("sys", "class", "drm", "card*"))

	var cards []drmCard
	for _, m := range matches {
		idx, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(m), "card"))
		if err != nil {
			// connectors such as card0-DP-1
			continue
		}
		cards = append(cards, drmCard{index: idx, dir: filepath.Join(m, "device")})
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].index < cards[j].index })

	nvidiaModels := d.nvidiaModels()
	var accs []Accelerator
	for _, c := range cards {
		vendorID := readTrimmed(filepath.Join(c.dir, "vendor"))
		if vendorID == "" {
			continue
		}

		acc := Accelerator{
			Name:            readTrimmed(filepath.Join(c.dir, "product_name")),
			MemoryMegabytes: readInt(filepath.Join(c.dir, "mem_info_vram_total")) / (1024 * 1024),
		}
		switch vendorID {
		case pciVendorNVIDIA:
			acc.Vendor = VendorNVIDIA
			if acc.Name == "" && len(nvidiaModels) > 0 {
				acc.Name, nvidiaModels = nvidiaModels[0], nvidiaModels[1:]
			}
		case pciVendorAMD:
			acc.Vendor = VendorAMD
		default:
			acc.Vendor = VendorNone
		}
		if acc.Name == "" {
			acc.Name = acc.Vendor.String() + " gpu (card" + strconv.Itoa(c.index) + ")"
		}
		accs = append(accs, acc)
	}

	// proprietary driver without a drm card entry
	if !(&Profile{Accelerators: accs}).HasAccelerator(VendorNVIDIA) {
		for _, model := range nvidiaModels {
			accs = append(accs, Accelerator{Name: model, Vendor: VendorNVIDIA})
		}
	}
	return accs
}

func (d *Detector) nvidiaModels() []string {
	infos, _ := filepath.Glob(d.path("proc", "driver", "nvidia", "gpus", "*", "information"))
	sort.Strings(infos)

	var models []string
	for _, info := range infos {
		data, err := os.ReadFile(info)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			if k, v, ok := strings.Cut(line, ":"); ok && strings.TrimSpace(k) == "Model" {
				models = append(models, strings.TrimSpace(v))
				break
			}
		}
	}
	return models
}

func readTrimmed(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func readInt(path string) int {
	n, err := strconv.Atoi(readTrimmed(path))
	if err != nil {
		return 0
	}
	return n
}
