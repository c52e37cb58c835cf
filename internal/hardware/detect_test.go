package hardware

import (
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func writeFile(root string, rel string, content string) {
	path := filepath.Join(root, rel)
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
}

var _ = Describe("Detector", func() {
	var root string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		writeFile(root, "proc/cpuinfo", "processor\t: 0\nmodel name\t: Test CPU @ 3.00GHz\n")
		writeFile(root, "proc/meminfo", "MemTotal:       16384000 kB\nMemFree:  1 kB\n")
	})

	Context("on a CPU-only machine", func() {
		It("should report cpu facts and no accelerators", func() {
			p := (&Detector{Root: root}).Detect()
			Expect(p.CPUModel).To(Equal("Test CPU @ 3.00GHz"))
			Expect(p.RAMMegabytes).To(Equal(16000))
			Expect(p.Cores).To(BeNumerically(">=", 1))
			Expect(p.Accelerators).To(BeEmpty())
			Expect(p.Validate()).To(Succeed())
		})
	})

	Context("with drm cards", func() {
		BeforeEach(func() {
			writeFile(root, "sys/class/drm/card1/device/vendor", "0x10de\n")
			writeFile(root, "sys/class/drm/card0/device/vendor", "0x1002\n")
			writeFile(root, "sys/class/drm/card0/device/mem_info_vram_total", "17163091968\n")
			writeFile(root, "sys/class/drm/card0/device/product_name", "Radeon RX 7900\n")
			writeFile(root, "sys/class/drm/card0-DP-1/status", "connected\n")
			writeFile(root, "sys/class/drm/card2/device/vendor", "0x8086\n")
			writeFile(root, "proc/driver/nvidia/gpus/0000:01:00.0/information", "Model: \t\t NVIDIA GeForce RTX 3080\nIRQ: 1\n")
		})

		It("should list devices in card order with vendors resolved", func() {
			p := (&Detector{Root: root}).Detect()
			want := []Accelerator{
				{Name: "Radeon RX 7900", Vendor: VendorAMD, MemoryMegabytes: 16368},
				{Name: "NVIDIA GeForce RTX 3080", Vendor: VendorNVIDIA},
				{Name: "none gpu (card2)", Vendor: VendorNone},
			}
			Expect(cmp.Diff(want, p.Accelerators)).To(BeEmpty())
		})
	})

	Context("with the proprietary driver only", func() {
		It("should fall back to procfs models", func() {
			writeFile(root, "proc/driver/nvidia/gpus/0000:01:00.0/information", "Model: \t\t Tesla T4\n")
			p := (&Detector{Root: root}).Detect()
			Expect(p.Accelerators).To(HaveLen(1))
			Expect(p.Accelerators[0].Vendor).To(Equal(VendorNVIDIA))
			Expect(p.Accelerators[0].Name).To(Equal("Tesla T4"))
		})
	})
})

var _ = Describe("Profile files", func() {
	It("should round trip through yaml", func() {
		path := filepath.Join(GinkgoT().TempDir(), "hw.yaml")
		p := &Profile{
			CPUModel:     "cpu",
			Cores:        8,
			RAMMegabytes: 1024,
			Accelerators: []Accelerator{
				{Name: "a", Vendor: VendorAMD, MemoryMegabytes: 8192},
				{Name: "n", Vendor: VendorNVIDIA},
			},
		}
		Expect(Save(path, p)).To(Succeed())

		loaded, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cmp.Diff(p, loaded, cmpopts.EquateEmpty())).To(BeEmpty())
	})

	It("should parse vendors case-insensitively and default cores", func() {
		path := filepath.Join(GinkgoT().TempDir(), "hw.yaml")
		writeFile(filepath.Dir(path), "hw.yaml", "accelerators:\n  - name: x\n    vendor: NVIDIA\n  - name: y\n    vendor: intel\n")

		p, err := Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Cores).To(Equal(1))
		Expect(p.Accelerators[0].Vendor).To(Equal(VendorNVIDIA))
		Expect(p.Accelerators[1].Vendor).To(Equal(VendorNone))
		Expect(p.HasAccelerator(VendorNVIDIA)).To(BeTrue())
		Expect(p.HasAccelerator(VendorAMD)).To(BeFalse())
	})

	It("should reject invalid profiles", func() {
		path := filepath.Join(GinkgoT().TempDir(), "hw.yaml")
		writeFile(filepath.Dir(path), "hw.yaml", "cores: 2\nram_mb: -1\n")
		_, err := Load(path)
		Expect(err).To(HaveOccurred())
	})
})
