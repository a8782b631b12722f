package platform

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	IconComputer    = "computer"
	IconVM          = "computer-vm"
	IconDesktop     = "computer-desktop"
	IconLaptop      = "computer-laptop"
	IconHandset     = "computer-handset"
	IconServer      = "computer-server"
	IconTablet      = "computer-tablet"
	IconConvertible = "computer-convertible"
)

// SMBIOS 3.4.0 section 7.4.1 chassis types.
var chassisIcons = map[uint64]string{
	0x03: IconDesktop,     // Desktop
	0x04: IconDesktop,     // Low Profile Desktop
	0x05: IconDesktop,     // Pizza Box
	0x06: IconDesktop,     // Mini Tower
	0x07: IconDesktop,     // Tower
	0x0D: IconDesktop,     // All in One
	0x08: IconLaptop,      // Portable
	0x09: IconLaptop,      // Laptop
	0x0A: IconLaptop,      // Notebook
	0x0E: IconLaptop,      // Sub Notebook
	0x0B: IconHandset,     // Hand Held
	0x11: IconServer,      // Main Server Chassis
	0x17: IconServer,      // Rack Mount Chassis
	0x1C: IconServer,      // Blade
	0x1D: IconServer,      // Blade Enclosure
	0x1E: IconTablet,      // Tablet
	0x1F: IconConvertible, // Convertible
	0x20: IconConvertible, // Detachable
}

// DMI vendor or product prefixes reported by common hypervisors.
var hypervisorVendors = []string{
	"QEMU",
	"KVM",
	"VMware",
	"VMW",
	"innotek GmbH",
	"Xen",
	"Bochs",
	"Parallels",
	"BHYVE",
	"Amazon EC2",
	"Google Compute Engine",
}

// Icons reads firmware information under a sysfs root.
type Icons struct {
	SysRoot string
}

// GuessIcon derives an XDG icon name for the machine from DMI data. It
// never fails: unreadable or unknown data yields IconComputer.
func (i Icons) GuessIcon() string {
	root := i.SysRoot
	if root == "" {
		root = SysRoot
	}
	return GuessIcon(root)
}

// GuessIcon is the sysRoot-explicit form of Icons.GuessIcon.
func GuessIcon(sysRoot string) string {
	dmi := filepath.Join(sysRoot, "class", "dmi", "id")

	if isVirtual(dmi) {
		return IconVM
	}

	raw := readSysfsString(filepath.Join(dmi, "chassis_type"))
	if raw == "" {
		return IconComputer
	}
	kind, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return IconComputer
	}
	if icon, ok := chassisIcons[kind]; ok {
		return icon
	}
	return IconComputer
}

func isVirtual(dmi string) bool {
	for _, name := range []string{"sys_vendor", "product_name", "board_vendor", "bios_vendor"} {
		value := readSysfsString(filepath.Join(dmi, name))
		if value == "" {
			continue
		}
		for _, prefix := range hypervisorVendors {
			if strings.HasPrefix(value, prefix) {
				return true
			}
		}
		// Hyper-V reports a generic vendor; the product gives it away.
		if name == "product_name" && value == "Virtual Machine" {
			return true
		}
	}
	return false
}

func readSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
