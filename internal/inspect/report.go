package inspect

import (
	"fmt"
	"strings"

	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

// Render 纯文本设备报告
// osLine 和 mounts 由调用方采集（host 信息、已挂载的 USB 分区），
// 这里只负责排版，方便单测
func Render(d Details, osLine string, mounts []sysutil.MountedPartition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device ID: %s\n", d.Desc.ID())
	fmt.Fprintf(&b, "Manufacturer: %s\n", valueOr(d.Desc.Manufacturer, "Unknown"))
	fmt.Fprintf(&b, "Product: %s\n", valueOr(d.Desc.Product, "Unknown"))
	fmt.Fprintf(&b, "Serial Number: %s\n", valueOr(d.Desc.Serial, "Unknown"))
	fmt.Fprintf(&b, "Device Class: %s\n", d.ClassDisplay)
	fmt.Fprintf(&b, "Device Type: %s\n", d.DeviceType)
	if d.KnownAs != "" {
		fmt.Fprintf(&b, "Known As: %s\n", d.KnownAs)
	}
	fmt.Fprintf(&b, "USB Version: %s\n", valueOr(d.Desc.USBVersion, "Unknown"))
	fmt.Fprintf(&b, "Device Speed: %s\n", d.Desc.Speed)
	fmt.Fprintf(&b, "Max Power: %dmA\n", d.Desc.MaxPowerMA)
	if d.Composite {
		fmt.Fprintf(&b, "Warning: composite device exposes both storage and HID interfaces\n")
	}

	for _, cfg := range d.Configs {
		fmt.Fprintf(&b, "\nConfiguration %d:\n", cfg.Number)
		fmt.Fprintf(&b, "  Max Power: %dmA\n", cfg.MaxPowerMA)
		fmt.Fprintf(&b, "  Self Powered: %s\n", yesNo(cfg.SelfPowered))
		fmt.Fprintf(&b, "  Number of Interfaces: %d\n", len(cfg.Interfaces))
		for _, iface := range cfg.Interfaces {
			fmt.Fprintf(&b, "    Interface %d (alt %d):\n", iface.Number, iface.Alternate)
			fmt.Fprintf(&b, "      Class: %s\n", iface.Class)
			fmt.Fprintf(&b, "      Subclass: 0x%02x\n", iface.SubClass)
			fmt.Fprintf(&b, "      Protocol: 0x%02x\n", iface.Protocol)
			for _, ep := range iface.Endpoints {
				fmt.Fprintf(&b, "      Endpoint %s: %s %s, max packet %d bytes\n",
					ep.Address, ep.Direction, ep.Transfer, ep.MaxPacketSize)
			}
		}
	}

	if osLine != "" {
		fmt.Fprintf(&b, "\nOS: %s\n", osLine)
	}

	if d.DeviceType == TypeMassStorage {
		for _, m := range matchMounts(d, mounts) {
			fmt.Fprintf(&b, "Mounted at: %s (%s)\n", m.Mountpoint, m.Fstype)
			fmt.Fprintf(&b, "  Total Space: %s\n", gigabytes(m.TotalBytes))
			fmt.Fprintf(&b, "  Used Space: %s\n", gigabytes(m.UsedBytes))
			fmt.Fprintf(&b, "  Free Space: %s\n", gigabytes(m.FreeBytes))
		}
	}

	return b.String()
}

// matchMounts 能对上 VID/PID 的分区优先；平台拿不到 ID 时（字段为空）
// 退化为列出所有 USB 分区，和原始工具一个口径
func matchMounts(d Details, mounts []sysutil.MountedPartition) []sysutil.MountedPartition {
	vid := fmt.Sprintf("%04x", d.Desc.VendorID)
	pid := fmt.Sprintf("%04x", d.Desc.ProductID)

	var matched []sysutil.MountedPartition
	for _, m := range mounts {
		if m.VendorID == vid && m.ProductID == pid {
			matched = append(matched, m)
		}
	}
	if matched != nil {
		return matched
	}
	for _, m := range mounts {
		if m.VendorID == "" && m.ProductID == "" {
			matched = append(matched, m)
		}
	}
	return matched
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func gigabytes(b uint64) string {
	return fmt.Sprintf("%.2f GB", float64(b)/(1<<30))
}
