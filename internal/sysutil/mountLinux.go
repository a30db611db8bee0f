//go:build linux

package sysutil

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// usbIdentity 判断分区是否挂在 USB 总线上，顺带取出 idVendor/idProduct
// 通过 /sys/class/block/{name} 的符号链接回溯到 USB 物理设备根目录
func usbIdentity(p disk.PartitionStat) (vid, pid string, onUSB bool) {
	if !strings.HasPrefix(p.Device, "/dev/") || strings.HasPrefix(p.Device, "/dev/loop") {
		return "", "", false
	}

	sysPath := "/sys/class/block/" + filepath.Base(p.Device)
	realSysPath, err := filepath.EvalSymlinks(sysPath)
	if err != nil {
		return "", "", false
	}

	usbRoot, ok := findUSBRoot(realSysPath)
	if !ok {
		return "", "", false
	}
	return readAttr(usbRoot, "idVendor"), readAttr(usbRoot, "idProduct"), true
}

// findUSBRoot 向上回溯查找包含 idVendor 的目录（即 USB Device 根目录）
func findUSBRoot(path string) (string, bool) {
	dir := path
	// 最多 10 层，USB 设备通常在 sysfs 树的上层
	for i := 0; i < 10; i++ {
		dir = filepath.Dir(dir)
		if dir == "/" || dir == "." {
			break
		}
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err == nil {
			return dir, true
		}
	}
	return "", false
}

func readAttr(dir, name string) string {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
