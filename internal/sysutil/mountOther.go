//go:build !linux

package sysutil

import (
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

// usbIdentity 非 Linux 平台没有 sysfs 可回溯，退化为挂载项启发式判断
func usbIdentity(p disk.PartitionStat) (vid, pid string, onUSB bool) {
	if strings.Contains(strings.ToLower(p.Device), "usb") {
		return "", "", true
	}
	for _, opt := range p.Opts {
		if strings.Contains(strings.ToLower(opt), "removable") {
			return "", "", true
		}
	}
	return "", "", false
}
