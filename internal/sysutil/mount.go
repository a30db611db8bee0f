package sysutil

import (
	"github.com/shirou/gopsutil/v3/disk"
)

// MountedPartition 已挂载的 USB 分区及容量信息
// VendorID/ProductID 为 sysfs 十六进制原文，非 Linux 平台留空
type MountedPartition struct {
	Device     string
	Mountpoint string
	Fstype     string
	VendorID   string
	ProductID  string
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
}

// USBMounts 枚举挂载在 USB 总线上的分区
// 容量读取失败的分区仍然返回，容量字段为零值
func USBMounts() ([]MountedPartition, error) {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}

	var mounts []MountedPartition
	for _, p := range parts {
		vid, pid, onUSB := usbIdentity(p)
		if !onUSB {
			continue
		}
		m := MountedPartition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			Fstype:     p.Fstype,
			VendorID:   vid,
			ProductID:  pid,
		}
		if usage, err := disk.Usage(p.Mountpoint); err == nil {
			m.TotalBytes = usage.Total
			m.UsedBytes = usage.Used
			m.FreeBytes = usage.Free
		}
		mounts = append(mounts, m)
	}
	return mounts, nil
}
