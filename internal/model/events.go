package model

import "time"

// HotplugEvent 硬件插拔事件（udev uevent 解析结果）
// 仅作为提前轮询的触发信号，字段未经 libusb 校验，只用于日志展示
type HotplugEvent struct {
	Action    string // "add", "remove"
	VendorID  string // uevent PRODUCT 字段的十六进制原文
	ProductID string
	Bus       string // BUSNUM, e.g., "001"
	Address   string // DEVNUM, e.g., "004"
	DevPath   string // e.g., /devices/pci0000:00/.../usb1/1-1
	TimeStamp time.Time
}
