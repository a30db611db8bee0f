package model

import (
	"fmt"
	"time"
)

// Descriptor 一次枚举得到的设备描述符快照
// 可选字段（serial/manufacturer/product）读取失败时留空，不影响其余字段
type Descriptor struct {
	CapturedAt   time.Time `json:"timestamp"`
	VendorID     uint16    `json:"vendor_id"`
	ProductID    uint16    `json:"product_id"`
	Bus          int       `json:"bus"`
	Address      int       `json:"address"`
	Serial       string    `json:"serial,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Product      string    `json:"product,omitempty"`
	Class        string    `json:"device_class"`
	USBVersion   string    `json:"usb_version,omitempty"`
	Speed        string    `json:"speed"`
	MaxPowerMA   int       `json:"max_power_ma"`
}

// DeviceKey 识别"同一次物理连接"的身份元组
// 拔掉重插后 Address 通常会变，因此会被当作新设备再次记录
type DeviceKey struct {
	VendorID  uint16
	ProductID uint16
	Bus       int
	Address   int
}

// Key 返回该描述符的身份元组
func (d Descriptor) Key() DeviceKey {
	return DeviceKey{
		VendorID:  d.VendorID,
		ProductID: d.ProductID,
		Bus:       d.Bus,
		Address:   d.Address,
	}
}

// ID 格式化 "vvvv:pppp"，与 lsusb 一致
func (d Descriptor) ID() string {
	return fmt.Sprintf("%04x:%04x", d.VendorID, d.ProductID)
}

func (k DeviceKey) String() string {
	return fmt.Sprintf("%04x:%04x@%d.%d", k.VendorID, k.ProductID, k.Bus, k.Address)
}

// 设备速度枚举值（持久化用的小写 token）
const (
	SpeedUnknown   = "unknown"
	SpeedLow       = "low"
	SpeedFull      = "full"
	SpeedHigh      = "high"
	SpeedSuper     = "super"
	SpeedSuperPlus = "super+"
)

// classNames bDeviceClass/bInterfaceClass → 持久化 token
var classNames = map[uint8]string{
	0x00: "per-interface",
	0x01: "audio",
	0x02: "communications",
	0x03: "hid",
	0x05: "physical",
	0x06: "image",
	0x07: "printer",
	0x08: "mass-storage",
	0x09: "hub",
	0x0a: "cdc-data",
	0x0b: "smart-card",
	0x0d: "content-security",
	0x0e: "video",
	0x0f: "personal-healthcare",
	0x10: "audio-video",
	0x11: "billboard",
	0x12: "usb-c-bridge",
	0xdc: "diagnostic",
	0xe0: "wireless",
	0xef: "miscellaneous",
	0xfe: "application-specific",
	0xff: "vendor-specific",
}

// ClassName Class 代码转 token，未知代码带上十六进制原值
func ClassName(code uint8) string {
	if name, ok := classNames[code]; ok {
		return name
	}
	return fmt.Sprintf("unknown-0x%02x", code)
}
