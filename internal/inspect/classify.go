package inspect

import "fmt"

// 设备类型结论，报告里直接展示
const (
	TypeMassStorage = "Mass Storage Device"
	TypeHID         = "HID (e.g., Keyboard, Mouse, or Dongle)"
	TypeHub         = "USB Hub"
	TypeVendor      = "Vendor-Specific (Possible Dongle or Specialized Device)"
	TypeOther       = "Other/Unknown Device Type"
)

const (
	classHID         = 0x03
	classMassStorage = 0x08
	classHub         = 0x09
	classVendor      = 0xff
)

// displayClassNames 报告用的人类可读名称
// 持久化用的小写 token 在 model 包，两套命名不混用
var displayClassNames = map[uint8]string{
	0x00: "Per Interface",
	0x01: "Audio",
	0x02: "Communications",
	0x03: "HID (Human Interface Device)",
	0x05: "Physical",
	0x06: "Image",
	0x07: "Printer",
	0x08: "Mass Storage",
	0x09: "Hub",
	0x0a: "CDC-Data",
	0x0b: "Smart Card",
	0x0d: "Content Security",
	0x0e: "Video",
	0x0f: "Personal Healthcare",
	0x10: "Audio/Video Devices",
	0x11: "Billboard Device",
	0xdc: "Diagnostic Device",
	0xe0: "Wireless Controller",
	0xef: "Miscellaneous",
	0xfe: "Application Specific",
	0xff: "Vendor Specific",
}

// DisplayClassName Class 代码转展示名称
func DisplayClassName(code uint8) string {
	if name, ok := displayClassNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%02x)", code)
}

// Classify 设备类型启发式
// 现代设备多为 per-interface(0x00)，设备级 Class 不可靠，
// 所以存储和 HID 还要扫一遍接口 Class
func Classify(deviceClass uint8, interfaceClasses []uint8) string {
	if deviceClass == classMassStorage || hasClass(interfaceClasses, classMassStorage) {
		return TypeMassStorage
	}
	if deviceClass == classHID || hasClass(interfaceClasses, classHID) {
		return TypeHID
	}
	switch deviceClass {
	case classHub:
		return TypeHub
	case classVendor:
		return TypeVendor
	}
	return TypeOther
}

// Composite 一棵设备树下同时出现 存储(08) 和 HID(03) 接口
// 正常 U 盘不带键盘接口，这种组合值得在报告里单独标出来
func Composite(interfaceClasses []uint8) bool {
	return hasClass(interfaceClasses, classMassStorage) && hasClass(interfaceClasses, classHID)
}

func hasClass(classes []uint8, want uint8) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}
