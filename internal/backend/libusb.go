package backend

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

// libusbEnumerator 基于 gousb(libusb) 的枚举实现
type libusbEnumerator struct {
	ctx *gousb.Context
}

// newLibusbEnumerator 初始化 libusb 上下文
// gousb 在 libusb_init 失败时会 panic，这里转换为 ErrBackendUnavailable
func newLibusbEnumerator() (enum Enumerator, err error) {
	defer func() {
		if r := recover(); r != nil {
			enum = nil
			err = fmt.Errorf("%w: libusb init: %v", model.ErrBackendUnavailable, r)
		}
	}()
	return &libusbEnumerator{ctx: gousb.NewContext()}, nil
}

func (e *libusbEnumerator) Name() string { return "libusb" }

func (e *libusbEnumerator) Close() error { return e.ctx.Close() }

func (e *libusbEnumerator) Devices() ([]model.Descriptor, error) {
	now := time.Now()
	var found []model.Descriptor

	// 回调对每个设备描述符都会执行；返回 true 打开设备，
	// 打开只是为了读字符串描述符，枚举本身不需要
	opened, err := e.ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		found = append(found, DescriptorFromDesc(desc, now))
		return true
	})
	defer func() {
		for _, dev := range opened {
			dev.Close()
		}
	}()

	if len(found) == 0 && err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
	}
	if err != nil {
		// 部分设备打不开：描述符仍然在列，只是字符串字段留空
		sysutil.Log.Debug("some devices not opened for string descriptors",
			zap.NamedError("cause", fmt.Errorf("%w: %v", model.ErrDeviceQuery, err)))
	}

	for _, dev := range opened {
		if i := indexByLocation(found, dev.Desc.Bus, dev.Desc.Address); i >= 0 {
			fillStrings(&found[i], dev)
		}
	}

	sortByLocation(found)
	return found, nil
}

// DescriptorFromDesc 把 gousb 设备描述符转换为固定结构的记录
// 字符串描述符需要打开设备才能读，这里不填
func DescriptorFromDesc(desc *gousb.DeviceDesc, ts time.Time) model.Descriptor {
	return model.Descriptor{
		CapturedAt: ts,
		VendorID:   uint16(desc.Vendor),
		ProductID:  uint16(desc.Product),
		Bus:        desc.Bus,
		Address:    desc.Address,
		Class:      model.ClassName(uint8(desc.Class)),
		USBVersion: bcdVersion(uint16(desc.Spec)),
		Speed:      speedName(desc.Speed),
		MaxPowerMA: maxPowerMA(desc),
	}
}

// fillStrings 读取字符串描述符，失败只降级不报错
func fillStrings(d *model.Descriptor, dev *gousb.Device) {
	var degraded error
	if s, err := dev.Manufacturer(); err == nil {
		d.Manufacturer = strings.TrimSpace(s)
	} else {
		degraded = err
	}
	if s, err := dev.Product(); err == nil {
		d.Product = strings.TrimSpace(s)
	} else {
		degraded = err
	}
	if s, err := dev.SerialNumber(); err == nil {
		d.Serial = strings.TrimSpace(s)
	} else {
		degraded = err
	}
	if degraded != nil {
		// 没有对应字符串描述符的设备（索引为 0）也会落到这里，只记 debug
		sysutil.Log.Debug("string descriptor degraded",
			zap.String("device", d.Key().String()),
			zap.NamedError("cause", fmt.Errorf("%w: %v", model.ErrDeviceQuery, degraded)))
	}
}

func indexByLocation(list []model.Descriptor, bus, address int) int {
	for i := range list {
		if list[i].Bus == bus && list[i].Address == address {
			return i
		}
	}
	return -1
}

func sortByLocation(list []model.Descriptor) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Bus != list[j].Bus {
			return list[i].Bus < list[j].Bus
		}
		return list[i].Address < list[j].Address
	})
}

// bcdVersion BCD 编码的 bcdUSB 转 "2.00" 形式
func bcdVersion(v uint16) string {
	return fmt.Sprintf("%x.%02x", v>>8, v&0xff)
}

func speedName(s gousb.Speed) string {
	switch s {
	case gousb.SpeedLow:
		return model.SpeedLow
	case gousb.SpeedFull:
		return model.SpeedFull
	case gousb.SpeedHigh:
		return model.SpeedHigh
	case gousb.SpeedSuper:
		return model.SpeedSuper
	default:
		return model.SpeedUnknown
	}
}

// maxPowerMA 取编号最小配置的 bMaxPower（毫安）
func maxPowerMA(desc *gousb.DeviceDesc) int {
	first := -1
	power := 0
	for num, cfg := range desc.Configs {
		if first == -1 || num < first {
			first = num
			power = int(cfg.MaxPower)
		}
	}
	return power
}
