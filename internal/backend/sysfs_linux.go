//go:build linux

package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

const defaultSysfsRoot = "/sys/bus/usb/devices"

// sysfsEnumerator 直接读 sysfs 属性文件的枚举实现
// 不依赖 libusb，普通用户权限即可读字符串描述符，作为 auto 模式的退路
type sysfsEnumerator struct {
	root string
}

func newSysfsEnumerator() (Enumerator, error) {
	return newSysfsEnumeratorAt(defaultSysfsRoot)
}

func newSysfsEnumeratorAt(root string) (Enumerator, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: sysfs: %v", model.ErrBackendUnavailable, err)
	}
	return &sysfsEnumerator{root: root}, nil
}

func (e *sysfsEnumerator) Name() string { return "sysfs" }

func (e *sysfsEnumerator) Close() error { return nil }

func (e *sysfsEnumerator) Devices() ([]model.Descriptor, error) {
	entries, err := os.ReadDir(e.root)
	if err != nil {
		return nil, fmt.Errorf("%w: sysfs: %v", model.ErrBackendUnavailable, err)
	}

	now := time.Now()
	var found []model.Descriptor
	for _, entry := range entries {
		// 形如 1-1:1.0 的是接口目录，设备目录（1-1、usb1）才有 idVendor
		if strings.Contains(entry.Name(), ":") {
			continue
		}
		dir := filepath.Join(e.root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "idVendor")); err != nil {
			continue
		}
		d, err := readSysfsDevice(dir, now)
		if err != nil {
			sysutil.Log.Debug("sysfs device skipped",
				zap.String("dir", dir),
				zap.NamedError("cause", fmt.Errorf("%w: %v", model.ErrDeviceQuery, err)))
			continue
		}
		found = append(found, d)
	}

	sortByLocation(found)
	return found, nil
}

// readSysfsDevice 身份字段缺一不可，可选字段读不到留空
func readSysfsDevice(dir string, ts time.Time) (model.Descriptor, error) {
	vid, err := hex16(attr(dir, "idVendor"))
	if err != nil {
		return model.Descriptor{}, fmt.Errorf("idVendor: %v", err)
	}
	pid, err := hex16(attr(dir, "idProduct"))
	if err != nil {
		return model.Descriptor{}, fmt.Errorf("idProduct: %v", err)
	}
	bus, err := strconv.Atoi(attr(dir, "busnum"))
	if err != nil {
		return model.Descriptor{}, fmt.Errorf("busnum: %v", err)
	}
	addr, err := strconv.Atoi(attr(dir, "devnum"))
	if err != nil {
		return model.Descriptor{}, fmt.Errorf("devnum: %v", err)
	}

	d := model.Descriptor{
		CapturedAt:   ts,
		VendorID:     vid,
		ProductID:    pid,
		Bus:          bus,
		Address:      addr,
		Serial:       attr(dir, "serial"),
		Manufacturer: attr(dir, "manufacturer"),
		Product:      attr(dir, "product"),
		USBVersion:   attr(dir, "version"),
		Speed:        sysfsSpeed(attr(dir, "speed")),
		MaxPowerMA:   sysfsMaxPower(attr(dir, "bMaxPower")),
	}
	if class, err := strconv.ParseUint(attr(dir, "bDeviceClass"), 16, 8); err == nil {
		d.Class = model.ClassName(uint8(class))
	} else {
		d.Class = model.ClassName(0)
	}
	return d, nil
}

func attr(dir, name string) string {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func hex16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}

// sysfsSpeed sysfs 的 speed 文件给的是 Mbps 数值
func sysfsSpeed(s string) string {
	switch s {
	case "1.5":
		return model.SpeedLow
	case "12":
		return model.SpeedFull
	case "480":
		return model.SpeedHigh
	case "5000":
		return model.SpeedSuper
	case "10000", "20000":
		return model.SpeedSuperPlus
	default:
		return model.SpeedUnknown
	}
}

// sysfsMaxPower 形如 "500mA"
func sysfsMaxPower(s string) int {
	v, err := strconv.Atoi(strings.TrimSuffix(s, "mA"))
	if err != nil {
		return 0
	}
	return v
}
