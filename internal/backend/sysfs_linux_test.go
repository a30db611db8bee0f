//go:build linux

package backend

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
)

// writeSysfsDevice 在临时目录里造一个 sysfs 设备目录
func writeSysfsDevice(t *testing.T, root, name string, attrs map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for attr, value := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, attr), []byte(value+"\n"), 0o644))
	}
}

func TestSysfsDevices(t *testing.T) {
	root := t.TempDir()
	writeSysfsDevice(t, root, "1-1", map[string]string{
		"idVendor":     "0781",
		"idProduct":    "5591",
		"busnum":       "1",
		"devnum":       "4",
		"serial":       "4C530001234567891234",
		"manufacturer": "SanDisk",
		"product":      "Ultra USB 3.0",
		"bDeviceClass": "00",
		"speed":        "5000",
		"bMaxPower":    "224mA",
		"version":      " 3.00",
	})
	// 根集线器：没有 serial/manufacturer/product 之外的字符串
	writeSysfsDevice(t, root, "usb1", map[string]string{
		"idVendor":     "1d6b",
		"idProduct":    "0002",
		"busnum":       "1",
		"devnum":       "1",
		"bDeviceClass": "09",
		"speed":        "480",
		"bMaxPower":    "0mA",
		"version":      " 2.00",
	})
	// 接口目录必须被跳过
	writeSysfsDevice(t, root, "1-1:1.0", map[string]string{
		"bInterfaceClass": "08",
	})

	enum, err := newSysfsEnumeratorAt(root)
	require.NoError(t, err)
	defer enum.Close()

	devices, err := enum.Devices()
	require.NoError(t, err)
	require.Len(t, devices, 2)

	// 按 (bus, address) 排序，根集线器在前
	hub, stick := devices[0], devices[1]

	assert.Equal(t, uint16(0x1d6b), hub.VendorID)
	assert.Equal(t, uint16(0x0002), hub.ProductID)
	assert.Equal(t, 1, hub.Bus)
	assert.Equal(t, 1, hub.Address)
	assert.Equal(t, "hub", hub.Class)
	assert.Equal(t, model.SpeedHigh, hub.Speed)
	assert.Equal(t, 0, hub.MaxPowerMA)
	assert.Empty(t, hub.Serial)

	assert.Equal(t, uint16(0x0781), stick.VendorID)
	assert.Equal(t, uint16(0x5591), stick.ProductID)
	assert.Equal(t, 1, stick.Bus)
	assert.Equal(t, 4, stick.Address)
	assert.Equal(t, "SanDisk", stick.Manufacturer)
	assert.Equal(t, "Ultra USB 3.0", stick.Product)
	assert.Equal(t, "4C530001234567891234", stick.Serial)
	assert.Equal(t, "per-interface", stick.Class)
	assert.Equal(t, model.SpeedSuper, stick.Speed)
	assert.Equal(t, 224, stick.MaxPowerMA)
	assert.Equal(t, "3.00", stick.USBVersion)
	assert.False(t, stick.CapturedAt.IsZero())
}

func TestSysfsSkipsBrokenDevice(t *testing.T) {
	root := t.TempDir()
	// busnum 烂掉的设备不该让整轮枚举失败
	writeSysfsDevice(t, root, "2-1", map[string]string{
		"idVendor":  "1234",
		"idProduct": "5678",
		"busnum":    "not-a-number",
		"devnum":    "2",
	})
	writeSysfsDevice(t, root, "2-2", map[string]string{
		"idVendor":  "1234",
		"idProduct": "9999",
		"busnum":    "2",
		"devnum":    "3",
	})

	enum, err := newSysfsEnumeratorAt(root)
	require.NoError(t, err)

	devices, err := enum.Devices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, uint16(0x9999), devices[0].ProductID)
}

func TestSysfsEmptyBusIsNotAnError(t *testing.T) {
	enum, err := newSysfsEnumeratorAt(t.TempDir())
	require.NoError(t, err)

	devices, err := enum.Devices()
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestSysfsMissingRoot(t *testing.T) {
	_, err := newSysfsEnumeratorAt(filepath.Join(t.TempDir(), "no-such-dir"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrBackendUnavailable))
}

func TestSysfsSpeedTokens(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"1.5", model.SpeedLow},
		{"12", model.SpeedFull},
		{"480", model.SpeedHigh},
		{"5000", model.SpeedSuper},
		{"10000", model.SpeedSuperPlus},
		{"", model.SpeedUnknown},
		{"junk", model.SpeedUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sysfsSpeed(tt.raw), "speed %q", tt.raw)
	}
}
