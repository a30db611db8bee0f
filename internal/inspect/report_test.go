package inspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

func sampleDetails() Details {
	return Details{
		Desc: model.Descriptor{
			VendorID:     0x0781,
			ProductID:    0x5591,
			Bus:          1,
			Address:      4,
			Manufacturer: "SanDisk",
			Product:      "Ultra USB 3.0",
			Serial:       "4C530000011223",
			Class:        "per-interface",
			USBVersion:   "3.00",
			Speed:        model.SpeedSuper,
			MaxPowerMA:   224,
		},
		ClassDisplay: DisplayClassName(0x00),
		DeviceType:   TypeMassStorage,
		KnownAs:      "Ultra (SanDisk Corp.)",
		Configs: []Configuration{{
			Number:     1,
			MaxPowerMA: 224,
			Interfaces: []Interface{{
				Number:   0,
				Class:    DisplayClassName(0x08),
				SubClass: 0x06,
				Protocol: 0x50,
				Endpoints: []Endpoint{
					{Address: "0x01", Direction: "OUT", Transfer: "bulk", MaxPacketSize: 1024},
					{Address: "0x81", Direction: "IN", Transfer: "bulk", MaxPacketSize: 1024},
				},
			}},
		}},
	}
}

func TestRenderReport(t *testing.T) {
	out := Render(sampleDetails(), "linux 6.8.0", []sysutil.MountedPartition{{
		Device:     "/dev/sdb1",
		Mountpoint: "/media/stick",
		Fstype:     "vfat",
		VendorID:   "0781",
		ProductID:  "5591",
		TotalBytes: 32 << 30,
		UsedBytes:  8 << 30,
		FreeBytes:  24 << 30,
	}})

	assert.Contains(t, out, "Device ID: 0781:5591")
	assert.Contains(t, out, "Manufacturer: SanDisk")
	assert.Contains(t, out, "Device Type: Mass Storage Device")
	assert.Contains(t, out, "Known As: Ultra (SanDisk Corp.)")
	assert.Contains(t, out, "Max Power: 224mA")
	assert.Contains(t, out, "Configuration 1:")
	assert.Contains(t, out, "Interface 0 (alt 0):")
	assert.Contains(t, out, "Endpoint 0x81: IN bulk, max packet 1024 bytes")
	assert.Contains(t, out, "OS: linux 6.8.0")
	assert.Contains(t, out, "Mounted at: /media/stick (vfat)")
	assert.Contains(t, out, "Total Space: 32.00 GB")
	assert.NotContains(t, out, "composite", "no composite warning for a plain stick")
}

func TestRenderMissingStringsFallBack(t *testing.T) {
	d := sampleDetails()
	d.Desc.Manufacturer = ""
	d.Desc.Serial = ""
	d.KnownAs = ""

	out := Render(d, "", nil)
	assert.Contains(t, out, "Manufacturer: Unknown")
	assert.Contains(t, out, "Serial Number: Unknown")
	assert.NotContains(t, out, "Known As:")
	assert.NotContains(t, out, "OS:")
}

func TestRenderCompositeWarning(t *testing.T) {
	d := sampleDetails()
	d.Composite = true

	out := Render(d, "", nil)
	assert.Contains(t, out, "both storage and HID interfaces")
}

func TestMatchMountsPrefersIDMatch(t *testing.T) {
	d := sampleDetails()
	mounts := []sysutil.MountedPartition{
		{Mountpoint: "/media/other", VendorID: "dead", ProductID: "beef"},
		{Mountpoint: "/media/mine", VendorID: "0781", ProductID: "5591"},
	}

	matched := matchMounts(d, mounts)
	require.Len(t, matched, 1)
	assert.Equal(t, "/media/mine", matched[0].Mountpoint)
}

// 非 Linux 平台拿不到分区的 VID/PID，退化为全部列出
func TestMatchMountsHeuristicFallback(t *testing.T) {
	d := sampleDetails()
	mounts := []sysutil.MountedPartition{
		{Mountpoint: "/Volumes/STICK"},
	}

	matched := matchMounts(d, mounts)
	require.Len(t, matched, 1)
	assert.Equal(t, "/Volumes/STICK", matched[0].Mountpoint)
}
