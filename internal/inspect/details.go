package inspect

import (
	"sort"
	"strings"
	"time"

	"github.com/google/gousb"
	"github.com/google/gousb/usbid"
	"go.uber.org/zap"

	"github.com/7h3v01d/USB-Toolkit/internal/backend"
	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

// Endpoint 报告里的端点一行
type Endpoint struct {
	Address       string // "0x81"
	Direction     string // "IN" / "OUT"
	Transfer      string // "control" / "isochronous" / "bulk" / "interrupt"
	MaxPacketSize int
}

// Interface 接口（按 alternate setting 展开）
type Interface struct {
	Number    int
	Alternate int
	Class     string
	SubClass  uint8
	Protocol  uint8
	Endpoints []Endpoint
}

// Configuration 配置描述符摘要
type Configuration struct {
	Number      int
	MaxPowerMA  int
	SelfPowered bool
	Interfaces  []Interface
}

// Details 单台设备的完整巡检结果
type Details struct {
	Desc         model.Descriptor
	ClassDisplay string
	DeviceType   string
	Composite    bool
	KnownAs      string // usbid 数据库里的厂商/产品名
	Configs      []Configuration
}

// Collect 汇总一台已打开设备的全部报告素材
// 字符串描述符读不到就留空，不中断巡检
func Collect(dev *gousb.Device) Details {
	desc := dev.Desc
	d := backend.DescriptorFromDesc(desc, time.Now())
	fillDeviceStrings(&d, dev)

	var ifaceClasses []uint8
	var configs []Configuration

	nums := make([]int, 0, len(desc.Configs))
	for num := range desc.Configs {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		cfg := desc.Configs[num]
		out := Configuration{
			Number:      cfg.Number,
			MaxPowerMA:  int(cfg.MaxPower),
			SelfPowered: cfg.SelfPowered,
		}
		for _, iface := range cfg.Interfaces {
			for _, alt := range iface.AltSettings {
				ifaceClasses = append(ifaceClasses, uint8(alt.Class))
				out.Interfaces = append(out.Interfaces, collectInterface(alt))
			}
		}
		configs = append(configs, out)
	}

	return Details{
		Desc:         d,
		ClassDisplay: DisplayClassName(uint8(desc.Class)),
		DeviceType:   Classify(uint8(desc.Class), ifaceClasses),
		Composite:    Composite(ifaceClasses),
		KnownAs:      strings.TrimSpace(usbid.Describe(desc)),
		Configs:      configs,
	}
}

func collectInterface(alt gousb.InterfaceSetting) Interface {
	out := Interface{
		Number:    alt.Number,
		Alternate: alt.Alternate,
		Class:     DisplayClassName(uint8(alt.Class)),
		SubClass:  uint8(alt.SubClass),
		Protocol:  uint8(alt.Protocol),
	}
	for _, ep := range alt.Endpoints {
		dir := "OUT"
		if ep.Direction == gousb.EndpointDirectionIn {
			dir = "IN"
		}
		out.Endpoints = append(out.Endpoints, Endpoint{
			Address:       ep.Address.String(),
			Direction:     dir,
			Transfer:      ep.TransferType.String(),
			MaxPacketSize: ep.MaxPacketSize,
		})
	}
	sort.Slice(out.Endpoints, func(i, j int) bool {
		return out.Endpoints[i].Address < out.Endpoints[j].Address
	})
	return out
}

func fillDeviceStrings(d *model.Descriptor, dev *gousb.Device) {
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
		sysutil.Log.Debug("string descriptor degraded during inspection",
			zap.String("device", d.Key().String()), zap.Error(degraded))
	}
}
