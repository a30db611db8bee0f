package backend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

// Enumerator 设备枚举后端
// Devices 返回当前在线设备的描述符快照。枚举失败必须返回
// ErrBackendUnavailable 而不是空列表，调用方要能区分"无设备"和"后端不可达"
type Enumerator interface {
	Devices() ([]model.Descriptor, error)
	Name() string
	Close() error
}

// 可选后端
const (
	KindAuto   = "auto"
	KindLibusb = "libusb"
	KindSysfs  = "sysfs"
)

// New 按名称选择后端
// auto 先探测 libusb（枚举一次确认可用），失败时在 Linux 上退回 sysfs
func New(kind string) (Enumerator, error) {
	switch kind {
	case KindLibusb:
		return newLibusbEnumerator()
	case KindSysfs:
		return newSysfsEnumerator()
	case KindAuto, "":
		enum, err := newLibusbEnumerator()
		if err == nil {
			if _, perr := enum.Devices(); perr == nil {
				return enum, nil
			} else {
				enum.Close()
				err = perr
			}
		}
		if fallback, ferr := newSysfsEnumerator(); ferr == nil {
			sysutil.Log.Warn("libusb unavailable, falling back to sysfs", zap.Error(err))
			return fallback, nil
		}
		return nil, err
	default:
		return nil, fmt.Errorf("unknown backend %q (want auto, libusb or sysfs)", kind)
	}
}
