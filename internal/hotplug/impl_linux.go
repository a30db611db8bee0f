//go:build linux

package hotplug

import (
	"strings"
	"time"

	"github.com/pilebones/go-udev/netlink"
	"go.uber.org/zap"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

type linuxNotifier struct {
	events chan model.HotplugEvent
	stop   chan struct{}
}

func newNotifier() Notifier {
	return &linuxNotifier{
		events: make(chan model.HotplugEvent, 10),
		stop:   make(chan struct{}),
	}
}

func (n *linuxNotifier) Start() (<-chan model.HotplugEvent, error) {
	// 连接 NETLINK_KOBJECT_UEVENT 监听 UDEV 事件
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, err
	}

	queue := make(chan netlink.UEvent)
	errChan := make(chan error)
	quit := conn.Monitor(queue, errChan, nil)

	go func() {
		defer conn.Close()
		for {
			select {
			case <-n.stop:
				close(quit)
				return

			case err := <-errChan:
				// 底层 netlink 抖动不致命，记一笔继续收
				sysutil.Log.Debug("udev monitor error", zap.Error(err))
				continue

			case uevent := <-queue:
				n.handleUdevEvent(uevent)
			}
		}
	}()
	return n.events, nil
}

func (n *linuxNotifier) Stop() {
	close(n.stop)
}

// handleUdevEvent 只关心 usb_device 级别的插拔
// 接口(usb_interface)和块设备事件对轮询唤醒没有增量信息，全部丢弃
func (n *linuxNotifier) handleUdevEvent(uevent netlink.UEvent) {
	if uevent.Env["SUBSYSTEM"] != "usb" || uevent.Env["DEVTYPE"] != "usb_device" {
		return
	}
	action := string(uevent.Action)
	if action != "add" && action != "remove" {
		return
	}

	// PRODUCT 形如 "1d6b/2/515"（vid/pid/bcdDevice，十六进制不补零）
	vid, pid := splitProduct(uevent.Env["PRODUCT"])
	ev := model.HotplugEvent{
		Action:    action,
		VendorID:  vid,
		ProductID: pid,
		Bus:       uevent.Env["BUSNUM"],
		Address:   uevent.Env["DEVNUM"],
		DevPath:   uevent.Env["DEVPATH"],
		TimeStamp: time.Now(),
	}

	select {
	case n.events <- ev:
	default:
		// 消费方还没回到 select，丢弃即可，下一个 tick 会兜底
		sysutil.Log.Debug("hotplug event dropped", zap.String("devpath", ev.DevPath))
	}
}

func splitProduct(product string) (vid, pid string) {
	parts := strings.SplitN(product, "/", 3)
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return "", ""
}
