package hotplug

import "github.com/7h3v01d/USB-Toolkit/internal/model"

// Notifier 热插拔事件订阅
// 事件只作为提前轮询的调度提示，捕获语义完全由轮询循环负责，
// 丢事件无害（最多等到下一个 tick）
type Notifier interface {
	Start() (<-chan model.HotplugEvent, error)
	Stop()
}

func New() Notifier {
	return newNotifier()
}
