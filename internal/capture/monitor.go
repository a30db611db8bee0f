package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/7h3v01d/USB-Toolkit/internal/backend"
	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

// Config 监控循环参数
type Config struct {
	// Interval 轮询周期，零值取 1s（和原始工具一致）
	Interval time.Duration

	// MaxBackendFailures 连续枚举失败多少次后放弃；0 = 永远重试
	MaxBackendFailures int

	// Filter 命中的设备不写入日志（key 仍然记住，保证比对幂等）
	Filter *model.Filter

	// Wake 热插拔事件通道，可为 nil
	// "add" 触发立即轮询而不等下一个 tick；"remove" 只记日志
	Wake <-chan model.HotplugEvent

	// Clock 单测注入 mock 用，nil 取真实时钟
	Clock clock.Clock
}

// Monitor 串起 轮询→比对→持久化 的单线程循环
// 同一进程内不会有两次 PollOnce 并发执行
type Monitor struct {
	enum    backend.Enumerator
	journal *Journal
	cfg     Config

	known    KeySet
	failures int
}

func NewMonitor(enum backend.Enumerator, journal *Journal, cfg Config) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Monitor{enum: enum, journal: journal, cfg: cfg}
}

// Run 阻塞运行直到 ctx 取消（返回 nil）或连续失败达到上限（返回错误）
// 启动时从日志播种已知集，日志损坏降级为空集
func (m *Monitor) Run(ctx context.Context) error {
	keys, err := m.journal.Keys()
	if err != nil {
		sysutil.Log.Warn("handshake journal unreadable, starting with empty known set",
			zap.String("path", m.journal.Path()), zap.Error(err))
	}
	m.known = keys
	sysutil.Log.Info("monitoring usb ports",
		zap.String("journal", m.journal.Path()),
		zap.String("backend", m.enum.Name()),
		zap.Duration("interval", m.cfg.Interval),
		zap.Int("known_devices", len(m.known)))

	// 启动先轮询一次，随后按周期走
	if err := m.tick(); err != nil {
		return err
	}

	ticker := m.cfg.Clock.Ticker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if err := m.tick(); err != nil {
				return err
			}

		case ev, ok := <-m.cfg.Wake:
			if !ok {
				m.cfg.Wake = nil
				continue
			}
			switch ev.Action {
			case "add":
				sysutil.Log.Info("✅ hotplug add, polling now",
					zap.String("devpath", ev.DevPath),
					zap.String("vid", ev.VendorID),
					zap.String("pid", ev.ProductID))
				if err := m.tick(); err != nil {
					return err
				}
			case "remove":
				sysutil.Log.Info("❌ hotplug remove", zap.String("devpath", ev.DevPath))
			}
		}
	}
}

// tick 一次 枚举→比对→持久化
// 枚举失败按重试策略处理；写失败记错误但不中断循环，
// 本轮设备仅在内存中已知，下次进程启动会重新上报
func (m *Monitor) tick() error {
	fresh, updated, err := PollOnce(m.enum, m.known)
	if err != nil {
		m.failures++
		sysutil.Log.Warn("enumeration failed",
			zap.Int("consecutive", m.failures), zap.Error(err))
		if m.cfg.MaxBackendFailures > 0 && m.failures >= m.cfg.MaxBackendFailures {
			return fmt.Errorf("giving up after %d consecutive enumeration failures: %w",
				m.failures, err)
		}
		return nil
	}
	m.failures = 0
	m.known = updated

	loggable := fresh[:0:0]
	for _, d := range fresh {
		if m.cfg.Filter.Ignored(d) {
			sysutil.Log.Debug("new device ignored by filter", zap.String("device", d.Key().String()))
			continue
		}
		loggable = append(loggable, d)
	}
	if len(loggable) == 0 {
		return nil
	}

	for _, d := range loggable {
		sysutil.Log.Info("📥 new usb device detected",
			zap.String("device", d.Key().String()),
			zap.String("manufacturer", d.Manufacturer),
			zap.String("product", d.Product),
			zap.String("class", d.Class))
	}
	if err := m.journal.Append(loggable); err != nil {
		sysutil.Log.Error("failed to persist handshake journal",
			zap.String("path", m.journal.Path()), zap.Error(err))
	}
	return nil
}
