package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/7h3v01d/USB-Toolkit/internal/backend"
	"github.com/7h3v01d/USB-Toolkit/internal/capture"
	"github.com/7h3v01d/USB-Toolkit/internal/hotplug"
	"github.com/7h3v01d/USB-Toolkit/internal/model"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

func main() {
	journalPath := flag.String("log", "usb_handshake.json", "handshake journal path")
	interval := flag.Duration("interval", time.Second, "poll interval")
	backendKind := flag.String("backend", backend.KindAuto, "enumeration backend: auto, libusb or sysfs")
	maxFailures := flag.Int("max-backend-failures", 0, "consecutive enumeration failures before aborting, 0 retries forever")
	ignore := flag.String("ignore", "", "comma-separated vvvv:pppp pairs to exclude from capture")
	useHotplug := flag.Bool("hotplug", false, "linux only: subscribe to udev events to poll immediately on plug-in")
	flag.Parse()

	// 初始化日志
	sysutil.InitLogger()
	defer sysutil.Log.Sync()

	sysutil.Log.Info("🛡️ USB Capture Agent Starting...")

	filter, err := model.ParseFilter(*ignore)
	if err != nil {
		sysutil.Log.Fatal("Bad -ignore flag", zap.Error(err))
	}
	if filter.Len() > 0 {
		sysutil.Log.Info("capture filter active", zap.Int("rules", filter.Len()))
	}

	enum, err := backend.New(*backendKind)
	if err != nil {
		sysutil.Log.Fatal("Backend init failed", zap.Error(err))
	}
	defer enum.Close()

	journal := capture.NewJournal(*journalPath)

	// 热插拔只是调度提示，订阅失败降级为纯轮询
	var wake <-chan model.HotplugEvent
	if *useHotplug {
		notifier := hotplug.New()
		ch, err := notifier.Start()
		if err != nil {
			sysutil.Log.Warn("hotplug subscription unavailable, polling only", zap.Error(err))
		} else {
			wake = ch
			defer notifier.Stop()
		}
	}

	// 捕获操作系统信号，信号到来时取消监控循环
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mon := capture.NewMonitor(enum, journal, capture.Config{
		Interval:           *interval,
		MaxBackendFailures: *maxFailures,
		Filter:             filter,
		Wake:               wake,
	})
	if err := mon.Run(ctx); err != nil {
		sysutil.Log.Error("Monitor aborted", zap.Error(err))
		sysutil.Log.Sync()
		os.Exit(1)
	}
	sysutil.Log.Info("Shutting down...")
}
