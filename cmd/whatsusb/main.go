package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/gousb"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/7h3v01d/USB-Toolkit/internal/inspect"
	"github.com/7h3v01d/USB-Toolkit/internal/sysutil"
)

// whatsusb 交互式设备巡检：列出在线设备，选一台打印完整报告
func main() {
	fmt.Printf("WhatsUSB - USB Device Information Tool (%s)\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println("---------------------------------------------------")

	ctx, err := newUSBContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot reach USB backend: %v\n", err)
		os.Exit(1)
	}
	defer ctx.Close()

	// 全部打开：读字符串描述符和配置信息都需要设备句柄
	devices, err := ctx.OpenDevices(func(*gousb.DeviceDesc) bool { return true })
	defer func() {
		for _, dev := range devices {
			dev.Close()
		}
	}()
	if err != nil && len(devices) == 0 {
		fmt.Fprintf(os.Stderr, "Cannot reach USB backend: %v\n", err)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some devices could not be opened: %v\n", err)
	}
	if len(devices) == 0 {
		fmt.Println("No USB devices found.")
		os.Exit(1)
	}

	fmt.Println("\nConnected USB Devices:")
	for i, dev := range devices {
		fmt.Printf("%d. %s - %s (VendorID: %s, ProductID: %s)\n",
			i+1, deviceString(dev.Manufacturer), deviceString(dev.Product),
			dev.Desc.Vendor, dev.Desc.Product)
	}

	choice, ok := promptSelection(len(devices))
	if !ok {
		fmt.Println("Exiting...")
		return
	}
	selected := devices[choice-1]

	details := inspect.Collect(selected)
	fmt.Printf("\nDetailed Information for %s:\n", valueOr(details.Desc.Product, "Unknown Device"))
	fmt.Println("---------------------------------------------------")

	mounts, _ := sysutil.USBMounts()
	fmt.Print(inspect.Render(details, osLine(), mounts))
}

// newUSBContext gousb 在 libusb_init 失败时会 panic，转换为错误走干净的退出路径
func newUSBContext() (ctx *gousb.Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctx = nil
			err = fmt.Errorf("libusb init: %v", r)
		}
	}()
	return gousb.NewContext(), nil
}

// promptSelection 读一个 [1, n] 的编号，0 或 Ctrl-C/Ctrl-D 表示退出
// 输入不合法时重新提示
func promptSelection(n int) (int, bool) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\nSelect a device number to view details (or 0 to exit): ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read input: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return 0, false
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot read input: %v\n", err)
			os.Exit(1)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		if choice == 0 {
			return 0, false
		}
		if choice < 1 || choice > n {
			fmt.Println("Invalid selection.")
			continue
		}
		return choice, true
	}
}

func deviceString(read func() (string, error)) string {
	s, err := read()
	if err != nil || strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return strings.TrimSpace(s)
}

func osLine() string {
	info, err := host.Info()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s %s (kernel %s)", info.Platform, info.PlatformVersion, info.KernelVersion)
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
