package main

import (
	"fmt"
	"os"

	"github.com/7h3v01d/USB-Toolkit/internal/backend"
)

// usbcheck USB 连通性自检：能初始化后端并枚举到总线就算通过
// 纯 stdout 工具，不走结构化日志
func main() {
	enum, err := backend.New(backend.KindAuto)
	if err != nil {
		fail(err)
	}
	defer enum.Close()

	devices, err := enum.Devices()
	if err != nil {
		fail(err)
	}

	if len(devices) == 0 {
		fmt.Println("No USB devices found.")
	}
	for _, d := range devices {
		fmt.Printf("Device: %s\n", d.ID())
	}
	fmt.Printf("OK: backend %q reachable, %d device(s) enumerated\n", enum.Name(), len(devices))
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "USB backend unavailable: %v\n", err)
	for _, hint := range diagnostics() {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(1)
}
