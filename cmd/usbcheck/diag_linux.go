//go:build linux

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// diagnostics 枚举失败时给出最常见病因的提示
// 绝大多数情况是 /dev/bus/usb 设备节点对当前用户不可读写
func diagnostics() []string {
	var hints []string

	if os.Geteuid() != 0 {
		hints = append(hints, "hint: not running as root, device nodes may be inaccessible")
	}

	const devRoot = "/dev/bus/usb"
	if _, err := os.Stat(devRoot); err != nil {
		hints = append(hints, fmt.Sprintf("hint: %s missing (%v), is usbfs mounted?", devRoot, err))
		return hints
	}

	buses, err := filepath.Glob(filepath.Join(devRoot, "*", "*"))
	if err != nil || len(buses) == 0 {
		hints = append(hints, fmt.Sprintf("hint: no device nodes under %s", devRoot))
		return hints
	}
	denied := 0
	for _, node := range buses {
		if unix.Access(node, unix.R_OK|unix.W_OK) != nil {
			denied++
		}
	}
	if denied > 0 {
		hints = append(hints, fmt.Sprintf(
			"hint: %d/%d device nodes under %s not read-writable, check udev rules or run as root",
			denied, len(buses), devRoot))
	}
	return hints
}
