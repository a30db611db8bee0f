//go:build !linux

package main

// 非 Linux 平台没有 /dev/bus/usb 可检查，不给额外提示
func diagnostics() []string {
	return nil
}
