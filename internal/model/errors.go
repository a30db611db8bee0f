package model

import "errors"

// 错误分类，调用方用 errors.Is 区分处理策略：
// 读日志失败降级为空集合（fail open），写失败只影响本轮持久化，
// 枚举失败由监控循环决定重试还是退出
var (
	// ErrBackendUnavailable 枚举调用无法到达 USB 子系统（缺驱动/后端、权限不足）
	ErrBackendUnavailable = errors.New("usb backend unavailable")

	// ErrPersistenceRead 日志文件存在但无法解析
	ErrPersistenceRead = errors.New("handshake journal unreadable")

	// ErrPersistenceWrite 日志文件无法写入（磁盘满、权限不足）
	ErrPersistenceWrite = errors.New("handshake journal write failed")

	// ErrDeviceQuery 单个设备的扩展字段读取失败（如字符串描述符无权限）
	ErrDeviceQuery = errors.New("device query degraded")

	// ErrUnsupported 当前平台不支持该功能（如非 Linux 的热插拔订阅）
	ErrUnsupported = errors.New("not supported on this platform")
)
