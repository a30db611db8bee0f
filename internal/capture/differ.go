package capture

import (
	"github.com/7h3v01d/USB-Toolkit/internal/backend"
	"github.com/7h3v01d/USB-Toolkit/internal/model"
)

// KeySet 本次运行内已知的设备身份集合
// 只增不减：设备拔出不清除 key，重插后 Address 变化才会再次记录
type KeySet map[model.DeviceKey]struct{}

// NewKeySet 构造集合
func NewKeySet(keys ...model.DeviceKey) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has 是否已知
func (s KeySet) Has(k model.DeviceKey) bool {
	_, ok := s[k]
	return ok
}

func (s KeySet) clone() KeySet {
	out := make(KeySet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// PollOnce 执行一次 枚举→比对
// 相对输入是纯函数：不修改传入的 known，返回新发现的描述符（按枚举顺序）
// 和更新后的集合；持久化由调用方负责
// 枚举失败时返回 ErrBackendUnavailable（包装后），known 原样返回
func PollOnce(enum backend.Enumerator, known KeySet) ([]model.Descriptor, KeySet, error) {
	devices, err := enum.Devices()
	if err != nil {
		return nil, known, err
	}

	updated := known.clone()
	var fresh []model.Descriptor
	for _, d := range devices {
		key := d.Key()
		if updated.Has(key) {
			continue
		}
		updated[key] = struct{}{}
		fresh = append(fresh, d)
	}
	return fresh, updated, nil
}
