package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Filter 捕获忽略规则，按 VID:PID 精确匹配
// 典型用途是把根集线器（1d6b:0002 等）排除在握手日志之外
type Filter struct {
	rules map[[2]uint16]struct{}
}

// ParseFilter 解析逗号分隔的 "vvvv:pppp" 列表，空串返回空过滤器
func ParseFilter(spec string) (*Filter, error) {
	f := &Filter{rules: make(map[[2]uint16]struct{})}
	if strings.TrimSpace(spec) == "" {
		return f, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		vid, pid, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("bad ignore rule %q: want vvvv:pppp", part)
		}
		v, err := strconv.ParseUint(vid, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("bad vendor id in ignore rule %q: %w", part, err)
		}
		p, err := strconv.ParseUint(pid, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("bad product id in ignore rule %q: %w", part, err)
		}
		f.rules[[2]uint16{uint16(v), uint16(p)}] = struct{}{}
	}
	return f, nil
}

// Ignored 判断设备是否命中忽略规则
func (f *Filter) Ignored(d Descriptor) bool {
	if f == nil || len(f.rules) == 0 {
		return false
	}
	_, hit := f.rules[[2]uint16{d.VendorID, d.ProductID}]
	return hit
}

// Len 规则条数
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.rules)
}
