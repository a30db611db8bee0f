package capture

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
)

// Journal 握手日志：一个 JSON 数组文件，只追加不重排
// 单进程内的读-改-写视为原子；跨进程并发写不做保护（接受的限制）
type Journal struct {
	path string
}

// NewJournal 不触碰文件系统，文件不存在也合法
func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

// Path 日志文件路径
func (j *Journal) Path() string { return j.path }

// Load 读出全部已持久化的记录
// 文件不存在 → 空序列、无错误；存在但解析失败 → 空序列 + ErrPersistenceRead
// （fail open：调用方记警告后照常启动）
func (j *Journal) Load() ([]model.Descriptor, error) {
	raw, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}

	var records []model.Descriptor
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrPersistenceRead, err)
	}
	return records, nil
}

// Keys 日志中全部记录的身份集合，用于启动时播种已知集
// 返回的 error 与 Load 同义，非致命
func (j *Journal) Keys() (KeySet, error) {
	records, err := j.Load()
	keys := make(KeySet, len(records))
	for _, d := range records {
		keys[d.Key()] = struct{}{}
	}
	return keys, err
}

// Append 读-改-写整个数组：现有记录原序保留，新记录追加在尾部
// 现有内容损坏时降级为空序列（会被本次写入替换）
// 写失败返回 ErrPersistenceWrite，文件句柄保证在返回前关闭
func (j *Journal) Append(descriptors []model.Descriptor) error {
	if len(descriptors) == 0 {
		return nil
	}

	existing, _ := j.Load()
	merged := append(existing, descriptors...)

	// 缩进 4 空格，保持和历史文件一样的排版
	raw, err := json.MarshalIndent(merged, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	raw = append(raw, '\n')

	f, err := os.OpenFile(j.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, err)
	}
	_, werr := f.Write(raw)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, werr)
	}
	if cerr != nil {
		return fmt.Errorf("%w: %v", model.ErrPersistenceWrite, cerr)
	}
	return nil
}
