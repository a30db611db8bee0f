package capture

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
)

func tempJournal(t *testing.T) *Journal {
	t.Helper()
	return NewJournal(filepath.Join(t.TempDir(), "usb_handshake.json"))
}

func TestJournalMissingFileIsEmpty(t *testing.T) {
	j := tempJournal(t)

	records, err := j.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	keys, err := j.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

// 损坏的日志 fail open：空集合 + 可识别的读错误，绝不让启动失败
func TestJournalCorruptFailsOpen(t *testing.T) {
	j := tempJournal(t)
	require.NoError(t, os.WriteFile(j.Path(), []byte("{not json"), 0644))

	records, err := j.Load()
	assert.True(t, errors.Is(err, model.ErrPersistenceRead))
	assert.Empty(t, records)

	keys, err := j.Keys()
	assert.True(t, errors.Is(err, model.ErrPersistenceRead))
	assert.Empty(t, keys)
}

func TestJournalAppendToEmptyArray(t *testing.T) {
	j := tempJournal(t)
	require.NoError(t, os.WriteFile(j.Path(), []byte("[]"), 0644))

	d := dev(0x1234, 0x5678, 1, 2)
	require.NoError(t, j.Append([]model.Descriptor{d}))

	records, err := j.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, d.Key(), records[0].Key())
}

// 追加只增不减：原有记录保持原序，新记录排在尾部
func TestJournalMonotonicGrowth(t *testing.T) {
	j := tempJournal(t)

	first := dev(0x1111, 0x0001, 1, 2)
	second := dev(0x2222, 0x0002, 1, 3)
	third := dev(0x3333, 0x0003, 2, 2)

	require.NoError(t, j.Append([]model.Descriptor{first}))
	require.NoError(t, j.Append([]model.Descriptor{second, third}))

	records, err := j.Load()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, first.Key(), records[0].Key())
	assert.Equal(t, second.Key(), records[1].Key())
	assert.Equal(t, third.Key(), records[2].Key())
}

// 损坏的旧内容被本次写入替换，不会让追加失败
func TestJournalAppendOverCorrupt(t *testing.T) {
	j := tempJournal(t)
	require.NoError(t, os.WriteFile(j.Path(), []byte("garbage"), 0644))

	d := dev(0x1234, 0x5678, 1, 2)
	require.NoError(t, j.Append([]model.Descriptor{d}))

	records, err := j.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestJournalAppendNothingIsNoop(t *testing.T) {
	j := tempJournal(t)
	require.NoError(t, j.Append(nil))

	_, err := os.Stat(j.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "empty append must not create the file")
}

func TestJournalWriteError(t *testing.T) {
	dir := t.TempDir()
	// 路径指向目录，打开必然失败
	j := NewJournal(dir)

	err := j.Append([]model.Descriptor{dev(0x1234, 0x5678, 1, 2)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrPersistenceWrite))
}

func TestJournalKeysSeedKnownSet(t *testing.T) {
	j := tempJournal(t)
	a := dev(0x1234, 0x5678, 1, 2)
	b := dev(0x0bda, 0x8153, 1, 3)
	require.NoError(t, j.Append([]model.Descriptor{a, b}))

	keys, err := j.Keys()
	require.NoError(t, err)
	assert.True(t, keys.Has(a.Key()))
	assert.True(t, keys.Has(b.Key()))
	assert.Len(t, keys, 2)
}
