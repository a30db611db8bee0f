//go:build linux

package hotplug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitProduct(t *testing.T) {
	tests := []struct {
		product string
		wantVID string
		wantPID string
	}{
		{"1d6b/2/515", "1d6b", "2"},
		{"46d/c52b/1210", "46d", "c52b"},
		{"1d6b/2", "1d6b", "2"},
		{"1d6b", "", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		vid, pid := splitProduct(tt.product)
		assert.Equal(t, tt.wantVID, vid, "product %q", tt.product)
		assert.Equal(t, tt.wantPID, pid, "product %q", tt.product)
	}
}
