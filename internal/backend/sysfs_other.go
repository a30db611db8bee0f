//go:build !linux

package backend

import (
	"fmt"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
)

func newSysfsEnumerator() (Enumerator, error) {
	return nil, fmt.Errorf("%w: sysfs backend requires linux", model.ErrBackendUnavailable)
}
