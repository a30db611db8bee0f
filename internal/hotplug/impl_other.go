//go:build !linux

package hotplug

import (
	"fmt"

	"github.com/7h3v01d/USB-Toolkit/internal/model"
)

type stubNotifier struct{}

func newNotifier() Notifier {
	return stubNotifier{}
}

func (stubNotifier) Start() (<-chan model.HotplugEvent, error) {
	return nil, fmt.Errorf("%w: udev hotplug requires linux", model.ErrUnsupported)
}

func (stubNotifier) Stop() {}
