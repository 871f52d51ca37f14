// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halbridge

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// FromProvider returns the HAL device behind a host application's device
// provider. The provider must implement HalDevice() any returning a
// hal.Device.
func FromProvider(provider gpucontext.DeviceProvider) (hal.Device, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	dev, ok := hp.HalDevice().(hal.Device)
	if !ok || dev == nil {
		return nil, ErrNoHAL
	}
	return dev, nil
}
