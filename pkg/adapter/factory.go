/*
 * Copyright 2026 KMBridge Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package adapter

import (
	"fmt"
	"sync"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/snmp"
)

// Factory builds and caches one adapter per device. Cached adapters keep
// their authenticated sessions across calls.
type Factory struct {
	snmp   snmp.Client
	logger logger.Logger

	mu    sync.Mutex
	cache map[string]DeviceAdapter
}

func NewFactory(client snmp.Client, log logger.Logger) *Factory {
	return &Factory{
		snmp:   client,
		logger: log,
		cache:  make(map[string]DeviceAdapter),
	}
}

// Adapter returns the cached adapter for the device, building one on first
// use. Devices of an unmapped type get ErrUnsupportedDeviceType.
func (f *Factory) Adapter(device *models.Device) (DeviceAdapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cached, ok := f.cache[device.ID]; ok {
		return cached, nil
	}

	built, err := f.build(device)
	if err != nil {
		return nil, err
	}

	f.cache[device.ID] = built

	return built, nil
}

func (f *Factory) build(device *models.Device) (DeviceAdapter, error) {
	switch device.Type {
	case models.TypeC654e:
		return NewConsoleAdapter(device, f.snmp, f.logger), nil
	case models.TypeC759, models.TypeC754e:
		return NewRIPAdapter(device, f.logger), nil
	case models.TypeKM2100:
		return NewSNMPAdapter(device, f.snmp, f.logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDeviceType, device.Type)
	}
}

// Evict drops the cached adapter for a device so the next request builds a
// fresh one. Called when a device is removed or its credentials change.
func (f *Factory) Evict(deviceID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.cache, deviceID)
}
