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

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceID(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		address string
		want    string
	}{
		{"model and address", "C654e", "192.168.0.100", "km-c654e-192-168-0-100"},
		{"uppercase model lowered", "C759", "10.0.0.5", "km-c759-10-0-0-5"},
		{"empty model", "", "192.168.0.100", "km-unknown-192-168-0-100"},
		{"whitespace model", "  ", "192.168.0.100", "km-unknown-192-168-0-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeviceID(tt.model, tt.address))
		})
	}
}

func TestDeviceIDDeterministic(t *testing.T) {
	assert.Equal(t, DeviceID("2100", "192.168.0.50"), DeviceID("2100", "192.168.0.50"))
}

func TestDeviceName(t *testing.T) {
	assert.Equal(t, "Konica Minolta C654e", DeviceName("C654e"))
	assert.Equal(t, "Konica Minolta Device", DeviceName(""))
}

func TestDiscoveryRecordDevice(t *testing.T) {
	record := DiscoveryRecord{
		Address:       "192.168.0.100",
		Confirmed:     true,
		Model:         "C654e",
		Type:          TypeC654e,
		AdminPassword: "1234567812345678",
		Capabilities:  Capabilities{Color: true, MaxPaperSize: PaperA3},
	}

	device := record.Device("public")

	assert.Equal(t, "km-c654e-192-168-0-100", device.ID)
	assert.Equal(t, "Konica Minolta C654e", device.Name)
	assert.Equal(t, TypeC654e, device.Type)
	assert.Equal(t, StatusOffline, device.Status)
	assert.Equal(t, "1234567812345678", device.AdminPassword)
	assert.Equal(t, "public", device.SNMPCommunity)
	assert.Equal(t, DefaultWebPort, device.WebPort)
	assert.Equal(t, DefaultRawPrintPort, device.RawPrintPort)
	assert.Equal(t, PaperA3, device.Capabilities.MaxPaperSize)
}

func TestDiscoveryRecordDeviceTypeFallback(t *testing.T) {
	record := DiscoveryRecord{
		Address:   "192.168.0.101",
		Confirmed: true,
		Model:     "C368",
	}

	// Confirmed vendor with an unmapped model lands in the color family.
	assert.Equal(t, TypeC654e, record.Device("public").Type)
}

func TestDiscoveryRecordDeviceUnconfirmed(t *testing.T) {
	record := DiscoveryRecord{Address: "192.168.0.102"}

	assert.Equal(t, TypeUnknown, record.Device("public").Type)
}
