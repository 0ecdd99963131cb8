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

import "github.com/kmbridge/kmbridge/pkg/models"

// capabilityTable holds the per-family capability records. Differences
// between families are data, not adapter subtypes.
var capabilityTable = map[models.DeviceType]models.Capabilities{
	models.TypeC654e: {
		Color:        true,
		Duplex:       true,
		MaxPaperSize: models.PaperA3,
		MaxDPI:       1200,
		Formats:      []string{"PDF", "PS", "PCL", "TEXT"},
		Stapler:      true,
		HolePunch:    true,
	},
	models.TypeC754e: {
		Color:            true,
		Duplex:           true,
		MaxPaperSize:     models.PaperA3,
		MaxDPI:           1800,
		Formats:          []string{"PDF", "PS", "PCL", "TIFF", "JPEG"},
		Finisher:         true,
		Stapler:          true,
		BypassTray:       true,
		EnvelopePrinting: true,
		RIPProcessing:    true,
		ColorManagement:  true,
	},
	models.TypeC759: {
		Color:             true,
		Duplex:            true,
		MaxPaperSize:      models.PaperA3Plus,
		MaxDPI:            1800,
		Formats:           []string{"PDF", "PS", "PCL", "TIFF", "JPEG"},
		Finisher:          true,
		Stapler:           true,
		HolePunch:         true,
		Booklet:           true,
		LargeCapacityTray: true,
		RIPProcessing:     true,
		ColorManagement:   true,
	},
	models.TypeKM2100: {
		Color:        false,
		Duplex:       true,
		MaxPaperSize: models.PaperA4,
		MaxDPI:       600,
		Formats:      []string{"PCL", "PS", "TEXT"},
	},
}

// CapabilitiesFor returns the family capability record for a device,
// stamped with its authentication requirement. Unknown types fall back to
// the color family record.
func CapabilitiesFor(device *models.Device) models.Capabilities {
	caps, ok := capabilityTable[device.Type]
	if !ok {
		caps = capabilityTable[models.TypeC654e]
	}

	caps.AuthenticationRequired = device.AdminPassword != ""

	return caps
}
