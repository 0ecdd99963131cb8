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

package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmbridge/kmbridge/pkg/models"
)

func TestInferCapabilitiesColorFamily(t *testing.T) {
	caps := InferCapabilities("C654e", nil, true)

	assert.True(t, caps.Color)
	assert.True(t, caps.Duplex)
	assert.Equal(t, models.PaperA3, caps.MaxPaperSize)
	assert.Equal(t, 1200, caps.MaxDPI)
	assert.True(t, caps.Finisher)
	assert.True(t, caps.Stapler)
	assert.Contains(t, caps.Formats, "XPS")
	assert.True(t, caps.AuthenticationRequired)
}

func TestInferCapabilitiesMono(t *testing.T) {
	caps := InferCapabilities("2100", nil, false)

	assert.False(t, caps.Color)
	assert.Equal(t, models.PaperA4, caps.MaxPaperSize)
	assert.Equal(t, 600, caps.MaxDPI)
	assert.False(t, caps.Finisher)
	assert.False(t, caps.AuthenticationRequired)
}

func TestInferCapabilitiesUnknownModel(t *testing.T) {
	caps := InferCapabilities("C368", nil, false)

	// Unknown models keep the conservative office defaults.
	assert.True(t, caps.Color)
	assert.Equal(t, models.PaperA4, caps.MaxPaperSize)
	assert.Equal(t, []string{"PDF", "PS", "PCL"}, caps.Formats)
}

func TestInferCapabilitiesHints(t *testing.T) {
	hints := map[string]any{
		"rip_processing":   true,
		"color_management": true,
		"duplex":           false,
		"page_count":       42, // non-bool hints are ignored
	}

	caps := InferCapabilities("C759", hints, false)

	assert.True(t, caps.RIPProcessing)
	assert.True(t, caps.ColorManagement)
	assert.False(t, caps.Duplex)
}
