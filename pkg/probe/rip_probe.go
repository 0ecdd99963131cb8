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

package probe

import (
	"context"
	"strings"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/rip"
)

// RIPProbe detects an EFI Fiery RIP controller fronting a print engine.
// It runs unauthenticated; credentials only matter once the device is
// registered.
type RIPProbe struct {
	ident  *Identifier
	logger logger.Logger
}

func NewRIPProbe(ident *Identifier, log logger.Logger) *RIPProbe {
	return &RIPProbe{
		ident:  ident,
		logger: log,
	}
}

// Probe runs controller detection against the address. A present controller
// counts as a vendor match: Fiery units front Konica Minolta engines in
// this fleet. The engine model is resolved from the controller product code
// when the controller reported one.
func (p *RIPProbe) Probe(ctx context.Context, address string) models.ProbeResult {
	client := rip.NewClient(address, "", "", p.logger)

	detect := client.Detect(ctx)
	if !detect.Present {
		return models.ProbeResult{}
	}

	model := ""
	if detect.Model != "" {
		model = p.ident.ExtractModel(detect.Model)
		if model == "" {
			model = detect.Model
		}
	}

	result := models.ProbeResult{
		Matched: true,
		Model:   model,
		Context: detect.Kind,
		Raw: map[string]string{
			"kind":      detect.Kind,
			"version":   detect.Version,
			"endpoints": strings.Join(detect.Endpoints, ","),
		},
		CapabilityHints: map[string]any{
			"rip_processing":   true,
			"color_management": true,
		},
	}

	return result
}
