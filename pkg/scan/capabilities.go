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
	"strings"

	"github.com/kmbridge/kmbridge/pkg/models"
)

// InferCapabilities builds the discovery-time capability record for a
// device: model-family defaults first, then any protocol-reported hints
// layered on top.
func InferCapabilities(model string, hints map[string]any, hasPassword bool) models.Capabilities {
	caps := models.Capabilities{
		Color:                  true,
		Duplex:                 true,
		MaxPaperSize:           models.PaperA4,
		Formats:                []string{"PDF", "PS", "PCL"},
		AuthenticationRequired: hasPassword,
	}

	upper := strings.ToUpper(model)

	switch {
	case containsAny(upper, "C654", "C754", "C759"):
		caps.MaxPaperSize = models.PaperA3
		caps.MaxDPI = 1200
		caps.Finisher = true
		caps.Stapler = true
		caps.Formats = []string{"PDF", "PS", "PCL", "XPS"}
	case strings.Contains(upper, "2100"):
		caps.Color = false
		caps.MaxDPI = 600
	}

	applyHints(&caps, hints)

	return caps
}

func applyHints(caps *models.Capabilities, hints map[string]any) {
	for key, value := range hints {
		flag, ok := value.(bool)
		if !ok {
			continue
		}

		switch key {
		case "rip_processing":
			caps.RIPProcessing = flag
		case "color_management":
			caps.ColorManagement = flag
		case "finisher":
			caps.Finisher = flag
		case "duplex":
			caps.Duplex = flag
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
