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

// Package probe implements single-protocol identification attempts against
// one address. Probes never return errors for transport failures; an
// unreachable or foreign device is simply an unmatched result.
package probe

import (
	"regexp"
	"strings"

	"github.com/kmbridge/kmbridge/pkg/models"
)

// contextRadius bounds the snippet captured around a vendor identifier hit.
const contextRadius = 120

// modelPatterns extract a model token from identification text. Order
// matters: the first match wins, and controller product codes are handled
// separately before these run.
var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bizhub\s+(C?\d+[a-zA-Z]*)`),
	regexp.MustCompile(`(?i)magicolor\s+(\d+)`),
	regexp.MustCompile(`(?i)pagepro\s+(\d+)`),
	regexp.MustCompile(`(?i)AccurioPrint\s+(\d+)`),
	regexp.MustCompile(`(?i)KONICA\s+MINOLTA\s+(C?\d+[a-zA-Z]*)`),
}

// controllerPattern matches RIP controller product codes such as IC-414.
var controllerPattern = regexp.MustCompile(`(?i)\b(IC-\d+)\b`)

// Identifier matches vendor identification text against the configured
// tables. It is shared by all protocol probes.
type Identifier struct {
	vendors     []string
	controllers map[string]string
}

func NewIdentifier(vendors []string, controllers map[string]string) *Identifier {
	return &Identifier{
		vendors:     vendors,
		controllers: controllers,
	}
}

// MatchVendor scans text case-insensitively for any vendor identifier and
// returns the snippet surrounding the first hit.
func (i *Identifier) MatchVendor(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, id := range i.vendors {
		idx := strings.Index(lower, strings.ToLower(id))
		if idx < 0 {
			continue
		}

		start := idx - contextRadius
		if start < 0 {
			start = 0
		}

		end := idx + len(id) + contextRadius
		if end > len(text) {
			end = len(text)
		}

		return strings.TrimSpace(text[start:end]), true
	}

	return "", false
}

// ExtractModel pulls a printer model out of identification text. Controller
// product codes are translated through the configured table first, since a
// RIP controller reports its own code rather than the engine it fronts.
func (i *Identifier) ExtractModel(text string) string {
	if m := controllerPattern.FindStringSubmatch(text); m != nil {
		code := strings.ToUpper(m[1])

		for key, model := range i.controllers {
			if strings.EqualFold(key, code) {
				return model
			}
		}
	}

	for _, pattern := range modelPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}

	return ""
}

// InferDeviceType maps a model string to its behavioral type. Unmapped
// models stay unknown; the record-to-device conversion applies the color
// family fallback for confirmed devices.
func InferDeviceType(model string) models.DeviceType {
	if model == "" {
		return models.TypeUnknown
	}

	upper := strings.ToUpper(model)

	switch {
	case strings.Contains(upper, "C654E"):
		return models.TypeC654e
	case strings.Contains(upper, "C759"):
		return models.TypeC759
	case strings.Contains(upper, "C754E"):
		return models.TypeC754e
	case strings.Contains(upper, "2100"):
		return models.TypeKM2100
	}

	if strings.HasPrefix(upper, "C") {
		for _, family := range []string{"654", "754", "759"} {
			if strings.Contains(upper, family) {
				return models.TypeC654e
			}
		}
	}

	return models.TypeUnknown
}
