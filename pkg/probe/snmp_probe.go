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

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/snmp"
)

// SNMPProbe identifies a device by its SNMP system description.
type SNMPProbe struct {
	client snmp.Client
	ident  *Identifier
	logger zerolog.Logger
}

func NewSNMPProbe(client snmp.Client, ident *Identifier, log logger.Logger) *SNMPProbe {
	return &SNMPProbe{
		client: client,
		ident:  ident,
		logger: log.With().Str("component", "snmp_probe").Logger(),
	}
}

// Probe reads the system subtree and matches the description and name
// against the vendor tables. Query failures yield an unmatched result.
func (p *SNMPProbe) Probe(ctx context.Context, address string) models.ProbeResult {
	info, err := p.client.SystemInfo(ctx, address)
	if err != nil {
		p.logger.Debug().Err(err).Str("address", address).Msg("snmp probe failed")
		return models.ProbeResult{}
	}

	text := info.Description + " " + info.Name

	snippet, matched := p.ident.MatchVendor(text)
	if !matched {
		return models.ProbeResult{
			Raw: map[string]string{"description": info.Description},
		}
	}

	return models.ProbeResult{
		Matched: true,
		Model:   p.ident.ExtractModel(text),
		Context: snippet,
		Raw: map[string]string{
			"description": info.Description,
			"name":        info.Name,
			"uptime":      info.Uptime,
		},
	}
}
