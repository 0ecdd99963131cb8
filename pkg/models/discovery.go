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

// ProbeResult is the outcome of a single-protocol identification attempt
// against one address. Transport failures are reported as Matched=false,
// never as errors.
type ProbeResult struct {
	Matched bool `json:"matched"`

	// Model extracted from the matched text, when the probe could infer one.
	Model string `json:"model,omitempty"`

	// Context is the snippet surrounding the vendor identifier hit, kept
	// for model extraction and diagnostics.
	Context string `json:"context,omitempty"`

	// Raw per-protocol findings (SNMP fields, HTTP status, endpoint list).
	Raw map[string]string `json:"raw,omitempty"`

	// CapabilityHints carries protocol-reported capability fragments that
	// the scanner blends with model defaults.
	CapabilityHints map[string]any `json:"capability_hints,omitempty"`
}

// DiscoveryRecord is the transient per-address scan result. It is produced
// by the scanner, consumed once by the registry to build or update a Device,
// then discarded.
type DiscoveryRecord struct {
	Address   string `json:"address"`
	Reachable bool   `json:"reachable"`

	// Confirmed is set when at least one probe identified the vendor.
	Confirmed bool `json:"confirmed"`

	Model string     `json:"model,omitempty"`
	Type  DeviceType `json:"type,omitempty"`

	SNMP    ProbeResult `json:"snmp"`
	Console ProbeResult `json:"console"`
	RIP     ProbeResult `json:"rip"`

	// RIPPresent is set when the RIP probe found a controller, even if the
	// controller did not report a model.
	RIPPresent bool `json:"rip_present"`

	AdminPassword string       `json:"-"`
	Capabilities  Capabilities `json:"capabilities"`
}

// Device converts a confirmed record into a fresh Device entity. Status is
// left at the offline default: health is established by refresh, not by
// discovery.
func (r *DiscoveryRecord) Device(community string) *Device {
	typ := r.Type
	if typ == TypeUnknown && r.Confirmed {
		// Confirmed vendor but unmapped model: the color family is the
		// closest behavioral match for every unit seen in the field.
		typ = TypeC654e
	}

	return &Device{
		ID:            DeviceID(r.Model, r.Address),
		Name:          DeviceName(r.Model),
		Type:          typ,
		Address:       r.Address,
		Status:        StatusOffline,
		AdminPassword: r.AdminPassword,
		Capabilities:  r.Capabilities,
		SNMPCommunity: community,
		WebPort:       DefaultWebPort,
		RawPrintPort:  DefaultRawPrintPort,
	}
}
