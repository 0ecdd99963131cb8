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

// Package models defines the shared data types for device discovery,
// registry state and adapter operations.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DeviceType identifies one of the supported printer models.
type DeviceType string

const (
	TypeUnknown DeviceType = ""
	TypeC654e   DeviceType = "C654e"
	TypeC759    DeviceType = "C759"
	TypeC754e   DeviceType = "C754e"
	TypeKM2100  DeviceType = "2100"
)

// DeviceStatus is the registry-owned health state of a device.
type DeviceStatus string

const (
	StatusOnline      DeviceStatus = "online"
	StatusOffline     DeviceStatus = "offline"
	StatusBusy        DeviceStatus = "busy"
	StatusError       DeviceStatus = "error"
	StatusMaintenance DeviceStatus = "maintenance"
)

// Capabilities describes what a device can do. Per-model values come from
// the adapter capability table; discovery fills in a provisional set.
type Capabilities struct {
	Color        bool     `json:"color" yaml:"color"`
	Duplex       bool     `json:"duplex" yaml:"duplex"`
	MaxPaperSize PaperSize `json:"max_paper_size" yaml:"max_paper_size"`
	MaxDPI       int      `json:"max_dpi" yaml:"max_dpi"`
	Formats      []string `json:"formats" yaml:"formats"`

	Finisher  bool `json:"finisher" yaml:"finisher"`
	Stapler   bool `json:"stapler" yaml:"stapler"`
	HolePunch bool `json:"hole_punch" yaml:"hole_punch"`

	Booklet           bool `json:"booklet,omitempty" yaml:"booklet,omitempty"`
	LargeCapacityTray bool `json:"large_capacity_tray,omitempty" yaml:"large_capacity_tray,omitempty"`
	BypassTray        bool `json:"bypass_tray,omitempty" yaml:"bypass_tray,omitempty"`
	EnvelopePrinting  bool `json:"envelope_printing,omitempty" yaml:"envelope_printing,omitempty"`

	// Set for units fronted by a RIP controller.
	RIPProcessing   bool `json:"rip_processing,omitempty" yaml:"rip_processing,omitempty"`
	ColorManagement bool `json:"color_management,omitempty" yaml:"color_management,omitempty"`

	AuthenticationRequired bool `json:"authentication_required" yaml:"authentication_required"`
}

// Device is the registry-owned record of one printer or controller unit.
// Status, LastSeen and LastError are mutated only through the registry.
type Device struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Type    DeviceType   `json:"type"`
	Address string       `json:"address"`
	Status  DeviceStatus `json:"status"`

	AdminPassword string `json:"-"`

	Capabilities Capabilities `json:"capabilities"`

	LastSeen  *time.Time `json:"last_seen,omitempty"`
	LastError string     `json:"last_error,omitempty"`

	FirmwareVersion string         `json:"firmware_version,omitempty"`
	SerialNumber    string         `json:"serial_number,omitempty"`
	PageCount       *int           `json:"page_count,omitempty"`
	TonerLevels     map[string]int `json:"toner_levels,omitempty"`
	PaperLevels     map[string]int `json:"paper_levels,omitempty"`

	SNMPCommunity string `json:"snmp_community,omitempty"`
	WebPort       int    `json:"web_port"`
	RawPrintPort  int    `json:"raw_print_port"`
}

const (
	DefaultWebPort      = 80
	DefaultRawPrintPort = 9100
)

// DeviceID derives the deterministic identifier for a model/address pair.
// Rediscovery of the same unit always yields the same ID.
func DeviceID(model, address string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	if m == "" {
		m = "unknown"
	}

	return fmt.Sprintf("km-%s-%s", m, strings.ReplaceAll(address, ".", "-"))
}

// DeviceName builds the display name for a discovered unit.
func DeviceName(model string) string {
	if model == "" {
		return "Konica Minolta Device"
	}

	return "Konica Minolta " + model
}
