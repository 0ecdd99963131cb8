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

// Package config loads the bridge configuration from a YAML file and fills
// in defaults. The identification and credential tables live here so
// deployments can extend them without code changes.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kmbridge/kmbridge/pkg/logger"
)

// DiscoveryMode selects how the registry locates devices.
type DiscoveryMode string

const (
	// ModeAuto sweeps the configured network range.
	ModeAuto DiscoveryMode = "auto"
	// ModeFixed scans only the configured machine list.
	ModeFixed DiscoveryMode = "fixed"
)

// Machine is one entry of the fixed machine list. A configured password is
// applied to the device when discovery did not find one.
type Machine struct {
	Address  string `yaml:"address" json:"address"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
}

// SNMPTransport selects the SNMP client implementation.
type SNMPTransport string

const (
	// TransportExec shells out to the net-snmp command line tools.
	TransportExec SNMPTransport = "exec"
	// TransportNative uses an in-process SNMP stack.
	TransportNative SNMPTransport = "native"
)

type SNMPConfig struct {
	Community      string        `yaml:"community" json:"community"`
	Version        string        `yaml:"version" json:"version"`
	Transport      SNMPTransport `yaml:"transport" json:"transport"`
	TimeoutSeconds int           `yaml:"timeout_seconds" json:"timeout_seconds"`
	Retries        int           `yaml:"retries" json:"retries"`
}

type DiscoveryConfig struct {
	Mode     DiscoveryMode `yaml:"mode" json:"mode"`
	Network  string        `yaml:"network" json:"network"`
	Machines []Machine     `yaml:"machines,omitempty" json:"machines,omitempty"`

	// PingFirst enables the ICMP prefilter. Its failure never skips the
	// protocol probes; it only annotates reachability.
	PingFirst bool `yaml:"ping_first" json:"ping_first"`
}

// CredentialTable holds the administrative password candidates tried during
// discovery, most specific first.
type CredentialTable struct {
	Default []string            `yaml:"default" json:"default"`
	ByModel map[string][]string `yaml:"by_model" json:"by_model"`
}

// IdentifyConfig holds the vendor identification tables.
type IdentifyConfig struct {
	// VendorIdentifiers are matched case-insensitively against probe text.
	VendorIdentifiers []string `yaml:"vendor_identifiers" json:"vendor_identifiers"`

	// ControllerModels translates RIP controller product codes to the
	// printer models they front.
	ControllerModels map[string]string `yaml:"controller_models" json:"controller_models"`
}

type Config struct {
	Logging   logger.Config   `yaml:"logging" json:"logging"`
	Discovery DiscoveryConfig `yaml:"discovery" json:"discovery"`
	SNMP      SNMPConfig      `yaml:"snmp" json:"snmp"`

	Credentials CredentialTable `yaml:"credentials" json:"credentials"`
	Identify    IdentifyConfig  `yaml:"identify" json:"identify"`

	RefreshIntervalSeconds int `yaml:"refresh_interval_seconds" json:"refresh_interval_seconds"`
}

// Default returns the built-in configuration: the tables mirror the
// passwords and identifiers observed on fielded Konica Minolta units.
func Default() *Config {
	return &Config{
		Logging: logger.Config{Level: "info", Output: "stdout"},
		Discovery: DiscoveryConfig{
			Mode:      ModeAuto,
			Network:   "192.168.0.0/24",
			PingFirst: true,
		},
		SNMP: SNMPConfig{
			Community:      "public",
			Version:        "2c",
			Transport:      TransportExec,
			TimeoutSeconds: 5,
			Retries:        1,
		},
		Credentials: CredentialTable{
			Default: []string{
				"12345678",         // most common factory default
				"1234567812345678", // C654, C759
				"admin",
				"", // no password
			},
			ByModel: map[string][]string{
				"2100": {"12345678"},
				"754e": {"12345678"},
				"C654": {"1234567812345678"},
				"C759": {"1234567812345678"},
			},
		},
		Identify: IdentifyConfig{
			VendorIdentifiers: []string{
				"KONICA MINOLTA",
				"bizhub",
				"magicolor",
				"pagepro",
				"Fiery",
				"EFI",
			},
			ControllerModels: map[string]string{
				"IC-414": "C654e",
				"IC-417": "C759",
				"IC-418": "C754e",
			},
		},
		RefreshIntervalSeconds: 30,
	}
}

// Load reads the YAML file at path over the defaults. A missing path yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	return cfg, nil
}

// SNMPTimeout returns the configured SNMP timeout as a duration.
func (c *Config) SNMPTimeout() time.Duration {
	return time.Duration(c.SNMP.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the periodic refresh cadence.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}
