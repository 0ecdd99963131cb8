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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ModeAuto, cfg.Discovery.Mode)
	assert.Equal(t, "192.168.0.0/24", cfg.Discovery.Network)
	assert.True(t, cfg.Discovery.PingFirst)

	assert.Equal(t, "public", cfg.SNMP.Community)
	assert.Equal(t, "2c", cfg.SNMP.Version)
	assert.Equal(t, TransportExec, cfg.SNMP.Transport)

	// Candidate order matters: discovery stops at the first accepted one.
	assert.Equal(t, []string{"12345678", "1234567812345678", "admin", ""}, cfg.Credentials.Default)
	assert.Equal(t, []string{"1234567812345678"}, cfg.Credentials.ByModel["C654"])

	assert.Contains(t, cfg.Identify.VendorIdentifiers, "KONICA MINOLTA")
	assert.Equal(t, "C654e", cfg.Identify.ControllerModels["IC-414"])
	assert.Equal(t, "C759", cfg.Identify.ControllerModels["IC-417"])
	assert.Equal(t, "C754e", cfg.Identify.ControllerModels["IC-418"])

	assert.Equal(t, 30, cfg.RefreshIntervalSeconds)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	data := `
discovery:
  mode: fixed
  machines:
    - address: 192.168.0.111
      password: secret
snmp:
  transport: native
  community: internal
refresh_interval_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeFixed, cfg.Discovery.Mode)
	require.Len(t, cfg.Discovery.Machines, 1)
	assert.Equal(t, "192.168.0.111", cfg.Discovery.Machines[0].Address)
	assert.Equal(t, "secret", cfg.Discovery.Machines[0].Password)

	assert.Equal(t, TransportNative, cfg.SNMP.Transport)
	assert.Equal(t, "internal", cfg.SNMP.Community)

	// Untouched sections keep their defaults.
	assert.Equal(t, "2c", cfg.SNMP.Version)
	assert.Contains(t, cfg.Identify.VendorIdentifiers, "bizhub")

	assert.Equal(t, 60*time.Second, cfg.RefreshInterval())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("discovery: [not a mapping"), 0o600))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestDurations(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5*time.Second, cfg.SNMPTimeout())
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval())
}
