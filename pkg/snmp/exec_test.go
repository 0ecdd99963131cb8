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

package snmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmbridge/kmbridge/pkg/models"
)

const sampleSystemWalk = `SNMPv2-MIB::sysDescr.0 = STRING: KONICA MINOLTA bizhub C654e
SNMPv2-MIB::sysObjectID.0 = OID: SNMPv2-SMI::enterprises.18334.1.1.1.2.1.6
DISMAN-EVENT-MIB::sysUpTimeInstance = Timeticks: (59462979) 6 days, 21:10:29.79
SNMPv2-MIB::sysContact.0 = STRING:
SNMPv2-MIB::sysName.0 = STRING: KM-PRINT-03
`

func TestParseSystemInfo(t *testing.T) {
	info := parseSystemInfo(sampleSystemWalk)

	assert.Equal(t, "KONICA MINOLTA bizhub C654e", info.Description)
	assert.Equal(t, "(59462979) 6 days, 21:10:29.79", info.Uptime)
	assert.Equal(t, "KM-PRINT-03", info.Name)
}

func TestParseSystemInfoEmpty(t *testing.T) {
	info := parseSystemInfo("")

	assert.Empty(t, info.Description)
	assert.Empty(t, info.Name)
}

func TestParsePrinterState(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want models.PrinterState
	}{
		{
			name: "idle",
			out:  "HOST-RESOURCES-MIB::hrDeviceStatus.1 = INTEGER: running(2)",
			want: models.PrinterIdle,
		},
		{
			name: "plain integer",
			out:  "HOST-RESOURCES-MIB::hrDeviceStatus.1 = INTEGER: 2",
			want: models.PrinterIdle,
		},
		{
			name: "printing",
			out:  "HOST-RESOURCES-MIB::hrDeviceStatus.1 = INTEGER: warning(3)",
			want: models.PrinterPrinting,
		},
		{
			name: "warmup",
			out:  "HOST-RESOURCES-MIB::hrDeviceStatus.1 = INTEGER: testing(4)",
			want: models.PrinterWarmup,
		},
		{
			name: "garbage",
			out:  "No Such Object available on this agent at this OID",
			want: models.PrinterUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePrinterState(tt.out))
		})
	}
}

func TestParsePagesPrinted(t *testing.T) {
	out := "Printer-MIB::prtMarkerLifeCount.1.1 = Counter32: 482193"

	pages := parsePagesPrinted(out)

	require.NotNil(t, pages)
	assert.Equal(t, 482193, *pages)
}

func TestParsePagesPrintedMissing(t *testing.T) {
	assert.Nil(t, parsePagesPrinted("No Such Instance currently exists at this OID"))
}

const sampleSupplyWalk = `Printer-MIB::prtMarkerSuppliesDescription.1.1 = STRING: Black Toner Supply
Printer-MIB::prtMarkerSuppliesLevel.1.1 = INTEGER: 62
Printer-MIB::prtMarkerSuppliesDescription.1.2 = STRING: Cyan Toner Supply
Printer-MIB::prtMarkerSuppliesLevel.1.2 = INTEGER: 41
Printer-MIB::prtMarkerSuppliesDescription.1.3 = STRING: Magenta Toner Supply
Printer-MIB::prtMarkerSuppliesLevel.1.3 = INTEGER: 88
Printer-MIB::prtMarkerSuppliesDescription.1.4 = STRING: Yellow Toner Supply
Printer-MIB::prtMarkerSuppliesLevel.1.4 = INTEGER: 17
Printer-MIB::prtMarkerSuppliesDescription.1.5 = STRING: Waste Toner Box
Printer-MIB::prtMarkerSuppliesLevel.1.5 = INTEGER: -3
`

func TestParseSupplyLevels(t *testing.T) {
	levels := parseSupplyLevels(sampleSupplyWalk)

	assert.Equal(t, map[string]int{
		"black":   62,
		"cyan":    41,
		"magenta": 88,
		"yellow":  17,
	}, levels)
}

func TestParseSupplyLevelsIgnoresOutOfRange(t *testing.T) {
	out := `Printer-MIB::prtMarkerSuppliesDescription.1.1 = STRING: Black Toner Supply
Printer-MIB::prtMarkerSuppliesLevel.1.1 = INTEGER: 240
`

	assert.Empty(t, parseSupplyLevels(out))
}

func TestSupplyColor(t *testing.T) {
	assert.Equal(t, "cyan", supplyColor("Cyan Toner Supply"))
	assert.Equal(t, "magenta", supplyColor("MAGENTA cartridge"))
	assert.Equal(t, "yellow", supplyColor("Yellow Toner"))
	assert.Equal(t, "black", supplyColor("Toner Supply"))
}
