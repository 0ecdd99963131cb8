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

// Package snmp queries printers over SNMP. Two transports implement the
// same Client interface: an external net-snmp process and an in-process
// stack, so probes and adapters never depend on which one is wired.
package snmp

import (
	"context"
	"time"

	"github.com/kmbridge/kmbridge/pkg/config"
	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
)

// Standard system and Printer-MIB OIDs.
const (
	OIDSystem       = "1.3.6.1.2.1.1"
	OIDSysDescr     = "1.3.6.1.2.1.1.1.0"
	OIDSysUptime    = "1.3.6.1.2.1.1.3.0"
	OIDSysName      = "1.3.6.1.2.1.1.5.0"
	OIDPrinterState = "1.3.6.1.2.1.25.3.2.1.5.1"
	OIDPagesPrinted = "1.3.6.1.2.1.43.10.2.1.4.1.1"
	OIDSupplyTable  = "1.3.6.1.2.1.43.11.1.1"
)

// SystemInfo is the device identity block from the system OID subtree.
type SystemInfo struct {
	Description string
	Uptime      string
	Name        string
}

// PrinterStatus is the engine state plus the lifetime page counter.
type PrinterStatus struct {
	State        models.PrinterState
	PagesPrinted *int
}

// Client is the SNMP query surface used by probes and adapters.
type Client interface {
	// SystemInfo walks the system subtree of the given host.
	SystemInfo(ctx context.Context, host string) (SystemInfo, error)

	// PrinterStatus reads the Printer-MIB engine state and page counter.
	PrinterStatus(ctx context.Context, host string) (PrinterStatus, error)

	// SupplyLevels reads toner levels as percentages keyed by color.
	SupplyLevels(ctx context.Context, host string) (map[string]int, error)
}

// NewClient builds the transport selected by the configuration.
func NewClient(cfg config.SNMPConfig, log logger.Logger) Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	if cfg.Transport == config.TransportNative {
		return NewNativeClient(cfg.Community, timeout, cfg.Retries, log)
	}

	return NewExecClient(cfg.Community, cfg.Version, timeout, log)
}
