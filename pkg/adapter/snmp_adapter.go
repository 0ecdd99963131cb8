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

package adapter

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/snmp"
)

// SNMPAdapter drives the older monochrome units. They carry no web console
// worth speaking to: status comes over SNMP and jobs go straight to the
// raw print port.
type SNMPAdapter struct {
	unsupportedOps

	device *models.Device
	snmp   snmp.Client
	logger zerolog.Logger
}

var _ DeviceAdapter = (*SNMPAdapter)(nil)

func NewSNMPAdapter(device *models.Device, client snmp.Client, log logger.Logger) *SNMPAdapter {
	return &SNMPAdapter{
		device: device,
		snmp:   client,
		logger: log.With().Str("component", "snmp_adapter").Str("device_id", device.ID).Logger(),
	}
}

func (a *SNMPAdapter) Device() *models.Device { return a.device }

// Authenticate always succeeds: these units have no session concept.
func (a *SNMPAdapter) Authenticate(_ context.Context) bool { return true }

func (a *SNMPAdapter) Capabilities() models.Capabilities {
	return CapabilitiesFor(a.device)
}

func (a *SNMPAdapter) Status(ctx context.Context) (*models.StatusReport, error) {
	report := &models.StatusReport{
		DeviceID:    a.device.ID,
		State:       models.PrinterUnknown,
		CollectedAt: time.Now(),
	}

	info, err := a.snmp.SystemInfo(ctx, a.device.Address)
	if err != nil {
		return report, fmt.Errorf("status query failed for %s: %w", a.device.ID, err)
	}

	report.Reachable = true
	report.FirmwareVersion = info.Description

	if status, statusErr := a.snmp.PrinterStatus(ctx, a.device.Address); statusErr == nil {
		report.State = status.State
		report.PagesPrinted = status.PagesPrinted
		report.Ready = status.State == models.PrinterIdle
	}

	if levels, levelsErr := a.snmp.SupplyLevels(ctx, a.device.Address); levelsErr == nil && len(levels) > 0 {
		report.TonerLevels = levels
	}

	return report, nil
}

func (a *SNMPAdapter) Print(ctx context.Context, job *models.PrintJob) (*models.PrintOutcome, error) {
	ensureJobID(job)

	payload, _, err := jobPayload(job)
	if err != nil {
		return nil, err
	}

	a.logger.Info().Str("job_id", job.ID).Int("bytes", len(payload)).Msg("submitting raw print job")

	sent, err := sendRaw(ctx, a.device.Address, a.device.RawPrintPort, payload)
	if err != nil {
		return nil, err
	}

	return &models.PrintOutcome{
		Submitted: true,
		Method:    models.PrintMethodRaw,
		BytesSent: sent,
		Message:   fmt.Sprintf("print job %s sent to device", job.ID),
	}, nil
}

func (a *SNMPAdapter) TestConnection(ctx context.Context) *models.DiagnosticReport {
	report := &models.DiagnosticReport{
		DeviceID: a.device.ID,
		Checks:   make(map[string]models.CheckResult),
	}

	if info, err := a.snmp.SystemInfo(ctx, a.device.Address); err != nil {
		report.Checks["snmp"] = models.CheckResult{Status: models.CheckFail, Message: err.Error()}
	} else {
		report.Checks["snmp"] = models.CheckResult{
			Status:  models.CheckPass,
			Message: "snmp responding: " + info.Description,
		}
	}

	port := a.device.RawPrintPort
	if port == 0 {
		port = models.DefaultRawPrintPort
	}

	dialer := &net.Dialer{Timeout: rawDialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(a.device.Address, strconv.Itoa(port)))
	if err != nil {
		report.Checks["direct_print"] = models.CheckResult{Status: models.CheckFail, Message: err.Error()}
	} else {
		conn.Close()

		report.Checks["direct_print"] = models.CheckResult{
			Status:  models.CheckPass,
			Message: "raw print port accessible",
		}
	}

	return report
}
