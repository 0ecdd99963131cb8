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
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/rip"
)

// RIPAdapter drives engines fronted by an EFI Fiery controller. All
// traffic goes through the controller: it hides the engine's own console
// and SNMP identity.
type RIPAdapter struct {
	device *models.Device
	client *rip.Client
	logger zerolog.Logger

	mu     sync.Mutex
	detect *rip.DetectResult
}

var _ DeviceAdapter = (*RIPAdapter)(nil)

func NewRIPAdapter(device *models.Device, log logger.Logger) *RIPAdapter {
	return &RIPAdapter{
		device: device,
		client: rip.NewClient(device.Address, "admin", device.AdminPassword, log),
		logger: log.With().Str("component", "rip_adapter").Str("device_id", device.ID).Logger(),
	}
}

func (a *RIPAdapter) Device() *models.Device { return a.device }

func (a *RIPAdapter) Capabilities() models.Capabilities {
	return CapabilitiesFor(a.device)
}

func (a *RIPAdapter) Authenticate(ctx context.Context) bool {
	return a.client.Authenticate(ctx)
}

// detection runs controller detection once and caches the result for the
// adapter's lifetime.
func (a *RIPAdapter) detection(ctx context.Context) rip.DetectResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.detect == nil {
		result := a.client.Detect(ctx)
		a.detect = &result
	}

	return *a.detect
}

func (a *RIPAdapter) Status(ctx context.Context) (*models.StatusReport, error) {
	report := &models.StatusReport{
		DeviceID:      a.device.ID,
		State:         models.PrinterUnknown,
		RIPController: true,
		CollectedAt:   time.Now(),
	}

	detect := a.detection(ctx)
	if !detect.Present {
		return report, fmt.Errorf("status query failed for %s: controller unreachable: %w", a.device.ID, ErrDeviceNotReady)
	}

	report.Reachable = true
	report.RIPType = detect.Kind
	report.RIPVersion = detect.Version

	status := a.client.Status(ctx)

	report.Ready = status.Ready
	report.JobsPending = status.JobsPending

	switch {
	case status.Status == "error":
		report.Ready = false
	case status.Ready:
		report.State = models.PrinterIdle
	default:
		report.State = models.PrinterPrinting
	}

	return report, nil
}

func (a *RIPAdapter) Print(ctx context.Context, job *models.PrintJob) (*models.PrintOutcome, error) {
	ensureJobID(job)

	payload, filename, err := jobPayload(job)
	if err != nil {
		return nil, err
	}

	fields := fieryJobFields(job.Settings)

	a.logger.Info().Str("job_id", job.ID).Str("title", job.Title).Msg("submitting job to controller")

	submission, err := a.client.SubmitJob(ctx, filename, payload, fields)
	if err != nil {
		return nil, fmt.Errorf("controller rejected job %s: %w", job.ID, err)
	}

	return &models.PrintOutcome{
		Submitted:        true,
		SubmissionID:     submission.JobID,
		Method:           models.PrintMethodRIP,
		BytesSent:        len(payload),
		Message:          fmt.Sprintf("job submitted to controller on %s", a.device.Name),
		EstimatedSeconds: estimateRIPSeconds(job.Settings),
	}, nil
}

func (a *RIPAdapter) TestConnection(ctx context.Context) *models.DiagnosticReport {
	report := &models.DiagnosticReport{
		DeviceID: a.device.ID,
		Checks:   make(map[string]models.CheckResult),
	}

	detect := a.detection(ctx)
	if !detect.Present {
		report.Checks["controller"] = models.CheckResult{
			Status:  models.CheckError,
			Message: "device does not appear to have a RIP controller",
		}

		return report
	}

	report.Checks["controller"] = models.CheckResult{
		Status:  models.CheckPass,
		Message: fmt.Sprintf("controller detected (%s %s)", detect.Kind, detect.Version),
	}

	auth := models.CheckResult{Status: models.CheckFail, Message: "controller authentication failed"}
	if a.client.Authenticate(ctx) {
		auth = models.CheckResult{Status: models.CheckPass, Message: "controller authentication successful"}
	}

	report.Checks["authentication"] = auth

	status := a.client.Status(ctx)

	result := models.CheckResult{
		Status:  models.CheckFail,
		Message: fmt.Sprintf("controller status: %s", status.Status),
	}

	if status.Ready {
		result.Status = models.CheckPass
	}

	report.Checks["controller_status"] = result

	return report
}

// JobStatus reports controller-side jobs as processing: the submission
// endpoints acknowledge but do not expose per-job progress.
func (a *RIPAdapter) JobStatus(_ context.Context, jobID string) (models.JobState, error) {
	return models.JobState{
		JobID:   jobID,
		State:   "processing",
		Message: "job tracking is available on the controller workstation",
	}, nil
}

func (a *RIPAdapter) CancelJob(_ context.Context, jobID string) (bool, error) {
	a.logger.Warn().Str("job_id", jobID).Msg("controller job cancellation not supported")

	return false, ErrUnsupportedOperation
}

func (a *RIPAdapter) Queue(ctx context.Context) (models.QueueStatus, error) {
	status := a.client.Status(ctx)

	return models.QueueStatus{Length: status.JobsPending}, nil
}

// fieryJobFields translates print settings into the controller's job
// ticket fields.
func fieryJobFields(settings models.PrintSettings) map[string]string {
	fields := map[string]string{
		"hold_queue":       "false",
		"color_management": "auto",
		"rip_priority":     "normal",
	}

	if settings.Copies > 0 {
		fields["copies"] = strconv.Itoa(settings.Copies)
	}

	if settings.Duplex != "" && settings.Duplex != models.DuplexSimplex {
		fields["duplex"] = "DuplexTumble"
	}

	if settings.ColorMode == models.ColorModeColor {
		fields["color"] = "Color"
	} else if settings.ColorMode != "" {
		fields["color"] = "Grayscale"
	}

	if settings.PaperSize != "" {
		fields["media"] = string(settings.PaperSize)
	}

	switch settings.Quality {
	case models.QualityDraft:
		fields["quality"] = "Draft"
	case models.QualityHigh:
		fields["quality"] = "Best"
	case models.QualityNormal:
		fields["quality"] = "Normal"
	}

	return fields
}

// estimateRIPSeconds guesses processing time for the controller's RIP
// stage. The numbers are field observations, not promises.
func estimateRIPSeconds(settings models.PrintSettings) int {
	seconds := 30

	if settings.Copies > 0 {
		seconds += settings.Copies * 5
	}

	if settings.ColorMode == models.ColorModeColor {
		seconds += 15
	}

	if settings.Quality == models.QualityHigh {
		seconds += 20
	}

	return seconds
}
