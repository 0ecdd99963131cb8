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

// Package adapter gives every device family a uniform operation surface.
// The factory picks the protocol stack per device type: SNMP plus raw
// printing for the monochrome units, the web console for the embedded
// controllers, and the Fiery client for RIP-fronted engines.
package adapter

import (
	"context"

	"github.com/kmbridge/kmbridge/pkg/models"
)

// DeviceAdapter is the uniform operation surface over one device. Methods
// a family cannot serve return ErrUnsupportedOperation rather than guessing.
type DeviceAdapter interface {
	// Device returns the device this adapter is bound to.
	Device() *models.Device

	// Authenticate establishes an authenticated session where the device
	// needs one. Families without authentication report success.
	Authenticate(ctx context.Context) bool

	// Status collects the normalized status report.
	Status(ctx context.Context) (*models.StatusReport, error)

	// Capabilities returns the static capability record for the device.
	Capabilities() models.Capabilities

	// Print submits a job over the family's preferred transport.
	Print(ctx context.Context, job *models.PrintJob) (*models.PrintOutcome, error)

	// TestConnection runs the family's diagnostic checks. Individual check
	// failures land in the report, not in an error.
	TestConnection(ctx context.Context) *models.DiagnosticReport

	// JobStatus reports on a previously submitted job.
	JobStatus(ctx context.Context, jobID string) (models.JobState, error)

	// CancelJob cancels a previously submitted job.
	CancelJob(ctx context.Context, jobID string) (bool, error)

	// Queue describes the device's print queue.
	Queue(ctx context.Context) (models.QueueStatus, error)
}

// unsupportedOps supplies the defaults for job tracking operations most
// families cannot serve. Embedding adapters override what they support.
type unsupportedOps struct{}

func (unsupportedOps) JobStatus(_ context.Context, _ string) (models.JobState, error) {
	return models.JobState{}, ErrUnsupportedOperation
}

func (unsupportedOps) CancelJob(_ context.Context, _ string) (bool, error) {
	return false, ErrUnsupportedOperation
}

func (unsupportedOps) Queue(_ context.Context) (models.QueueStatus, error) {
	return models.QueueStatus{}, ErrUnsupportedOperation
}
