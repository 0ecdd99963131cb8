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

import "time"

// PrinterState is the engine state reported over SNMP or by a controller.
type PrinterState string

const (
	PrinterIdle     PrinterState = "idle"
	PrinterPrinting PrinterState = "printing"
	PrinterWarmup   PrinterState = "warmup"
	PrinterUnknown  PrinterState = "unknown"
)

// StatusReport is the normalized status record every adapter returns,
// whatever protocol or payload shape the device actually spoke.
type StatusReport struct {
	DeviceID  string       `json:"device_id"`
	Reachable bool         `json:"reachable"`
	Ready     bool         `json:"ready"`
	State     PrinterState `json:"state"`

	PagesPrinted *int           `json:"pages_printed,omitempty"`
	TonerLevels  map[string]int `json:"toner_levels,omitempty"`
	PaperLevels  map[string]int `json:"paper_levels,omitempty"`

	FirmwareVersion string `json:"firmware_version,omitempty"`

	// Controller-reported fields, present only for RIP-fronted units.
	RIPController bool   `json:"rip_controller,omitempty"`
	RIPType       string `json:"rip_type,omitempty"`
	RIPVersion    string `json:"rip_version,omitempty"`
	JobsPending   int    `json:"jobs_pending,omitempty"`

	CollectedAt time.Time `json:"collected_at"`
}

// CheckResult is one named diagnostic outcome inside a DiagnosticReport.
type CheckResult struct {
	Status  string `json:"status"` // pass, fail or error
	Message string `json:"message"`
}

const (
	CheckPass  = "pass"
	CheckFail  = "fail"
	CheckError = "error"
)

// DiagnosticReport is the result of an adapter connection test.
type DiagnosticReport struct {
	DeviceID string                 `json:"device_id"`
	Checks   map[string]CheckResult `json:"checks"`
}

// JobState reports a controller-side job's progress.
type JobState struct {
	JobID   string `json:"job_id"`
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

// QueueStatus describes a device's print queue. Adapters without queue
// visibility return the zero value.
type QueueStatus struct {
	Length     int        `json:"length"`
	CurrentJob string     `json:"current_job,omitempty"`
	Jobs       []JobState `json:"jobs,omitempty"`
}
