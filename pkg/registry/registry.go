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

// Package registry owns the device inventory: discovery feeds it, refresh
// keeps its health current, and every operational request resolves devices
// through it.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/adapter"
	"github.com/kmbridge/kmbridge/pkg/config"
	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/scan"
)

const gateTimeout = 5 * time.Second

// Statistics summarizes the fleet's health.
type Statistics struct {
	Total               int     `json:"total_devices"`
	Online              int     `json:"online_count"`
	Offline             int     `json:"offline_count"`
	Error               int     `json:"error_count"`
	Busy                int     `json:"busy_count"`
	AvailabilityPercent float64 `json:"availability_percent"`
}

// Registry is the authoritative device inventory.
type Registry struct {
	cfg     *config.Config
	scanner *scan.Scanner
	factory *adapter.Factory
	http    *http.Client
	logger  zerolog.Logger

	mu      sync.RWMutex
	devices map[string]*models.Device
}

func New(cfg *config.Config, scanner *scan.Scanner, factory *adapter.Factory, log logger.Logger) *Registry {
	return &Registry{
		cfg:     cfg,
		scanner: scanner,
		factory: factory,
		http:    &http.Client{Timeout: gateTimeout},
		logger:  log.With().Str("component", "registry").Logger(),
		devices: make(map[string]*models.Device),
	}
}

// Discover runs the configured discovery mode and merges the results into
// the inventory. Known devices are never replaced wholesale; only missing
// credentials are backfilled.
func (r *Registry) Discover(ctx context.Context) ([]*models.Device, error) {
	var (
		records []models.DiscoveryRecord
		err     error
	)

	switch r.cfg.Discovery.Mode {
	case config.ModeFixed:
		records, err = r.discoverFixed(ctx)
	default:
		records, err = r.scanner.Sweep(ctx, r.cfg.Discovery.Network)
	}

	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}

	discovered := make([]*models.Device, 0, len(records))

	for i := range records {
		discovered = append(discovered, records[i].Device(r.cfg.SNMP.Community))
	}

	if r.cfg.Discovery.Mode == config.ModeFixed {
		r.applyConfiguredPasswords(discovered)
	}

	r.merge(discovered)

	return discovered, nil
}

func (r *Registry) discoverFixed(ctx context.Context) ([]models.DiscoveryRecord, error) {
	addrs := make([]string, 0, len(r.cfg.Discovery.Machines))

	for _, machine := range r.cfg.Discovery.Machines {
		addrs = append(addrs, machine.Address)
	}

	if len(addrs) == 0 {
		r.logger.Warn().Msg("fixed discovery mode with no machines configured")
		return nil, nil
	}

	return r.scanner.Targeted(ctx, addrs)
}

// applyConfiguredPasswords overrides discovered credentials with the ones
// the operator pinned in the machine list.
func (r *Registry) applyConfiguredPasswords(devices []*models.Device) {
	for _, device := range devices {
		for _, machine := range r.cfg.Discovery.Machines {
			if machine.Address == device.Address && machine.Password != "" {
				device.AdminPassword = machine.Password
			}
		}
	}
}

func (r *Registry) merge(discovered []*models.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0

	for _, device := range discovered {
		existing, known := r.devices[device.ID]
		if !known {
			r.devices[device.ID] = device
			added++

			r.logger.Info().
				Str("device_id", device.ID).
				Str("address", device.Address).
				Msg("device added")

			continue
		}

		if device.AdminPassword != "" && existing.AdminPassword == "" {
			existing.AdminPassword = device.AdminPassword

			// The cached adapter was built without credentials.
			r.factory.Evict(existing.ID)

			r.logger.Info().Str("device_id", existing.ID).Msg("admin credential backfilled")
		}
	}

	r.logger.Info().Int("added", added).Int("discovered", len(discovered)).Msg("discovery merge complete")
}

// Get returns the device with the given ID.
func (r *Registry) Get(deviceID string) (*models.Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	device, ok := r.devices[deviceID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, deviceID)
	}

	return device, nil
}

// List returns every registered device.
func (r *Registry) List() []*models.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]*models.Device, 0, len(r.devices))
	for _, device := range r.devices {
		devices = append(devices, device)
	}

	return devices
}

// Online returns the devices currently reported online.
func (r *Registry) Online() []*models.Device {
	return r.byStatus(models.StatusOnline)
}

// Available returns the devices that can accept print jobs now.
func (r *Registry) Available() []*models.Device {
	return r.byStatus(models.StatusOnline)
}

func (r *Registry) byStatus(status models.DeviceStatus) []*models.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*models.Device

	for _, device := range r.devices {
		if device.Status == status {
			matched = append(matched, device)
		}
	}

	return matched
}

// Add registers a device directly, bypassing discovery.
func (r *Registry) Add(device *models.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.devices[device.ID] = device

	r.logger.Info().Str("device_id", device.ID).Str("address", device.Address).Msg("device added manually")
}

// Remove drops a device and its cached adapter. Returns false for unknown
// IDs.
func (r *Registry) Remove(deviceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[deviceID]; !ok {
		return false
	}

	delete(r.devices, deviceID)
	r.factory.Evict(deviceID)

	r.logger.Info().Str("device_id", deviceID).Msg("device removed")

	return true
}

// RefreshAll refreshes every device. One device's failure never blocks the
// others; errors land on the device record.
func (r *Registry) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup

	for _, device := range r.List() {
		wg.Add(1)

		go func(deviceID string) {
			defer wg.Done()

			if _, err := r.Refresh(ctx, deviceID); err != nil {
				r.logger.Debug().Err(err).Str("device_id", deviceID).Msg("refresh failed")
			}
		}(device.ID)
	}

	wg.Wait()
}

// Refresh re-establishes one device's health. The HTTP gate decides
// reachability first; only reachable devices get the full adapter status
// collection. Adapter errors become device state, not refresh failures.
func (r *Registry) Refresh(ctx context.Context, deviceID string) (*models.Device, error) {
	device, err := r.Get(deviceID)
	if err != nil {
		return nil, err
	}

	if !r.gate(ctx, device) {
		r.setOffline(device, "device not reachable")
		return device, nil
	}

	deviceAdapter, err := r.factory.Adapter(device)
	if err != nil {
		r.setError(device, err)
		return device, nil
	}

	report, err := deviceAdapter.Status(ctx)
	if err != nil {
		r.setError(device, err)
		return device, nil
	}

	r.applyReport(device, report)

	return device, nil
}

// gate checks basic HTTP reachability. 401 counts as reachable: the device
// is up, it just wants credentials.
func (r *Registry) gate(ctx context.Context, device *models.Device) bool {
	port := device.WebPort
	if port == 0 {
		port = models.DefaultWebPort
	}

	url := fmt.Sprintf("http://%s:%d", device.Address, port)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return false
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusMovedPermanently, http.StatusFound, http.StatusUnauthorized:
		return true
	default:
		return false
	}
}

func (r *Registry) setOffline(device *models.Device, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device.Status = models.StatusOffline
	device.LastError = message

	r.logger.Warn().Str("device_id", device.ID).Msg("device offline")
}

func (r *Registry) setError(device *models.Device, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	device.Status = models.StatusError
	device.LastError = err.Error()

	r.logger.Error().Err(err).Str("device_id", device.ID).Msg("device refresh error")
}

func (r *Registry) applyReport(device *models.Device, report *models.StatusReport) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	device.Status = models.StatusOnline
	device.LastSeen = &now
	device.LastError = ""

	if len(report.TonerLevels) > 0 {
		device.TonerLevels = report.TonerLevels
	}

	if len(report.PaperLevels) > 0 {
		device.PaperLevels = report.PaperLevels
	}

	if report.PagesPrinted != nil {
		device.PageCount = report.PagesPrinted
	}

	if report.FirmwareVersion != "" {
		device.FirmwareVersion = report.FirmwareVersion
	}
}

// TestConnection runs the full diagnostic ladder for one device: the HTTP
// gate first, then the adapter's own checks.
func (r *Registry) TestConnection(ctx context.Context, deviceID string) (*models.DiagnosticReport, error) {
	device, err := r.Get(deviceID)
	if err != nil {
		return nil, err
	}

	report := &models.DiagnosticReport{
		DeviceID: deviceID,
		Checks:   make(map[string]models.CheckResult),
	}

	if r.gate(ctx, device) {
		report.Checks["http_connectivity"] = models.CheckResult{
			Status:  models.CheckPass,
			Message: "device is reachable over http",
		}
	} else {
		report.Checks["http_connectivity"] = models.CheckResult{
			Status:  models.CheckFail,
			Message: "device not reachable",
		}
	}

	deviceAdapter, err := r.factory.Adapter(device)
	if err != nil {
		report.Checks["device_adapter"] = models.CheckResult{Status: models.CheckError, Message: err.Error()}
		return report, nil
	}

	for name, check := range deviceAdapter.TestConnection(ctx).Checks {
		report.Checks[name] = check
	}

	return report, nil
}

// Statistics summarizes fleet health counts.
func (r *Registry) Statistics() Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := Statistics{Total: len(r.devices)}

	for _, device := range r.devices {
		switch device.Status {
		case models.StatusOnline:
			stats.Online++
		case models.StatusOffline:
			stats.Offline++
		case models.StatusError:
			stats.Error++
		case models.StatusBusy:
			stats.Busy++
		}
	}

	if stats.Total > 0 {
		stats.AvailabilityPercent = float64(stats.Online) / float64(stats.Total) * 100
	}

	return stats
}

// LastScan exposes the scanner's most recent raw records for diagnostics.
func (r *Registry) LastScan() []models.DiscoveryRecord {
	return r.scanner.LastScan()
}
