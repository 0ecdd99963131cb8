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
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/probe"
	"github.com/kmbridge/kmbridge/pkg/snmp"
)

const (
	consoleHTTPTimeout = 5 * time.Second
	consoleAuthTimeout = 10 * time.Second
)

// ConsoleAdapter drives devices through their embedded web console plus
// SNMP. The console has no job submission endpoint, so documents still
// travel over the raw print port; the console contributes authentication
// and firmware details.
type ConsoleAdapter struct {
	unsupportedOps

	device *models.Device
	snmp   snmp.Client
	http   *http.Client
	logger zerolog.Logger

	baseURL string
	wcdURL  string

	authenticated bool
}

var _ DeviceAdapter = (*ConsoleAdapter)(nil)

func NewConsoleAdapter(device *models.Device, client snmp.Client, log logger.Logger) *ConsoleAdapter {
	port := device.WebPort
	if port == 0 {
		port = models.DefaultWebPort
	}

	baseURL := fmt.Sprintf("http://%s:%d", device.Address, port)

	// cookiejar.New never fails with nil options.
	jar, _ := cookiejar.New(nil)

	return &ConsoleAdapter{
		device:  device,
		snmp:    client,
		http:    &http.Client{Jar: jar},
		logger:  log.With().Str("component", "console_adapter").Str("device_id", device.ID).Logger(),
		baseURL: baseURL,
		wcdURL:  baseURL + "/wcd",
	}
}

func (a *ConsoleAdapter) Device() *models.Device { return a.device }

func (a *ConsoleAdapter) Capabilities() models.Capabilities {
	return CapabilitiesFor(a.device)
}

// Authenticate logs into the web console with the device's admin password.
// The session cookies stay in the client jar for later console requests.
func (a *ConsoleAdapter) Authenticate(ctx context.Context) bool {
	if a.device.AdminPassword == "" {
		a.logger.Warn().Msg("no admin password configured for authentication")
		return false
	}

	form := url.Values{
		"func":     {"PSL_LP1_LOG"},
		"password": {a.device.AdminPassword},
	}

	reqCtx, cancel := context.WithTimeout(ctx, consoleAuthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.wcdURL+"/login.cgi", strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for name, value := range probe.WCDBaseCookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := a.http.Do(req)
	if err != nil {
		a.logger.Error().Err(err).Msg("console authentication failed")
		return false
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		a.logger.Error().Int("status", resp.StatusCode).Msg("console authentication rejected")
		return false
	}

	a.authenticated = true

	a.logger.Info().Msg("console authentication succeeded")

	return true
}

func (a *ConsoleAdapter) Status(ctx context.Context) (*models.StatusReport, error) {
	report := &models.StatusReport{
		DeviceID:    a.device.ID,
		State:       models.PrinterUnknown,
		CollectedAt: time.Now(),
	}

	report.Reachable = a.httpReachable(ctx)

	if status, err := a.snmp.PrinterStatus(ctx, a.device.Address); err == nil {
		report.Reachable = true
		report.State = status.State
		report.PagesPrinted = status.PagesPrinted
		report.Ready = status.State == models.PrinterIdle
	}

	if levels, err := a.snmp.SupplyLevels(ctx, a.device.Address); err == nil && len(levels) > 0 {
		report.TonerLevels = levels
	}

	if a.authenticated {
		if version := a.firmwareVersion(ctx); version != "" {
			report.FirmwareVersion = version
		}
	}

	if !report.Reachable {
		return report, fmt.Errorf("status query failed for %s: %w", a.device.ID, ErrDeviceNotReady)
	}

	return report, nil
}

// Print streams the document to the raw print port after a readiness
// check. The console exposes no submission API of its own.
func (a *ConsoleAdapter) Print(ctx context.Context, job *models.PrintJob) (*models.PrintOutcome, error) {
	ensureJobID(job)

	payload, _, err := jobPayload(job)
	if err != nil {
		return nil, err
	}

	if !a.ready(ctx) {
		return nil, fmt.Errorf("cannot print %s: %w", job.ID, ErrDeviceNotReady)
	}

	a.logger.Info().Str("job_id", job.ID).Str("title", job.Title).Msg("submitting print job")

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

func (a *ConsoleAdapter) TestConnection(ctx context.Context) *models.DiagnosticReport {
	report := &models.DiagnosticReport{
		DeviceID: a.device.ID,
		Checks:   make(map[string]models.CheckResult),
	}

	if status, err := a.fetchStatus(ctx, a.baseURL); err != nil {
		report.Checks["http_basic"] = models.CheckResult{Status: models.CheckError, Message: err.Error()}
	} else {
		result := models.CheckResult{
			Status:  models.CheckFail,
			Message: fmt.Sprintf("http response: %d", status),
		}

		if status == http.StatusOK || status == http.StatusMovedPermanently || status == http.StatusFound {
			result.Status = models.CheckPass
		}

		report.Checks["http_basic"] = result
	}

	if status, err := a.fetchStatus(ctx, a.wcdURL+"/index.html"); err != nil {
		report.Checks["wcd_interface"] = models.CheckResult{Status: models.CheckError, Message: err.Error()}
	} else {
		result := models.CheckResult{
			Status:  models.CheckFail,
			Message: fmt.Sprintf("console response: %d", status),
		}

		if status == http.StatusOK {
			result.Status = models.CheckPass
		}

		report.Checks["wcd_interface"] = result
	}

	if info, err := a.snmp.SystemInfo(ctx, a.device.Address); err != nil {
		report.Checks["snmp"] = models.CheckResult{Status: models.CheckFail, Message: err.Error()}
	} else {
		report.Checks["snmp"] = models.CheckResult{
			Status:  models.CheckPass,
			Message: "snmp responding: " + info.Description,
		}
	}

	if a.device.AdminPassword != "" {
		result := models.CheckResult{Status: models.CheckFail, Message: "admin authentication failed"}

		if a.Authenticate(ctx) {
			result = models.CheckResult{Status: models.CheckPass, Message: "admin authentication successful"}
		}

		report.Checks["authentication"] = result
	}

	return report
}

func (a *ConsoleAdapter) ready(ctx context.Context) bool {
	status, err := a.snmp.PrinterStatus(ctx, a.device.Address)
	if err != nil {
		// SNMP silence alone does not block printing; the raw port dial
		// is the final arbiter.
		return a.httpReachable(ctx)
	}

	return status.State == models.PrinterIdle
}

func (a *ConsoleAdapter) httpReachable(ctx context.Context) bool {
	status, err := a.fetchStatus(ctx, a.baseURL)
	if err != nil {
		return false
	}

	return status == http.StatusOK || status == http.StatusMovedPermanently || status == http.StatusFound
}

func (a *ConsoleAdapter) fetchStatus(ctx context.Context, url string) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, consoleHTTPTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, err
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// firmwareVersion scrapes the ROM version from the console's version page.
func (a *ConsoleAdapter) firmwareVersion(ctx context.Context) string {
	reqCtx, cancel := context.WithTimeout(ctx, consoleAuthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, a.wcdURL+"/version.html", http.NoBody)
	if err != nil {
		return ""
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ""
	}

	return parseROMVersion(string(body))
}

// parseROMVersion extracts the pcm_romversion assignment from the version
// page script block.
func parseROMVersion(html string) string {
	const marker = `pcm_romversion = "`

	start := strings.Index(html, marker)
	if start < 0 {
		return ""
	}

	start += len(marker)

	end := strings.Index(html[start:], `"`)
	if end < 0 {
		return ""
	}

	return html[start : start+end]
}
