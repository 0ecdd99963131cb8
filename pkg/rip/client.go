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

// Package rip speaks to EFI Fiery RIP controllers over HTTP. Controller
// firmware varies widely, so every operation walks a ladder of known
// endpoints and decodes whichever payload shape comes back.
package rip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	submitTimeout  = 60 * time.Second
)

// API kinds reported by Detect, in decreasing order of structure.
const (
	KindXMLAPI  = "xml_api"
	KindJSONAPI = "json_api"
	KindWeb     = "web"
)

// DetectResult reports whether an address fronts a Fiery controller and
// what the controller disclosed about itself.
type DetectResult struct {
	Present   bool     `json:"present"`
	Kind      string   `json:"kind,omitempty"`
	Version   string   `json:"version,omitempty"`
	Model     string   `json:"model,omitempty"`
	Endpoints []string `json:"endpoints,omitempty"`
}

// ControllerStatus is the decoded controller state.
type ControllerStatus struct {
	Status      string `json:"status"`
	Ready       bool   `json:"ready"`
	JobsPending int    `json:"jobs_pending"`
}

// Submission reports an accepted print job.
type Submission struct {
	JobID   string `json:"job_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Client talks to one Fiery controller. Session cookies acquired during
// authentication are carried on subsequent requests.
type Client struct {
	address  string
	username string
	password string
	baseURL  string
	http     *http.Client
	logger   zerolog.Logger
}

func NewClient(address, username, password string, log logger.Logger) *Client {
	if username == "" {
		username = "admin"
	}

	// cookiejar.New never fails with nil options.
	jar, _ := cookiejar.New(nil)

	return &Client{
		address:  address,
		username: username,
		password: password,
		baseURL:  fmt.Sprintf("http://%s", address),
		http:     &http.Client{Jar: jar},
		logger:   log.With().Str("component", "rip").Str("address", address).Logger(),
	}
}

// detectIndicators pairs a path with the substring that confirms a Fiery
// controller when it appears in the response body.
var detectIndicators = []struct {
	path      string
	indicator string
}{
	{"/", "Fiery"},
	{"/wsi/", "Fiery Web Services"},
	{"/status", "EFI"},
	{"/info", "Fiery"},
	{"/command", "Command"},
}

var (
	infoEndpoints   = []string{"/wsi/deviceinfo", "/info", "/status", "/command/deviceinfo"}
	statusEndpoints = []string{"/wsi/status", "/status", "/command/status"}
	printEndpoints  = []string{"/wsi/print", "/print", "/command/print"}
	apiAuthPaths    = []string{"/wsi/login", "/command/login", "/api/login"}
)

// Detect checks the indicator endpoints for controller signatures and, when
// one matches, pulls version and model details from the info endpoints.
// Transport failures yield Present=false, never an error.
func (c *Client) Detect(ctx context.Context) DetectResult {
	var result DetectResult

	for _, probe := range detectIndicators {
		body, status, err := c.get(ctx, probe.path)
		if err != nil {
			continue
		}

		if status != http.StatusOK && status != http.StatusMovedPermanently && status != http.StatusFound {
			continue
		}

		if strings.Contains(strings.ToLower(body), strings.ToLower(probe.indicator)) {
			result.Present = true
			result.Endpoints = append(result.Endpoints, probe.path)

			c.logger.Debug().Str("path", probe.path).Str("indicator", probe.indicator).Msg("controller indicator found")
		}
	}

	if result.Present {
		c.fillInfo(ctx, &result)
	}

	return result
}

func (c *Client) fillInfo(ctx context.Context, result *DetectResult) {
	for _, path := range infoEndpoints {
		body, status, err := c.get(ctx, path)
		if err != nil || status != http.StatusOK {
			continue
		}

		if decodeInfo(body, result) {
			return
		}
	}
}

// Authenticate tries basic, then form, then controller API credentials.
// An empty password succeeds immediately: open controllers are common.
func (c *Client) Authenticate(ctx context.Context) bool {
	if c.password == "" {
		return true
	}

	methods := []struct {
		name string
		fn   func(context.Context) bool
	}{
		{"basic", c.basicAuth},
		{"form", c.formAuth},
		{"api", c.apiAuth},
	}

	for _, m := range methods {
		if m.fn(ctx) {
			c.logger.Debug().Str("method", m.name).Msg("controller authentication succeeded")
			return true
		}
	}

	c.logger.Warn().Msg("all controller authentication methods failed")

	return false
}

func (c *Client) basicAuth(ctx context.Context) bool {
	reqCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/status", http.NoBody)
	if err != nil {
		return false
	}

	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK ||
		resp.StatusCode == http.StatusMovedPermanently ||
		resp.StatusCode == http.StatusFound
}

func (c *Client) formAuth(ctx context.Context) bool {
	form := url.Values{
		"username": {c.username},
		"password": {c.password},
		"login":    {"Login"},
	}

	body, status, err := c.postForm(ctx, "/login", form)
	_ = body

	if err != nil {
		return false
	}

	return status == http.StatusOK || status == http.StatusMovedPermanently || status == http.StatusFound
}

func (c *Client) apiAuth(ctx context.Context) bool {
	payload := fmt.Sprintf(`{"user":%q,"pass":%q}`, c.username, c.password)

	for _, path := range apiAuthPaths {
		body, status, err := c.postJSON(ctx, path, payload)
		if err != nil {
			continue
		}

		if status != http.StatusOK && status != http.StatusCreated {
			continue
		}

		lower := strings.ToLower(body)
		if strings.Contains(lower, "success") || strings.Contains(lower, "authenticated") {
			return true
		}
	}

	return false
}

// Status walks the status endpoints and decodes the first 200 response.
// A controller that answers nothing on the ladder is still reported as
// online and ready: reachability was established by the caller.
func (c *Client) Status(ctx context.Context) ControllerStatus {
	for _, path := range statusEndpoints {
		body, status, err := c.get(ctx, path)
		if err != nil || status != http.StatusOK {
			continue
		}

		return decodeStatus(body)
	}

	return ControllerStatus{Status: "online", Ready: true}
}

// SubmitJob uploads the document as a multipart form, trying each print
// endpoint until one accepts. The fields map carries controller job
// settings alongside the file part.
func (c *Client) SubmitJob(ctx context.Context, filename string, payload []byte, fields map[string]string) (Submission, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return Submission{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	if _, err = part.Write(payload); err != nil {
		return Submission{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	for key, value := range fields {
		if err = writer.WriteField(key, value); err != nil {
			return Submission{}, fmt.Errorf("failed to build upload form: %w", err)
		}
	}

	if err = writer.Close(); err != nil {
		return Submission{}, fmt.Errorf("failed to build upload form: %w", err)
	}

	for _, path := range printEndpoints {
		reqCtx, cancel := context.WithTimeout(ctx, submitTimeout)

		req, reqErr := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf.Bytes()))
		if reqErr != nil {
			cancel()
			continue
		}

		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, doErr := c.http.Do(req)
		if doErr != nil {
			cancel()

			c.logger.Debug().Err(doErr).Str("path", path).Msg("print endpoint failed")

			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()

		if resp.StatusCode == http.StatusOK ||
			resp.StatusCode == http.StatusCreated ||
			resp.StatusCode == http.StatusAccepted {
			return Submission{
				JobID:   extractJobID(string(body)),
				Message: "job submitted to controller",
			}, nil
		}
	}

	return Submission{}, ErrSubmitFailed
}

func (c *Client) get(ctx context.Context, path string) (string, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return "", 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(body), resp.StatusCode, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (string, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(body), resp.StatusCode, nil
}

func (c *Client) postJSON(ctx context.Context, path, payload string) (string, int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, strings.NewReader(payload))
	if err != nil {
		return "", 0, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(body), resp.StatusCode, nil
}
