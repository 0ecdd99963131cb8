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

package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmbridge/kmbridge/pkg/logger"
)

func newConsoleTestProbe() *ConsoleProbe {
	return NewConsoleProbe(NewIdentifier(testVendors, testControllers), logger.NewTestLogger())
}

func TestConsoleProbeMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write([]byte(`<html><title>KONICA MINOLTA bizhub C654e</title></html>`))
	}))
	defer server.Close()

	probe := newConsoleTestProbe()

	result := probe.Probe(context.Background(), strings.TrimPrefix(server.URL, "http://"))

	assert.True(t, result.Matched)
	assert.Equal(t, "C654e", result.Model)
	assert.Equal(t, "200", result.Raw["http_status"])
	assert.Equal(t, "/", result.Raw["path"])
}

func TestConsoleProbeRedirectCounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Location", "/wcd/index.html")
		w.WriteHeader(http.StatusFound)

		_, _ = w.Write([]byte("bizhub login"))
	}))
	defer server.Close()

	probe := newConsoleTestProbe()

	result := probe.Probe(context.Background(), strings.TrimPrefix(server.URL, "http://"))

	assert.True(t, result.Matched)
	assert.Equal(t, "302", result.Raw["http_status"])
}

func TestConsoleProbeFallbackPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wcd/" {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write([]byte("KONICA MINOLTA Web Connection"))
	}))
	defer server.Close()

	probe := newConsoleTestProbe()

	result := probe.Probe(context.Background(), strings.TrimPrefix(server.URL, "http://"))

	assert.True(t, result.Matched)
	assert.Equal(t, "/wcd/", result.Raw["path"])
}

func TestConsoleProbeForeignDevice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("HP LaserJet web interface"))
	}))
	defer server.Close()

	probe := newConsoleTestProbe()

	result := probe.Probe(context.Background(), strings.TrimPrefix(server.URL, "http://"))

	// Responsive but foreign: raw findings survive for diagnostics.
	assert.False(t, result.Matched)
	assert.Equal(t, "200", result.Raw["http_status"])
}

func TestConsoleProbeUnreachable(t *testing.T) {
	probe := newConsoleTestProbe()

	result := probe.Probe(context.Background(), "127.0.0.1:1")

	assert.False(t, result.Matched)
	assert.Empty(t, result.Raw)
}
