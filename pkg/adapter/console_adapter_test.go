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
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/snmp"
)

// consoleTestAdapter points a ConsoleAdapter at an httptest server by
// splitting its listen address into host and web port.
func consoleTestAdapter(t *testing.T, server *httptest.Server, client *stubSNMPClient, password string) *ConsoleAdapter {
	t.Helper()

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(server.URL, "http://"))
	require.NoError(t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	device := testDevice(models.TypeC654e)
	device.Address = host
	device.WebPort = port
	device.AdminPassword = password

	return NewConsoleAdapter(device, client, logger.NewTestLogger())
}

func TestConsoleAdapterAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wcd/login.cgi", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "PSL_LP1_LOG", r.FormValue("func"))

		if r.FormValue("password") != "1234567812345678" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		http.SetCookie(w, &http.Cookie{Name: "ID", Value: "session"})
		_, _ = w.Write([]byte("ok"))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	adapter := consoleTestAdapter(t, server, &stubSNMPClient{}, "1234567812345678")

	assert.True(t, adapter.Authenticate(context.Background()))
}

func TestConsoleAdapterAuthenticateRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := consoleTestAdapter(t, server, &stubSNMPClient{}, "wrong")

	assert.False(t, adapter.Authenticate(context.Background()))
}

func TestConsoleAdapterAuthenticateNoPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	adapter := consoleTestAdapter(t, server, &stubSNMPClient{}, "")

	assert.False(t, adapter.Authenticate(context.Background()))
}

func TestConsoleAdapterStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("console"))
	}))
	defer server.Close()

	pages := 12345
	client := &stubSNMPClient{
		status: snmp.PrinterStatus{State: models.PrinterIdle, PagesPrinted: &pages},
		levels: map[string]int{"black": 80, "cyan": 55},
	}

	adapter := consoleTestAdapter(t, server, client, "")

	report, err := adapter.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Reachable)
	assert.True(t, report.Ready)
	assert.Equal(t, models.PrinterIdle, report.State)
	require.NotNil(t, report.PagesPrinted)
	assert.Equal(t, 12345, *report.PagesPrinted)
	assert.Equal(t, map[string]int{"black": 80, "cyan": 55}, report.TonerLevels)
}

func TestConsoleAdapterStatusUnreachable(t *testing.T) {
	device := testDevice(models.TypeC654e)
	device.Address = "127.0.0.1"
	device.WebPort = 1

	adapter := NewConsoleAdapter(device, &stubSNMPClient{fail: true}, logger.NewTestLogger())

	report, err := adapter.Status(context.Background())

	assert.ErrorIs(t, err, ErrDeviceNotReady)
	assert.False(t, report.Reachable)
}

func TestParseROMVersion(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "version page script",
			html: `<script>var pcm_romversion = "G00-M6";</script>`,
			want: "G00-M6",
		},
		{
			name: "marker missing",
			html: `<html><body>login required</body></html>`,
			want: "",
		},
		{
			name: "unterminated assignment",
			html: `pcm_romversion = "G00`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseROMVersion(tt.html))
		})
	}
}
