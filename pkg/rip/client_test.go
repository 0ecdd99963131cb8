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

package rip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmbridge/kmbridge/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler, password string) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	address := strings.TrimPrefix(server.URL, "http://")

	return NewClient(address, "admin", password, logger.NewTestLogger())
}

func TestClientDetect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		_, _ = w.Write([]byte(`<html><title>Fiery WebTools</title></html>`))
	})
	mux.HandleFunc("/info", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		_, _ = w.Write([]byte(`{"version":"6.8","model":"Fiery IC-417"}`))
	})

	client := newTestClient(t, mux, "")

	result := client.Detect(context.Background())

	assert.True(t, result.Present)
	assert.Contains(t, result.Endpoints, "/")
	assert.Equal(t, KindJSONAPI, result.Kind)
	assert.Equal(t, "6.8", result.Version)
	assert.Equal(t, "Fiery IC-417", result.Model)
}

func TestClientDetectForeignServer(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Apache default page"))
	}), "")

	result := client.Detect(context.Background())

	assert.False(t, result.Present)
	assert.Empty(t, result.Endpoints)
}

func TestClientDetectUnreachable(t *testing.T) {
	client := NewClient("127.0.0.1:1", "admin", "", logger.NewTestLogger())

	assert.False(t, client.Detect(context.Background()).Present)
}

func TestClientAuthenticateEmptyPassword(t *testing.T) {
	client := NewClient("127.0.0.1:1", "admin", "", logger.NewTestLogger())

	// Open controllers need no round trip at all.
	assert.True(t, client.Authenticate(context.Background()))
}

func TestClientAuthenticateBasic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "Fiery.1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		_, _ = w.Write([]byte("ok"))
	})

	client := newTestClient(t, mux, "Fiery.1")

	assert.True(t, client.Authenticate(context.Background()))
}

func TestClientAuthenticateAllMethodsFail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "wrong")

	assert.False(t, client.Authenticate(context.Background()))
}

func TestClientStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wsi/status", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"printing","ready":false,"jobs_pending":1}`))
	})

	client := newTestClient(t, mux, "")

	status := client.Status(context.Background())

	assert.Equal(t, "printing", status.Status)
	assert.False(t, status.Ready)
	assert.Equal(t, 1, status.JobsPending)
}

func TestClientStatusSilentLadder(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), "")

	status := client.Status(context.Background())

	assert.Equal(t, "online", status.Status)
	assert.True(t, status.Ready)
}

func TestClientSubmitJob(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/wsi/print", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "report.pdf", header.Filename)
		assert.Equal(t, "2", r.FormValue("copies"))

		_, _ = w.Write([]byte(`{"job_id":"f-2001"}`))
	})

	client := newTestClient(t, mux, "")

	sub, err := client.SubmitJob(context.Background(), "/tmp/report.pdf", []byte("%PDF-1.4"), map[string]string{"copies": "2"})
	require.NoError(t, err)

	assert.Equal(t, "f-2001", sub.JobID)
	assert.NotEmpty(t, sub.Message)
}

func TestClientSubmitJobFallbackEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/print", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	client := newTestClient(t, mux, "")

	sub, err := client.SubmitJob(context.Background(), "doc.ps", []byte("%!PS"), nil)
	require.NoError(t, err)

	assert.Empty(t, sub.JobID)
}

func TestClientSubmitJobAllEndpointsReject(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), "")

	_, err := client.SubmitJob(context.Background(), "doc.ps", []byte("%!PS"), nil)

	assert.ErrorIs(t, err, ErrSubmitFailed)
}
