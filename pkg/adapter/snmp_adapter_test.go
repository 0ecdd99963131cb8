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
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/snmp"
)

func TestSNMPAdapterAuthenticate(t *testing.T) {
	adapter := NewSNMPAdapter(testDevice(models.TypeKM2100), &stubSNMPClient{}, logger.NewTestLogger())

	assert.True(t, adapter.Authenticate(context.Background()))
}

func TestSNMPAdapterStatus(t *testing.T) {
	pages := 99000
	client := &stubSNMPClient{
		info:   snmp.SystemInfo{Description: "KONICA MINOLTA 2100", Name: "km-2100"},
		status: snmp.PrinterStatus{State: models.PrinterIdle, PagesPrinted: &pages},
		levels: map[string]int{"black": 35},
	}

	adapter := NewSNMPAdapter(testDevice(models.TypeKM2100), client, logger.NewTestLogger())

	report, err := adapter.Status(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Reachable)
	assert.True(t, report.Ready)
	assert.Equal(t, models.PrinterIdle, report.State)
	assert.Equal(t, "KONICA MINOLTA 2100", report.FirmwareVersion)
	require.NotNil(t, report.PagesPrinted)
	assert.Equal(t, 99000, *report.PagesPrinted)
	assert.Equal(t, map[string]int{"black": 35}, report.TonerLevels)
}

func TestSNMPAdapterStatusUnreachable(t *testing.T) {
	adapter := NewSNMPAdapter(testDevice(models.TypeKM2100), &stubSNMPClient{fail: true}, logger.NewTestLogger())

	report, err := adapter.Status(context.Background())

	assert.Error(t, err)
	assert.False(t, report.Reachable)
	assert.Equal(t, models.PrinterUnknown, report.State)
}

func TestSNMPAdapterPrint(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan []byte, 1)

	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			received <- nil
			return
		}
		defer conn.Close()

		data, _ := io.ReadAll(conn)
		received <- data
	}()

	device := testDevice(models.TypeKM2100)
	device.Address = "127.0.0.1"
	device.RawPrintPort = listener.Addr().(*net.TCPAddr).Port

	adapter := NewSNMPAdapter(device, &stubSNMPClient{}, logger.NewTestLogger())

	outcome, err := adapter.Print(context.Background(), &models.PrintJob{
		ID:      "job-raw",
		Payload: []byte("PCL job bytes"),
	})
	require.NoError(t, err)

	assert.True(t, outcome.Submitted)
	assert.Equal(t, models.PrintMethodRaw, outcome.Method)
	assert.Equal(t, len("PCL job bytes"), outcome.BytesSent)
	assert.Equal(t, []byte("PCL job bytes"), <-received)
}

func TestSNMPAdapterPrintEmptyJob(t *testing.T) {
	adapter := NewSNMPAdapter(testDevice(models.TypeKM2100), &stubSNMPClient{}, logger.NewTestLogger())

	_, err := adapter.Print(context.Background(), &models.PrintJob{ID: "job-empty"})

	assert.ErrorIs(t, err, ErrEmptyJob)
}

func TestSNMPAdapterJobControlUnsupported(t *testing.T) {
	adapter := NewSNMPAdapter(testDevice(models.TypeKM2100), &stubSNMPClient{}, logger.NewTestLogger())

	_, err := adapter.JobStatus(context.Background(), "job-1")
	assert.ErrorIs(t, err, ErrUnsupportedOperation)

	_, err = adapter.Queue(context.Background())
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}
