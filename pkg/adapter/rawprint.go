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
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kmbridge/kmbridge/pkg/models"
)

const (
	rawDialTimeout  = 5 * time.Second
	rawWriteTimeout = 60 * time.Second
)

// sendRaw streams the document to the device's raw print port. The device
// interprets the bytes itself, so only formats the engine understands
// natively (PCL, PostScript, plain text) print correctly this way.
func sendRaw(ctx context.Context, address string, port int, payload []byte) (int, error) {
	if port == 0 {
		port = models.DefaultRawPrintPort
	}

	dialer := &net.Dialer{Timeout: rawDialTimeout}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return 0, fmt.Errorf("failed to reach raw print port on %s: %w", address, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Now().Add(rawWriteTimeout))
	}

	n, err := conn.Write(payload)
	if err != nil {
		return n, fmt.Errorf("raw print write to %s failed: %w", address, err)
	}

	return n, nil
}

// ensureJobID assigns a generated identifier to jobs submitted without one,
// so logs and outcomes always reference a concrete job.
func ensureJobID(job *models.PrintJob) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
}

// jobPayload resolves a job's document bytes and a filename for transports
// that need one. The in-memory payload wins over the file path.
func jobPayload(job *models.PrintJob) ([]byte, string, error) {
	if len(job.Payload) > 0 {
		name := filepath.Base(job.FilePath)
		if name == "." || name == "/" || name == "" {
			name = "document"
		}

		return job.Payload, name, nil
	}

	if job.FilePath == "" {
		return nil, "", ErrEmptyJob
	}

	data, err := os.ReadFile(job.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read job file %q: %w", job.FilePath, err)
	}

	return data, filepath.Base(job.FilePath), nil
}
