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

package scan

import (
	"context"
	"runtime"
	"time"

	"github.com/go-ping/ping"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
)

const pingTimeout = time.Second

// Pinger answers reachability questions with a single echo request. A
// failed ping only annotates the record; printers with ICMP disabled are
// still probed over their protocols.
type Pinger struct {
	logger zerolog.Logger
}

func NewPinger(log logger.Logger) *Pinger {
	return &Pinger{logger: log.With().Str("component", "pinger").Logger()}
}

// Reachable sends one echo request and reports whether a reply came back
// before the timeout or the context was canceled.
func (p *Pinger) Reachable(ctx context.Context, address string) bool {
	pinger, err := ping.NewPinger(address)
	if err != nil {
		return false
	}

	// Unprivileged UDP ping works everywhere except Windows.
	pinger.SetPrivileged(runtime.GOOS == "windows")
	pinger.Count = 1
	pinger.Timeout = pingTimeout

	done := make(chan error, 1)

	go func() {
		done <- pinger.Run()
	}()

	select {
	case <-ctx.Done():
		pinger.Stop()
		return false
	case err = <-done:
		if err != nil {
			return false
		}
	}

	return pinger.Statistics().PacketsRecv > 0
}
