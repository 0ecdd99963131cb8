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

package registry

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
)

// Monitor drives the registry's periodic refresh loop.
type Monitor struct {
	registry *Registry
	interval time.Duration
	logger   zerolog.Logger
}

func NewMonitor(registry *Registry, interval time.Duration, log logger.Logger) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Monitor{
		registry: registry,
		interval: interval,
		logger:   log.With().Str("component", "monitor").Logger(),
	}
}

// Run discovers the fleet, refreshes it once, then refreshes on the
// configured cadence until the context is canceled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info().Dur("interval", m.interval).Msg("starting device monitor")

	if _, err := m.registry.Discover(ctx); err != nil {
		m.logger.Error().Err(err).Msg("initial discovery failed")
	}

	m.registry.RefreshAll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info().Msg("device monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.registry.RefreshAll(ctx)
		}
	}
}
