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

// Package scan sweeps networks for Konica Minolta printers. Per-address
// work runs under a weighted semaphore so a /24 sweep never opens hundreds
// of sockets at once.
package scan

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
	"github.com/kmbridge/kmbridge/pkg/probe"
)

const (
	// sweepConcurrency bounds a full network sweep.
	sweepConcurrency = 50

	// targetedConcurrency bounds a scan of an explicit address list.
	targetedConcurrency = 20
)

// Scanner runs the per-address probe pipeline across address sets.
type Scanner struct {
	snmpProbe    *probe.SNMPProbe
	consoleProbe *probe.ConsoleProbe
	ripProbe     *probe.RIPProbe
	credentials  *probe.CredentialProber
	pinger       *Pinger
	pingFirst    bool
	logger       zerolog.Logger

	mu       sync.Mutex
	lastScan []models.DiscoveryRecord
}

func NewScanner(
	snmpProbe *probe.SNMPProbe,
	consoleProbe *probe.ConsoleProbe,
	ripProbe *probe.RIPProbe,
	credentials *probe.CredentialProber,
	pinger *Pinger,
	pingFirst bool,
	log logger.Logger,
) *Scanner {
	return &Scanner{
		snmpProbe:    snmpProbe,
		consoleProbe: consoleProbe,
		ripProbe:     ripProbe,
		credentials:  credentials,
		pinger:       pinger,
		pingFirst:    pingFirst,
		logger:       log.With().Str("component", "scanner").Logger(),
	}
}

// Sweep scans every host address of the network and returns the confirmed
// records.
func (s *Scanner) Sweep(ctx context.Context, network string) ([]models.DiscoveryRecord, error) {
	addrs, err := ExpandNetwork(network)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("network", network).Int("addresses", len(addrs)).Msg("starting network sweep")

	return s.scan(ctx, addrs, sweepConcurrency)
}

// Targeted scans an explicit address list at a lower concurrency bound.
func (s *Scanner) Targeted(ctx context.Context, addrs []string) ([]models.DiscoveryRecord, error) {
	s.logger.Info().Int("addresses", len(addrs)).Msg("starting targeted scan")

	return s.scan(ctx, addrs, targetedConcurrency)
}

// LastScan returns every record of the most recent scan, unconfirmed
// addresses included, for diagnostics.
func (s *Scanner) LastScan() []models.DiscoveryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]models.DiscoveryRecord, len(s.lastScan))
	copy(records, s.lastScan)

	return records
}

func (s *Scanner) scan(ctx context.Context, addrs []string, limit int64) ([]models.DiscoveryRecord, error) {
	sem := semaphore.NewWeighted(limit)
	records := make([]models.DiscoveryRecord, len(addrs))

	var wg sync.WaitGroup

	for i, addr := range addrs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		wg.Add(1)

		go func(i int, addr string) {
			defer wg.Done()
			defer sem.Release(1)

			records[i] = s.scanAddress(ctx, addr)
		}(i, addr)
	}

	wg.Wait()

	s.mu.Lock()
	s.lastScan = records
	s.mu.Unlock()

	var confirmed []models.DiscoveryRecord

	for _, record := range records {
		if record.Confirmed {
			confirmed = append(confirmed, record)
		}
	}

	s.logger.Info().Int("confirmed", len(confirmed)).Int("scanned", len(records)).Msg("scan complete")

	if err := ctx.Err(); err != nil {
		return confirmed, err
	}

	return confirmed, nil
}

// scanAddress runs the full identification pipeline against one address.
// The ping prefilter only annotates reachability: printers on locked-down
// VLANs frequently drop ICMP while answering their own protocols.
func (s *Scanner) scanAddress(ctx context.Context, address string) models.DiscoveryRecord {
	record := models.DiscoveryRecord{Address: address}

	if s.pingFirst {
		record.Reachable = s.pinger.Reachable(ctx, address)
	}

	record.SNMP = s.snmpProbe.Probe(ctx, address)
	record.Console = s.consoleProbe.Probe(ctx, address)

	// An HTTP responder without Konica Minolta SNMP identity is the Fiery
	// signature: the controller answers HTTP while hiding the engine, so a
	// vendor-blank web page still warrants the controller probe.
	if httpResponsive(record.Console) && !record.SNMP.Matched {
		record.RIP = s.ripProbe.Probe(ctx, address)
		record.RIPPresent = record.RIP.Matched
	}

	record.Confirmed = record.SNMP.Matched || record.Console.Matched || record.RIP.Matched
	if !record.Confirmed {
		return record
	}

	record.Reachable = true
	record.Model = firstNonEmpty(record.SNMP.Model, record.Console.Model, record.RIP.Model)
	record.Type = probe.InferDeviceType(record.Model)

	if password, found := s.credentials.Discover(ctx, address, record.Model); found {
		record.AdminPassword = password
	}

	record.Capabilities = InferCapabilities(record.Model, record.RIP.CapabilityHints, record.AdminPassword != "")

	s.logger.Debug().
		Str("address", address).
		Str("model", record.Model).
		Bool("rip", record.RIPPresent).
		Msg("device confirmed")

	return record
}

// httpResponsive reports whether the console probe got any HTTP answer,
// vendor-matched or not. Unmatched probes still record the status line.
func httpResponsive(console models.ProbeResult) bool {
	return console.Matched || console.Raw["http_status"] != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
