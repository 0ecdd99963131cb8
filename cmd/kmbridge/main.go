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

// kmbridge discovers Konica Minolta printers on the network and keeps
// their health current through the periodic refresh loop.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kmbridge/kmbridge/pkg/adapter"
	"github.com/kmbridge/kmbridge/pkg/config"
	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/probe"
	"github.com/kmbridge/kmbridge/pkg/registry"
	"github.com/kmbridge/kmbridge/pkg/scan"
	"github.com/kmbridge/kmbridge/pkg/snmp"
)

var (
	configFile = flag.String("config", "", "Path to YAML config file (built-in defaults when empty)")
	network    = flag.String("network", "", "Override the discovery network CIDR")
	mode       = flag.String("mode", "", "Override the discovery mode (auto or fixed)")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, initiating shutdown", sig)
		cancel()
	}()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *network != "" {
		cfg.Discovery.Network = *network
	}

	if *mode != "" {
		cfg.Discovery.Mode = config.DiscoveryMode(*mode)
	}

	rootLogger, err := logger.New(&cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	rootLogger.Info().
		Str("mode", string(cfg.Discovery.Mode)).
		Str("network", cfg.Discovery.Network).
		Msg("starting kmbridge")

	snmpClient := snmp.NewClient(cfg.SNMP, rootLogger)

	identifier := probe.NewIdentifier(cfg.Identify.VendorIdentifiers, cfg.Identify.ControllerModels)

	scanner := scan.NewScanner(
		probe.NewSNMPProbe(snmpClient, identifier, rootLogger),
		probe.NewConsoleProbe(identifier, rootLogger),
		probe.NewRIPProbe(identifier, rootLogger),
		probe.NewCredentialProber(cfg.Credentials, rootLogger),
		scan.NewPinger(rootLogger),
		cfg.Discovery.PingFirst,
		rootLogger,
	)

	factory := adapter.NewFactory(snmpClient, rootLogger)

	reg := registry.New(cfg, scanner, factory, rootLogger)

	monitor := registry.NewMonitor(reg, cfg.RefreshInterval(), rootLogger)

	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		rootLogger.Error().Err(err).Msg("monitor stopped")
		os.Exit(1)
	}

	rootLogger.Info().Msg("kmbridge stopped")
}
