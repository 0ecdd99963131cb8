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

package snmp

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
)

// ExecClient shells out to the net-snmp command line tools and parses their
// text output by fixed substring markers.
type ExecClient struct {
	community string
	version   string
	timeout   time.Duration
	logger    logger.Logger
}

var _ Client = (*ExecClient)(nil)

func NewExecClient(community, version string, timeout time.Duration, log logger.Logger) *ExecClient {
	if community == "" {
		community = "public"
	}

	if version == "" {
		version = "2c"
	}

	return &ExecClient{
		community: community,
		version:   version,
		timeout:   timeout,
		logger:    log,
	}
}

func (c *ExecClient) SystemInfo(ctx context.Context, host string) (SystemInfo, error) {
	out, err := c.run(ctx, "snmpwalk", host, OIDSystem)
	if err != nil {
		return SystemInfo{}, err
	}

	return parseSystemInfo(out), nil
}

func (c *ExecClient) PrinterStatus(ctx context.Context, host string) (PrinterStatus, error) {
	stateOut, err := c.run(ctx, "snmpget", host, OIDPrinterState)
	if err != nil {
		return PrinterStatus{State: models.PrinterUnknown}, err
	}

	status := PrinterStatus{State: parsePrinterState(stateOut)}

	// The page counter is optional on older engines; its absence is not an
	// error for the status read as a whole.
	if pagesOut, pagesErr := c.run(ctx, "snmpget", host, OIDPagesPrinted); pagesErr == nil {
		status.PagesPrinted = parsePagesPrinted(pagesOut)
	}

	return status, nil
}

func (c *ExecClient) SupplyLevels(ctx context.Context, host string) (map[string]int, error) {
	out, err := c.run(ctx, "snmpwalk", host, OIDSupplyTable)
	if err != nil {
		return nil, err
	}

	return parseSupplyLevels(out), nil
}

func (c *ExecClient) run(ctx context.Context, command, host, oid string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"-v", c.version, "-c", c.community, host, oid}

	cmd := exec.CommandContext(runCtx, command, args...)

	out, err := cmd.Output()
	if err != nil {
		c.logger.Debug().Err(err).Str("host", host).Str("command", command).Msg("snmp command failed")
		return "", fmt.Errorf("%s %s: %w", command, host, err)
	}

	return string(out), nil
}

// parseSystemInfo extracts the description, uptime and name fields from
// snmpwalk output of the system subtree.
func parseSystemInfo(out string) SystemInfo {
	var info SystemInfo

	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		switch {
		case strings.Contains(line, "::sysDescr.0"):
			info.Description = valueAfter(line, "= STRING: ")
		case strings.Contains(line, "::sysUpTimeInstance"):
			info.Uptime = valueAfter(line, "= Timeticks: ")
		case strings.Contains(line, "::sysName.0"):
			info.Name = valueAfter(line, "= STRING: ")
		}
	}

	return info
}

// valueAfter returns the remainder of line past the first occurrence of
// marker, or the whole line if the marker is absent.
func valueAfter(line, marker string) string {
	if idx := strings.Index(line, marker); idx >= 0 {
		return strings.TrimSpace(line[idx+len(marker):])
	}

	return strings.TrimSpace(line)
}

// parsePrinterState maps the hrDeviceStatus integer to an engine state.
func parsePrinterState(out string) models.PrinterState {
	value := valueAfter(out, "INTEGER: ")
	value = strings.TrimSpace(strings.Split(value, "\n")[0])

	// Some agents decorate the integer with its enum label, e.g.
	// "running(2)". Keep digits only.
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, value)

	switch digits {
	case "1", "2":
		return models.PrinterIdle
	case "3":
		return models.PrinterPrinting
	case "4":
		return models.PrinterWarmup
	default:
		return models.PrinterUnknown
	}
}

// parsePagesPrinted extracts the lifetime page counter.
func parsePagesPrinted(out string) *int {
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if !strings.Contains(line, "Counter32:") {
			continue
		}

		value := valueAfter(line, "Counter32: ")
		if n, err := strconv.Atoi(value); err == nil {
			return &n
		}
	}

	return nil
}

// parseSupplyLevels walks the supply table output pairing description rows
// with the nearest following integer row in the 0-100 range.
func parseSupplyLevels(out string) map[string]int {
	supplies := make(map[string]int)
	lines := strings.Split(strings.TrimSpace(out), "\n")

	for i, line := range lines {
		if !strings.Contains(line, "Supply") && !strings.Contains(line, "Toner") {
			continue
		}

		color := supplyColor(line)

		for j := i; j < len(lines) && j < i+5; j++ {
			if !strings.Contains(lines[j], "INTEGER:") {
				continue
			}

			value := valueAfter(lines[j], "INTEGER: ")

			level, err := strconv.Atoi(value)
			if err != nil || level < 0 || level > 100 {
				continue
			}

			supplies[color] = level

			break
		}
	}

	return supplies
}

func supplyColor(line string) string {
	lower := strings.ToLower(line)

	switch {
	case strings.Contains(lower, "cyan"):
		return "cyan"
	case strings.Contains(lower, "magenta"):
		return "magenta"
	case strings.Contains(lower, "yellow"):
		return "yellow"
	default:
		return "black"
	}
}
