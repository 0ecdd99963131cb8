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
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
)

// NativeClient speaks SNMP in-process via gosnmp. It replaces the external
// net-snmp tools without changing the Client contract.
type NativeClient struct {
	community string
	timeout   time.Duration
	retries   int
	logger    logger.Logger
}

var _ Client = (*NativeClient)(nil)

func NewNativeClient(community string, timeout time.Duration, retries int, log logger.Logger) *NativeClient {
	if community == "" {
		community = "public"
	}

	if retries <= 0 {
		retries = 1
	}

	return &NativeClient{
		community: community,
		timeout:   timeout,
		retries:   retries,
		logger:    log,
	}
}

func (c *NativeClient) connect(ctx context.Context, host string) (*gosnmp.GoSNMP, error) {
	client := &gosnmp.GoSNMP{
		Target:             host,
		Port:               161,
		Community:          c.community,
		Version:            gosnmp.Version2c,
		Timeout:            c.timeout,
		Retries:            c.retries,
		MaxOids:            gosnmp.MaxOids,
		ExponentialTimeout: true,
		Context:            ctx,
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect %s: %w", host, err)
	}

	return client, nil
}

func (c *NativeClient) SystemInfo(ctx context.Context, host string) (SystemInfo, error) {
	client, err := c.connect(ctx, host)
	if err != nil {
		return SystemInfo{}, err
	}
	defer client.Conn.Close()

	result, err := client.Get([]string{
		"." + OIDSysDescr,
		"." + OIDSysUptime,
		"." + OIDSysName,
	})
	if err != nil {
		return SystemInfo{}, fmt.Errorf("snmp get %s: %w", host, err)
	}

	var info SystemInfo

	for _, v := range result.Variables {
		oid := strings.TrimPrefix(v.Name, ".")

		switch oid {
		case OIDSysDescr:
			info.Description = pduString(v)
		case OIDSysUptime:
			info.Uptime = fmt.Sprintf("%v", v.Value)
		case OIDSysName:
			info.Name = pduString(v)
		}
	}

	return info, nil
}

func (c *NativeClient) PrinterStatus(ctx context.Context, host string) (PrinterStatus, error) {
	client, err := c.connect(ctx, host)
	if err != nil {
		return PrinterStatus{State: models.PrinterUnknown}, err
	}
	defer client.Conn.Close()

	status := PrinterStatus{State: models.PrinterUnknown}

	result, err := client.Get([]string{"." + OIDPrinterState})
	if err != nil {
		return status, fmt.Errorf("snmp get %s: %w", host, err)
	}

	for _, v := range result.Variables {
		switch gosnmp.ToBigInt(v.Value).Int64() {
		case 1, 2:
			status.State = models.PrinterIdle
		case 3:
			status.State = models.PrinterPrinting
		case 4:
			status.State = models.PrinterWarmup
		}
	}

	if pages, pagesErr := client.Get([]string{"." + OIDPagesPrinted}); pagesErr == nil {
		for _, v := range pages.Variables {
			if v.Type == gosnmp.Counter32 || v.Type == gosnmp.Counter64 {
				n := int(gosnmp.ToBigInt(v.Value).Int64())
				status.PagesPrinted = &n
			}
		}
	}

	return status, nil
}

func (c *NativeClient) SupplyLevels(ctx context.Context, host string) (map[string]int, error) {
	client, err := c.connect(ctx, host)
	if err != nil {
		return nil, err
	}
	defer client.Conn.Close()

	pdus, err := client.WalkAll("." + OIDSupplyTable)
	if err != nil {
		return nil, fmt.Errorf("snmp walk %s: %w", host, err)
	}

	// The supply table interleaves description and level rows. Collect the
	// descriptions first, then pair levels by row index.
	descriptions := make(map[string]string)
	supplies := make(map[string]int)

	for _, pdu := range pdus {
		if pdu.Type == gosnmp.OctetString {
			descriptions[rowIndex(pdu.Name)] = pduString(pdu)
		}
	}

	for _, pdu := range pdus {
		if pdu.Type != gosnmp.Integer {
			continue
		}

		level := int(gosnmp.ToBigInt(pdu.Value).Int64())
		if level < 0 || level > 100 {
			continue
		}

		desc := descriptions[rowIndex(pdu.Name)]
		if desc == "" {
			continue
		}

		if strings.Contains(desc, "Supply") || strings.Contains(desc, "Toner") {
			supplies[supplyColor(desc)] = level
		}
	}

	return supplies, nil
}

func pduString(pdu gosnmp.SnmpPDU) string {
	if b, ok := pdu.Value.([]byte); ok {
		return string(b)
	}

	return fmt.Sprintf("%v", pdu.Value)
}

// rowIndex returns the final OID component, which indexes the supply row.
func rowIndex(oid string) string {
	if idx := strings.LastIndex(oid, "."); idx >= 0 {
		return oid[idx+1:]
	}

	return oid
}
