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
	"fmt"
	"net"
)

// ExpandNetwork lists the host addresses of an IPv4 CIDR, excluding the
// network and broadcast addresses. /31 and /32 networks keep all their
// addresses since they have no broadcast.
func ExpandNetwork(cidr string) ([]string, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid network %q: %w", cidr, err)
	}

	base := ipnet.IP.To4()
	if base == nil {
		return nil, fmt.Errorf("%w: %q", ErrIPv4Only, cidr)
	}

	var addrs []string

	ip := make(net.IP, len(base))
	copy(ip, base)

	for ; ipnet.Contains(ip); incrementIP(ip) {
		addrs = append(addrs, ip.String())
	}

	ones, bits := ipnet.Mask.Size()
	if bits-ones > 1 && len(addrs) > 2 {
		addrs = addrs[1 : len(addrs)-1]
	}

	return addrs, nil
}

func incrementIP(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] != 0 {
			break
		}
	}
}
