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

package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/logger"
	"github.com/kmbridge/kmbridge/pkg/models"
)

const (
	consoleTimeout = 3 * time.Second

	// snippetLimit bounds how much of a console page is kept for matching.
	snippetLimit = 500
)

// consolePaths are tried in order; the first responsive one decides.
var consolePaths = []string{"/", "/wcd/", "/wcd/index.html"}

// ConsoleProbe identifies a device by its embedded web console front page.
type ConsoleProbe struct {
	http   *http.Client
	ident  *Identifier
	logger zerolog.Logger
}

func NewConsoleProbe(ident *Identifier, log logger.Logger) *ConsoleProbe {
	return &ConsoleProbe{
		http: &http.Client{
			Timeout: consoleTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				// Redirects themselves are the signal here.
				return http.ErrUseLastResponse
			},
		},
		ident:  ident,
		logger: log.With().Str("component", "console_probe").Logger(),
	}
}

// Probe fetches the console paths until one answers with 200, 301 or 302,
// then matches the body snippet against the vendor tables. The raw result
// records HTTP responsiveness even when no identifier matched, so callers
// can distinguish "web server present" from "nothing listening".
func (p *ConsoleProbe) Probe(ctx context.Context, address string) models.ProbeResult {
	for _, path := range consolePaths {
		url := fmt.Sprintf("http://%s%s", address, path)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			continue
		}

		resp, err := p.http.Do(req)
		if err != nil {
			continue
		}

		if resp.StatusCode != http.StatusOK &&
			resp.StatusCode != http.StatusMovedPermanently &&
			resp.StatusCode != http.StatusFound {
			resp.Body.Close()
			continue
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		resp.Body.Close()

		raw := map[string]string{
			"http_status": strconv.Itoa(resp.StatusCode),
			"path":        path,
		}

		snippet, matched := p.ident.MatchVendor(string(body))
		if !matched {
			return models.ProbeResult{Raw: raw}
		}

		return models.ProbeResult{
			Matched: true,
			Model:   p.ident.ExtractModel(string(body)),
			Context: snippet,
			Raw:     raw,
		}
	}

	return models.ProbeResult{}
}
