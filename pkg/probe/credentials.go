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
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kmbridge/kmbridge/pkg/config"
	"github.com/kmbridge/kmbridge/pkg/logger"
)

const credentialTimeout = 5 * time.Second

// WCDBaseCookies is the session baseline the web console expects before
// it will process a login request. The console adapter shares it.
var WCDBaseCookies = map[string]string{
	"bv":      "Chrome/138.0.0.0",
	"uatype":  "NN",
	"lang":    "En",
	"favmode": "false",
	"vm":      "Html",
	"param":   "",
	"access":  "",
	"bm":      "Low",
	"selno":   "En",
}

// CredentialProber walks the known administrative password candidates
// against a device's web console login.
type CredentialProber struct {
	table  config.CredentialTable
	http   *http.Client
	logger zerolog.Logger
}

func NewCredentialProber(table config.CredentialTable, log logger.Logger) *CredentialProber {
	return &CredentialProber{
		table: table,
		http: &http.Client{
			Timeout: credentialTimeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: log.With().Str("component", "credential_probe").Logger(),
	}
}

// Candidates returns the password order for a model: model-specific entries
// first, then the defaults, first occurrence winning on duplicates. Model
// table keys are walked in sorted order so the attempt sequence is stable
// when a model matches more than one key.
func (p *CredentialProber) Candidates(model string) []string {
	var ordered []string

	if model != "" {
		upper := strings.ToUpper(model)

		keys := make([]string, 0, len(p.table.ByModel))
		for key := range p.table.ByModel {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		for _, key := range keys {
			if strings.Contains(upper, strings.ToUpper(key)) {
				ordered = append(ordered, p.table.ByModel[key]...)
			}
		}
	}

	ordered = append(ordered, p.table.Default...)

	seen := make(map[string]struct{}, len(ordered))
	deduped := ordered[:0]

	for _, password := range ordered {
		if _, dup := seen[password]; dup {
			continue
		}

		seen[password] = struct{}{}
		deduped = append(deduped, password)
	}

	return deduped
}

// Discover tries each candidate in order and returns the first accepted
// password. Exhaustion returns ("", false); the device stays registered
// without credentials.
func (p *CredentialProber) Discover(ctx context.Context, address, model string) (string, bool) {
	for _, password := range p.Candidates(model) {
		if p.test(ctx, address, password) {
			p.logger.Info().
				Str("address", address).
				Int("password_length", len(password)).
				Msg("admin credential accepted")

			return password, true
		}
	}

	return "", false
}

// test posts one login attempt to the console login endpoint. Acceptance is
// a redirect, or a 200 that sets a session cookie whose name contains "ID".
func (p *CredentialProber) test(ctx context.Context, address, password string) bool {
	form := url.Values{
		"func":     {"PSL_LP1_LOG"},
		"password": {password},
	}

	loginURL := fmt.Sprintf("http://%s/wcd/login.cgi", address)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for name, value := range WCDBaseCookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusFound {
		return true
	}

	if resp.StatusCode != http.StatusOK {
		return false
	}

	for _, cookie := range resp.Cookies() {
		if strings.Contains(cookie.Name, "ID") {
			return true
		}
	}

	return false
}
