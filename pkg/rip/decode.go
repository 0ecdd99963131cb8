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

package rip

import (
	"encoding/json"
	"encoding/xml"
	"regexp"
	"strconv"
	"strings"
)

// Fiery payloads come back as XML, JSON or plain HTML depending on firmware
// generation. The decoders here try each shape in that order and fall back
// to substring heuristics, never failing outright.

var (
	versionPattern = regexp.MustCompile(`(?i)version\s*[:\s]+([0-9.]+)`)
	jobIDPattern   = regexp.MustCompile(`(?i)job[_\s]*id[:\s]*([a-zA-Z0-9\-_]+)`)
)

func looksXML(body string) bool {
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "<?xml") || strings.HasPrefix(trimmed, "<")
}

func looksJSON(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), "{")
}

// xmlNode is one scanned element: its attributes plus accumulated text.
type xmlNode struct {
	attr map[string]string
	text string
}

// xmlScan tokenizes the document leniently and indexes the root attributes
// and the first occurrence of each element by local name. Returns false
// when the body is not parseable as markup at all.
func xmlScan(body string) (root map[string]string, elements map[string]xmlNode, ok bool) {
	decoder := xml.NewDecoder(strings.NewReader(body))
	decoder.Strict = false
	decoder.AutoClose = xml.HTMLAutoClose

	root = make(map[string]string)
	elements = make(map[string]xmlNode)

	var (
		sawRoot bool
		current string
	)

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[strings.ToLower(a.Name.Local)] = a.Value
			}

			name := strings.ToLower(t.Name.Local)

			if !sawRoot {
				sawRoot = true
				for k, v := range attrs {
					root[k] = v
				}
			}

			if _, exists := elements[name]; !exists {
				elements[name] = xmlNode{attr: attrs}
			}

			current = name
		case xml.CharData:
			if current == "" {
				continue
			}

			node := elements[current]
			if node.text == "" {
				node.text = strings.TrimSpace(string(t))
				elements[current] = node
			}
		case xml.EndElement:
			current = ""
		}
	}

	return root, elements, sawRoot
}

// decodeInfo fills kind, version and model from an info payload. Returns
// true when the payload identified the controller well enough to stop
// walking the endpoint ladder.
func decodeInfo(body string, result *DetectResult) bool {
	trimmed := strings.TrimSpace(body)

	if looksJSON(trimmed) {
		var data map[string]any

		if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
			result.Kind = KindJSONAPI
			result.Version = jsonString(data, "version")
			result.Model = jsonString(data, "model")

			return true
		}
	}

	if looksXML(trimmed) {
		if root, elements, ok := xmlScan(trimmed); ok {
			// HTML info pages also tokenize as markup. Only a version
			// attribute or a model element marks a structured API.
			if root["version"] != "" || elements["model"].text != "" {
				result.Kind = KindXMLAPI
				result.Version = root["version"]
				result.Model = elements["model"].text

				return true
			}
		}
	}

	lower := strings.ToLower(body)
	if strings.Contains(lower, "fiery") || strings.Contains(lower, "efi") || strings.Contains(lower, "command workstation") {
		result.Kind = KindWeb

		if m := versionPattern.FindStringSubmatch(body); m != nil {
			result.Version = m[1]
		}

		return true
	}

	return false
}

// decodeStatus normalizes a status payload of any shape. Unknown shapes
// decode to the optimistic default.
func decodeStatus(body string) ControllerStatus {
	status := ControllerStatus{Status: "online", Ready: true}

	trimmed := strings.TrimSpace(body)

	if looksJSON(trimmed) {
		var data map[string]any

		if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
			if s := jsonString(data, "status"); s != "" {
				status.Status = s
			}

			if ready, ok := data["ready"].(bool); ok {
				status.Ready = ready
			}

			if jobs, ok := data["jobs_pending"].(float64); ok {
				status.JobsPending = int(jobs)
			}

			return status
		}
	}

	if looksXML(trimmed) {
		if root, elements, ok := xmlScan(trimmed); ok {
			if s := root["status"]; s != "" {
				status.Status = s
			}

			if r := root["ready"]; r != "" {
				status.Ready = strings.EqualFold(r, "true")
			}

			if jobs, exists := elements["jobs"]; exists {
				if n, err := strconv.Atoi(jobs.attr["count"]); err == nil {
					status.JobsPending = n
				}
			}

			return status
		}
	}

	lower := strings.ToLower(body)

	if strings.Contains(lower, "busy") || strings.Contains(lower, "processing") {
		status.Ready = false
	}

	if strings.Contains(lower, "error") {
		status.Status = "error"
	}

	return status
}

// extractJobID pulls the controller-assigned job identifier out of a
// submission response, or returns "" when the controller named none.
func extractJobID(body string) string {
	trimmed := strings.TrimSpace(body)

	if looksJSON(trimmed) {
		var data map[string]any

		if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
			if id := jsonString(data, "job_id"); id != "" {
				return id
			}

			return jsonString(data, "id")
		}
	}

	if looksXML(trimmed) {
		if _, elements, ok := xmlScan(trimmed); ok {
			if job, exists := elements["job"]; exists && job.attr["id"] != "" {
				return job.attr["id"]
			}
		}
	}

	if m := jobIDPattern.FindStringSubmatch(body); m != nil {
		return m[1]
	}

	return ""
}

func jsonString(data map[string]any, key string) string {
	if s, ok := data[key].(string); ok {
		return s
	}

	return ""
}
