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

package models

// PaperSize is a supported output media size.
type PaperSize string

const (
	PaperA4      PaperSize = "A4"
	PaperA3      PaperSize = "A3"
	PaperA3Plus  PaperSize = "A3+"
	PaperLetter  PaperSize = "Letter"
	PaperLegal   PaperSize = "Legal"
	PaperTabloid PaperSize = "Tabloid"
)

// ColorMode selects color rendering for a job.
type ColorMode string

const (
	ColorModeColor      ColorMode = "color"
	ColorModeGrayscale  ColorMode = "grayscale"
	ColorModeMonochrome ColorMode = "monochrome"
)

// DuplexMode selects single or double sided output.
type DuplexMode string

const (
	DuplexSimplex   DuplexMode = "simplex"
	DuplexLongEdge  DuplexMode = "duplex_long_edge"
	DuplexShortEdge DuplexMode = "duplex_short_edge"
)

// PrintQuality selects the output quality level.
type PrintQuality string

const (
	QualityDraft  PrintQuality = "draft"
	QualityNormal PrintQuality = "normal"
	QualityHigh   PrintQuality = "high"
)

// PrintSettings are the per-job output preferences. Adapters translate them
// into whatever the target protocol understands.
type PrintSettings struct {
	Copies    int          `json:"copies"`
	PaperSize PaperSize    `json:"paper_size"`
	ColorMode ColorMode    `json:"color_mode"`
	Duplex    DuplexMode   `json:"duplex"`
	Quality   PrintQuality `json:"quality"`
}

// DefaultPrintSettings returns the settings applied when a job carries none.
func DefaultPrintSettings() PrintSettings {
	return PrintSettings{
		Copies:    1,
		PaperSize: PaperA4,
		ColorMode: ColorModeColor,
		Duplex:    DuplexSimplex,
		Quality:   QualityNormal,
	}
}

// PrintJob is the unit of work handed to an adapter. Either Payload or
// FilePath supplies the document bytes; Payload wins when both are set.
type PrintJob struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	FilePath string        `json:"file_path,omitempty"`
	Payload  []byte        `json:"-"`
	Settings PrintSettings `json:"settings"`
}

// PrintMethod records which transport carried a submitted job.
type PrintMethod string

const (
	PrintMethodRaw     PrintMethod = "raw"
	PrintMethodConsole PrintMethod = "console"
	PrintMethodRIP     PrintMethod = "rip"
)

// PrintOutcome reports the result of a print submission.
type PrintOutcome struct {
	Submitted    bool        `json:"submitted"`
	SubmissionID string      `json:"submission_id,omitempty"`
	Method       PrintMethod `json:"method,omitempty"`
	BytesSent    int         `json:"bytes_sent,omitempty"`
	Message      string      `json:"message,omitempty"`

	// EstimatedSeconds is a rough processing-time estimate for controller
	// submissions (RIP stage included).
	EstimatedSeconds int `json:"estimated_seconds,omitempty"`
}
