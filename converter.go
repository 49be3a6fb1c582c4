// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package fileconv

import "context"

// Format is a canonical media type such as "application/pdf".
type Format string

// Canonical media types known to the built-in registry.
const (
	FormatText     Format = "text/plain"
	FormatCSV      Format = "text/csv"
	FormatMarkdown Format = "text/markdown"
	FormatHTML     Format = "text/html"
	FormatXML      Format = "text/xml"
	FormatJSON     Format = "application/json"
	FormatPDF      Format = "application/pdf"
	FormatDOCX     Format = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	FormatXLSX     Format = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	FormatXLS      Format = "application/vnd.ms-excel"
	FormatPPTX     Format = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	FormatJPEG     Format = "image/jpeg"
	FormatPNG      Format = "image/png"
	FormatWebP     Format = "image/webp"
	FormatGIF      Format = "image/gif"
	FormatBMP      Format = "image/bmp"

	formatOctetStream Format = "application/octet-stream"
)

// Request is a single conversion: the source bytes with their declared type and
// name, and the requested target type. A Request is not modified by Convert.
type Request struct {
	Data       []byte
	SourceType Format
	Name       string
	TargetType Format
}

// Result is the output of a conversion. The caller owns it; the converter keeps
// no reference after returning.
type Result struct {
	Data     []byte
	MIMEType Format
	Filename string
}

// Strategy is one conversion path. Strategies are consulted in priority order
// and the first one that accepts a (source, target) pair performs the conversion.
type Strategy interface {
	// Accepts reports whether this strategy handles the pair. It must not
	// inspect request data.
	Accepts(source, target Format) bool

	// Convert produces the target bytes for req.
	Convert(ctx context.Context, req Request) ([]byte, error)
}
