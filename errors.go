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

import (
	"errors"
	"fmt"
	"strings"
)

// UnsupportedPathError is returned when no strategy handles a (source, target) pair,
// or a strategy accepted the pair but has no rule for its exact combination.
type UnsupportedPathError struct {
	Source Format
	Target Format
}

func (e *UnsupportedPathError) Error() string {
	parts := []string{"unsupported conversion path"}
	if e.Source != "" {
		parts = append(parts, fmt.Sprintf("source=%q", e.Source))
	}
	if e.Target != "" {
		parts = append(parts, fmt.Sprintf("target=%q", e.Target))
	}
	return strings.Join(parts, " ")
}

// InvalidRequestError is returned when a Request fails validation.
type InvalidRequestError struct {
	Err error
}

func (e *InvalidRequestError) Error() string { return "invalid request: " + e.Err.Error() }
func (e *InvalidRequestError) Unwrap() error { return e.Err }

// ResourceLimitError is returned when the input exceeds the configured size limit.
type ResourceLimitError struct {
	Size  int64
	Limit int64
}

func (e *ResourceLimitError) Error() string {
	return fmt.Sprintf("input of %d bytes exceeds the %d byte limit", e.Size, e.Limit)
}

// DecodeError is returned when source bytes cannot be decoded as an image.
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError is returned when an encoder or container writer cannot produce output.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// ParseError is returned for malformed CSV, JSON or spreadsheet input.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractionError is returned when text cannot be pulled out of a container.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract text from %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AuthError is returned when the reasoning service credential is missing.
type AuthError struct {
	Key string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("API key required: set %q in the environment or the credential store", e.Key)
}

// NetworkError is returned when the reasoning service cannot be reached.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "reasoning service unreachable: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServiceError is returned when the reasoning service rejects or fails a request.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string { return "reasoning service failed: " + e.Err.Error() }
func (e *ServiceError) Unwrap() error { return e.Err }

// IsUnsupportedPath reports whether the error is an UnsupportedPathError.
func IsUnsupportedPath(err error) bool {
	var target *UnsupportedPathError
	return errors.As(err, &target)
}

// IsAuth reports whether the error is an AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}
