// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// ErrMalformedRecord indicates a rule record could not supply all of its fields.
	ErrMalformedRecord = errors.New("malformed rule record")

	// ErrEmptyTable indicates a split was requested against a table with no rules.
	ErrEmptyTable = errors.New("rule table is empty")

	// ErrInvalidRule indicates a Rule failed validation.
	ErrInvalidRule = errors.New("invalid rule")

	// ErrEmptyCombined indicates the combined form of a rule is empty.
	ErrEmptyCombined = errors.New("combined form cannot be empty")
)

// FormatError reports a rule record that cannot be turned into a rule.
// It wraps ErrMalformedRecord.
type FormatError struct {
	Record int    // 0-based index of the record in its sequence
	Line   int    // 1-based line in the rule source, 0 when unknown
	Fields int    // Number of fields the record supplied
	Reason string // Optional detail
}

func (e *FormatError) Error() string {
	var where string
	if e.Line > 0 {
		where = fmt.Sprintf("line %d", e.Line)
	} else {
		where = fmt.Sprintf("record %d", e.Record)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s: %s", ErrMalformedRecord, where, e.Reason)
	}
	return fmt.Sprintf("%s: %s: expected 3 fields, got %d", ErrMalformedRecord, where, e.Fields)
}

func (e *FormatError) Unwrap() error {
	return ErrMalformedRecord
}
