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
	"fmt"
)

// RecordFields is the number of fields every rule record carries:
// left fragment, right fragment, combined form.
const RecordFields = 3

// ValidateRule validates a Rule according to domain rules.
//
// Validation rules:
//   - Combined must not be empty
//
// NOT validated:
//   - Left and Right (either fragment may be empty, e.g. elision rules)
//   - ID (0 is valid before the rule is stored)
func ValidateRule(rule *Rule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule is nil", ErrInvalidRule)
	}

	if rule.Combined == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRule, ErrEmptyCombined)
	}

	return nil
}

// RuleFromRecord converts a raw record into a Rule.
// index is the record's position in its sequence and is reported in errors.
// Fields past the third are ignored.
func RuleFromRecord(record []string, index int) (Rule, error) {
	if len(record) < RecordFields {
		return Rule{}, &FormatError{Record: index, Fields: len(record)}
	}
	rule := Rule{
		Left:     record[0],
		Right:    record[1],
		Combined: record[2],
	}
	if err := ValidateRule(&rule); err != nil {
		return Rule{}, &FormatError{Record: index, Fields: len(record), Reason: err.Error()}
	}
	return rule, nil
}
