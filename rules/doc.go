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

// Package rules provides the sandhi rule table.
//
// A Table maps a combined surface form to every decomposition that can
// produce it. It is built once from rule records and is read-only after
// construction, so a single Table can be shared by any number of
// goroutines without locking.
//
// # Keys
//
// Each rule registers its combined form as written. When the combined
// form contains spaces, the form with all spaces removed is registered as
// a second key pointing at the same decomposition, so that rules written
// across a word boundary ("a i") still match unspaced input ("ai").
//
// Key lengths are measured in runes, never bytes, so that transliterations
// using combining marks or precomposed diacritics split on character
// boundaries.
//
// # Usage
//
//	table, err := rules.Build([][]string{{"a", "i", "e"}})
//	if err != nil {
//	    return err
//	}
//	pairs := table.Lookup("e") // [{a i}]
package rules
