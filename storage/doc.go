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

// Package storage provides the storage abstraction layer for sandhi rules.
//
// This package defines repository interfaces that decouple rule persistence
// from the rule table and splitter. A store lets a large rule source be
// imported once and reloaded without re-parsing it.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: Operations shared by all repositories (transactions, Close)
//   - RuleRepository: Operations for sandhi rules
//   - ManifestRepository: Records of imported rule sources
//
// Values are serialized with mus-go; see the Marshal and Unmarshal helpers.
//
// # Usage
//
// Open a BadgerDB-backed repository:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewRuleRepository(backend)
//
// Use in tests with in-memory storage:
//
//	rules, manifests, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
