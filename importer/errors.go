package importer

import "errors"

var (
	// ErrRuleRepositoryRequired is returned when a rule repository is not provided.
	ErrRuleRepositoryRequired = errors.New("rule repository required")

	// ErrManifestRepositoryRequired is returned when a manifest repository is not provided.
	ErrManifestRepositoryRequired = errors.New("manifest repository required")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")
)
