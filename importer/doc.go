// Package importer moves rules from a rule source into a rule store.
//
// An import validates the whole source by building a rule table before
// anything is written, so a malformed source never leaves a half-written
// store behind. When the store already holds exactly the rules of the
// source, the import is skipped unless forced. Otherwise the stored rules
// are replaced in batches, progress is reported to a writer, and a
// manifest recording the source fingerprint is saved.
package importer
