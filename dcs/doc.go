// Package dcs standardizes morphological tags from the Digital Corpus of
// Sanskrit (DCS) into the word semantics used by sandhi tooling.
//
// DCS distributes its annotations as CoNLL-U. Each token carries a lemma in
// IAST, a universal part of speech and a set of Key=Value features.
// Standardize converts one token into a ParsedWord whose lemma is in SLP1
// and whose features are mapped onto Paninian categories (linga, vibhakti,
// vacana, purusha, lakara).
//
// Unknown feature values are reported as *ConversionError. An unknown
// part-of-speech category is a programming or data error and panics with
// *UnknownCategoryError.
package dcs
