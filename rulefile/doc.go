// Package rulefile reads and writes sandhi rule sources.
//
// A rule source is UTF-8 text with one rule per line and exactly three
// tab-separated fields: left fragment, right fragment, combined form.
// There is no header row and no quoting; every non-blank line is a rule.
// Fields may contain spaces. Fields are normalized to Unicode NFC so that
// precomposed and decomposed diacritics index identically.
package rulefile
