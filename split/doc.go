// Package split enumerates candidate splits of a string with respect to a
// sandhi rule table.
//
// For every split position the Splitter first emits the baseline candidate,
// the input cut as-is. It then slides a window of increasing length over
// the text following the split point; whenever the window's text is a
// combined form in the table, it emits one candidate per decomposition,
// with the window replaced by the rule's left fragment on the prefix side
// and its right fragment on the suffix side.
//
// Candidates are ordered by position, then baseline before rule matches,
// then by window length, then by table registration order. The sequence
// is not deduplicated.
//
// Input is NFC-normalized before enumeration, matching the normalization
// applied to rule files, and all positions and windows are counted in runes
// of the normalized input. WithPreserveForm(true) splits the input as given.
//
// # Window bound
//
// WindowInclusive (the default) probes windows 1 through the table's
// maximum key length. WindowLegacy probes windows 0 through max-1 and never
// lets a window reach the end of the input, which reproduces the output of
// older tooling byte for byte on ASCII data.
//
// # Trailing position
//
// By default the last split position is one rune before the end of the
// input, so no candidate has an empty suffix. WithTrailingPosition(true)
// adds the position at the end of the input.
package split
