// Package text classifies the content of text chunks.
//
// Table boundaries are often decided by what a line says rather than where
// it sits: a trailing "Source: company filings" or a "(in thousands)" unit
// line belongs to the table's caption, not its grid. This package holds the
// pattern families used for those decisions.
//
// # Normalization
//
// [Normalize] composes the string (NFC), folds full-width ASCII to narrow
// forms and collapses whitespace, so a single pattern matches both "注:"
// and "注：".
//
// # Scripts
//
// Two pattern families are maintained: Latin and CJK. [DetectScript]
// picks which one is tried first; both are always consulted. Behavior on
// other scripts is whatever the two families happen to match.
//
// # Classifiers
//
//   - [IsKeywordLine] - source / note lines
//   - [IsUnitLine] - unit and currency declarations
//   - [IsFootnote] - footnote markers
//   - [IsSerialHeading] - short numbered headings
//   - [EndsSentence] - sentence-final punctuation on running text
//   - [IsNumeric] - amounts, percentages and dash placeholders
package text
