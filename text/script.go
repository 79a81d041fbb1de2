package text

import "unicode"

// Script is the dominant writing system of a string. It selects which
// pattern family the classifiers try first.
type Script int

const (
	// ScriptNeutral strings hold only digits, punctuation and symbols
	ScriptNeutral Script = iota
	// ScriptLatin covers Latin, Cyrillic and Greek letters
	ScriptLatin
	// ScriptCJK covers Han, Kana and Hangul
	ScriptCJK
)

// String returns a string representation of the script
func (s Script) String() string {
	switch s {
	case ScriptLatin:
		return "Latin"
	case ScriptCJK:
		return "CJK"
	default:
		return "Neutral"
	}
}

// DetectScript counts letters per script and returns the majority. CJK
// wins ties because a single ideograph usually carries a whole word.
func DetectScript(s string) Script {
	latin, cjk := 0, 0
	for _, r := range s {
		switch {
		case isCJK(r):
			cjk++
		case unicode.IsLetter(r):
			latin++
		}
	}
	switch {
	case cjk == 0 && latin == 0:
		return ScriptNeutral
	case cjk >= latin:
		return ScriptCJK
	default:
		return ScriptLatin
	}
}

// HasCJK reports whether s contains at least one CJK character
func HasCJK(s string) bool {
	for _, r := range s {
		if isCJK(r) {
			return true
		}
	}
	return false
}

// isCJK reports whether r is a CJK character.
// This includes:
//   - CJK Unified Ideographs: U+4E00–U+9FFF
//   - CJK Extension A: U+3400–U+4DBF
//   - Hiragana: U+3040–U+309F
//   - Katakana: U+30A0–U+30FF
//   - Hangul: U+AC00–U+D7AF
func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x3040 && r <= 0x309F) ||
		(r >= 0x30A0 && r <= 0x30FF) ||
		(r >= 0xAC00 && r <= 0xD7AF)
}
