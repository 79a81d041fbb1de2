package text

import (
	"regexp"
	"strings"
	"unicode"
)

// Pattern families. Both the Latin and the CJK family are always tried;
// DetectScript only decides which one runs first. Text in other scripts is
// matched by whatever the two families happen to cover.
var (
	latinKeyword = regexp.MustCompile(`(?i)^(sources?|data sources?|notes?|remarks?|memo|footnotes?)\s*[:.]`)
	cjkKeyword   = regexp.MustCompile(`^(资料来源|數據來源|数据来源|来源|來源|注释|注釋|注|備註|备注|说明|說明|出所|出典)\s*[:：]`)

	latinUnit = regexp.MustCompile(`(?i)^\(?\s*(units?|currency)\s*[:.]|` +
		`^\(?\s*((amounts?|figures?|expressed|stated|presented)\s+)?in\s+(thousands|millions|billions)\b|` +
		`^\(?\s*(rmb|usd|hkd|eur|gbp|jpy|\$|€|£|¥)?\s*('000s?|000s|thousands|millions|billions|mn|bn)\s*\)?$`)
	cjkUnit = regexp.MustCompile(`^\(?\s*(单位|單位|币种|幣種|货币单位|金額單位|金额单位)\s*[:：]|` +
		`^\(?\s*(人民币|人民幣|港币|港幣|美元)?\s*(元|千元|万元|萬元|百万元|百萬元|亿元|億元)\s*\)?$`)

	footnote = regexp.MustCompile(`^(\*+|†|‡|#)\s*\S|^\(?\d{1,2}\)\s*\S|^\[\d{1,2}\]\s*\S|^[①-⑳]`)

	serialHeading = regexp.MustCompile(`(?i)^(\d+(\.\d+)*\.?\s+\S|\d+、|[一二三四五六七八九十]+、|` +
		`\(?[一二三四五六七八九十]+\)|第[一二三四五六七八九十\d]+[章节節部分]|` +
		`(table|figure|exhibit|schedule|appendix)\s+[\dA-Z]+|表\s*\d+|[a-h]\)\s|[ivx]+\.\s)`)

	sentenceEnd = regexp.MustCompile(`[\p{L}\p{N}\)”"'][.!?;]$|[。！？；]$`)

	numeric = regexp.MustCompile(`^[\(\-+−]?\s*[$€£¥]?\s*\d[\d,.\s]*\s*%?\s*\)?$|^[-–—]+$|^n/?a$`)
)

// IsKeywordLine reports whether s opens with a source/note keyword such as
// "Source:" or "资料来源：".
func IsKeywordLine(s string) bool {
	s = Normalize(s)
	if DetectScript(s) == ScriptCJK {
		return cjkKeyword.MatchString(s) || latinKeyword.MatchString(s)
	}
	return latinKeyword.MatchString(s) || cjkKeyword.MatchString(s)
}

// IsUnitLine reports whether s is a unit/currency declaration such as
// "(in thousands)" or "单位：万元".
func IsUnitLine(s string) bool {
	s = Normalize(s)
	if DetectScript(s) == ScriptCJK {
		return cjkUnit.MatchString(s) || latinUnit.MatchString(s)
	}
	return latinUnit.MatchString(s) || cjkUnit.MatchString(s)
}

// IsFootnote reports whether s starts with a footnote marker
func IsFootnote(s string) bool {
	return footnote.MatchString(Normalize(s))
}

// IsSerialHeading reports whether s is a short numbered heading such as
// "3.2 Segment results" or "二、财务报表". maxRunes bounds the length.
func IsSerialHeading(s string, maxRunes int) bool {
	if RuneLen(s) > maxRunes {
		return false
	}
	return serialHeading.MatchString(Normalize(s))
}

// EndsSentence reports whether s reads as a sentence: it ends with
// sentence-final punctuation and holds at least minWords words (Latin) or
// 2*minWords characters (CJK). A trailing "." after a digit does not count.
func EndsSentence(s string, minWords int) bool {
	s = Normalize(s)
	if !sentenceEnd.MatchString(s) {
		return false
	}
	if IsNumeric(strings.TrimRight(s, ".;")) {
		return false
	}
	if HasCJK(s) {
		return RuneLen(s) >= 2*minWords
	}
	return WordCount(s) >= minWords
}

// IsProse reports whether s is running text rather than cell content: a
// sentence, a source/note line, a unit declaration or a footnote.
func IsProse(s string, minWords int) bool {
	return IsKeywordLine(s) || IsUnitLine(s) || IsFootnote(s) || EndsSentence(s, minWords)
}

// IsNumeric reports whether s is a number, amount, percentage or a dash
// placeholder.
func IsNumeric(s string) bool {
	s = strings.ToLower(Normalize(s))
	if s == "" {
		return false
	}
	return numeric.MatchString(s)
}

// WordCount counts whitespace separated words, each CJK character counting
// as one word.
func WordCount(s string) int {
	n := 0
	inWord := false
	for _, r := range Normalize(s) {
		switch {
		case isCJK(r):
			n++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				n++
			}
			inWord = true
		}
	}
	return n
}
