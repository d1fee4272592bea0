package scraper

import (
	"regexp"
	"strings"
)

// moneyPattern matches "$1,234.56", "$50", "500 dollars" and "20 USD".
var moneyPattern = regexp.MustCompile(`(?i)\$\s?\d[\d,]*(?:\.\d+)?|\d[\d,]*(?:\.\d+)?\s*(?:dollars?|usd)\b`)

// ClassifyMoneyMention reports whether any of texts mentions an amount of money.
func ClassifyMoneyMention(texts ...string) bool {
	for _, text := range texts {
		if moneyPattern.MatchString(text) {
			return true
		}
	}
	return false
}

// CountSearchPhrase counts case-insensitive, non-overlapping occurrences of
// phrase across texts.
func CountSearchPhrase(phrase string, texts ...string) int {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return 0
	}
	n := 0
	for _, text := range texts {
		n += strings.Count(strings.ToLower(text), phrase)
	}
	return n
}

// normalizeSpace trims s and collapses internal whitespace runs.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
