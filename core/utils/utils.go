// Package utils provides minimal utility functions for common operations.
//
// Overview:
//   - Responsibility: Identifier case transforms and small slice helpers shared by the generator
//   - Key Types: none; stateless functions only
//   - Concurrency Model: All functions are safe for concurrent use (casers are created per call)
//   - Error Semantics: Functions are total; empty input yields empty output
//   - Performance Notes: Called once per run while deriving identifiers, not per file
//
// Usage:
//
//	utils.PascalCase("my-shop_api")  // "MyShopApi"
//	utils.CamelCase("OrderItem")      // "orderItem"
//	utils.SnakeCase("OrderItem")      // "order_item"
package utils

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SplitWords breaks s into words on any non-alphanumeric rune and on case
// boundaries ("shopAPIClient" -> shop, API, Client). Digits stay attached to
// the preceding word.
func SplitWords(s string) []string {
	var words []string
	for _, token := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words = append(words, splitCase(token)...)
	}
	return words
}

func splitCase(token string) []string {
	runes := []rune(token)
	var words []string
	start := 0
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		lowerToUpper := (unicode.IsLower(prev) || unicode.IsDigit(prev)) && unicode.IsUpper(cur)
		acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) &&
			i+1 < len(runes) && unicode.IsLower(runes[i+1])
		if lowerToUpper || acronymEnd {
			words = append(words, string(runes[start:i]))
			start = i
		}
	}
	return append(words, string(runes[start:]))
}

// PascalCase joins the words of s with each word's first letter upper-cased.
// Existing upper-case letters are preserved so acronyms survive.
func PascalCase(s string) string {
	var b strings.Builder
	title := cases.Title(language.Und, cases.NoLower)
	for _, w := range SplitWords(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// CamelCase is PascalCase with the first word lower-cased.
func CamelCase(s string) string {
	words := SplitWords(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(cases.Lower(language.Und).String(words[0]))
	title := cases.Title(language.Und, cases.NoLower)
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// SnakeCase lower-cases the words of s and joins them with underscores.
func SnakeCase(s string) string {
	words := SplitWords(s)
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}

// TrimLeadingDigits drops digits from the start of s.
func TrimLeadingDigits(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsDigit)
}

// SortedUnique returns the distinct strings of slice in ascending order.
func SortedUnique(slice []string) []string {
	seen := make(map[string]bool, len(slice))
	result := make([]string, 0, len(slice))
	for _, item := range slice {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	sort.Strings(result)
	return result
}
