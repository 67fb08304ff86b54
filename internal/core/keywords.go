package core

// keywords.go extracts the most frequent terms of the free-text columns
// per R&D category. The word-cloud renderer uses them when no prebuilt
// image exists for a category.

import (
	"strings"
	"unicode"

	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/keilerkonzept/topk"
)

// DefaultKeywordCount is the number of terms kept per category.
const DefaultKeywordCount = 40

const minTermLength = 3

var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "from": true,
	"that": true, "their": true, "into": true, "which": true, "this": true,
	"are": true, "its": true, "can": true, "such": true, "more": true,
	"new": true, "use": true, "using": true, "based": true, "other": true,
	"than": true, "also": true, "them": true, "they": true, "these": true,
	"has": true, "have": true, "will": true, "not": true, "but": true,
	"via": true, "all": true, "our": true, "was": true, "were": true,
}

// Keyword is one term and its estimated frequency.
type Keyword struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// KeywordIndex holds the top terms for every category and for "All".
// It is built once and read-only afterwards.
type KeywordIndex struct {
	k          int
	byCategory map[string][]Keyword
}

// BuildKeywordIndex scans the free-text columns of records.
func BuildKeywordIndex(records []Company, k int) *KeywordIndex {
	if k <= 0 {
		k = DefaultKeywordCount
	}

	sketches := map[string]*topk.Sketch{controls.All: topk.New(k)}
	for _, r := range records {
		if r.Category != "" && sketches[r.Category] == nil {
			sketches[r.Category] = topk.New(k)
		}
		for _, term := range Tokenize(r.UsesAITo + " " + r.AllowsResearchersTo) {
			sketches[controls.All].Incr(term)
			if r.Category != "" {
				sketches[r.Category].Incr(term)
			}
		}
	}

	idx := &KeywordIndex{k: k, byCategory: make(map[string][]Keyword, len(sketches))}
	for category, sk := range sketches {
		items := sk.SortedSlice()
		words := make([]Keyword, 0, len(items))
		for _, it := range items {
			if it.Count == 0 {
				continue
			}
			words = append(words, Keyword{Term: it.Item, Count: int(it.Count)})
		}
		idx.byCategory[category] = words
	}
	return idx
}

// Top returns the top terms of category, most frequent first. Unknown
// categories have no terms.
func (idx *KeywordIndex) Top(category string) []Keyword {
	words := idx.byCategory[category]
	out := make([]Keyword, len(words))
	copy(out, words)
	return out
}

// Tokenize lowercases s and splits it into terms, dropping stop-words,
// numbers and very short tokens.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})

	var terms []string
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if len(f) < minTermLength || stopWords[f] || isNumber(f) {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
