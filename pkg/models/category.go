package models

import (
	"sort"
	"strings"
)

// CategoryDocument maps a category name to its ordered word list. One
// document is persisted per difficulty level. List order is insertion order;
// nothing in the pipeline sorts.
type CategoryDocument map[string][]WordEntry

// Flatten returns all entries of the document as a single list with the
// category key attached to each entry. Category iteration order follows
// DefaultCategories first, then any unknown categories.
func (d CategoryDocument) Flatten() []WordEntry {
	var all []WordEntry
	seen := make(map[string]bool)
	appendCategory := func(category string) {
		for _, entry := range d[category] {
			entry.Category = category
			all = append(all, entry)
		}
		seen[category] = true
	}
	for _, category := range DefaultCategories {
		if _, ok := d[category]; ok {
			appendCategory(category)
		}
	}
	var extra []string
	for category := range d {
		if !seen[category] {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	for _, category := range extra {
		appendCategory(category)
	}
	return all
}

// Difficulty levels partition the vocabulary into separate documents.
const (
	LevelBeginner     = 1
	LevelIntermediate = 2
	LevelAdvanced     = 3
)

// LearnedLevel is the virtual pseudo-level addressing the learned ledger.
const LearnedLevel = "learned"

// DefaultCategories is the fixed category set, stored lower-case.
var DefaultCategories = []string{
	"general", "science", "business", "literature",
	"travel", "history", "geography", "health",
}

// LevelDescriptions describes each difficulty level for display.
var LevelDescriptions = map[int]string{
	LevelBeginner:     "Beginner - Basic vocabulary with common everyday words",
	LevelIntermediate: "Intermediate - More challenging words for advancing learners",
	LevelAdvanced:     "Advanced - Sophisticated vocabulary for expert learners",
}

// ValidLevel reports whether level is one of the persisted difficulty tiers.
func ValidLevel(level int) bool {
	return level >= LevelBeginner && level <= LevelAdvanced
}

// ValidCategory reports whether name is in the category set, ignoring case.
func ValidCategory(name string) bool {
	for _, c := range DefaultCategories {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
