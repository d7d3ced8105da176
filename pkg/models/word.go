package models

import "strings"

// WordEntry represents a single vocabulary item
type WordEntry struct {
	Word        string   `json:"word" db:"word"`
	Meaning     string   `json:"meaning" db:"meaning"`
	Phrase      string   `json:"phrase,omitempty" db:"phrase"`
	Expressions []string `json:"expressions,omitempty" db:"-"`
	Media       string   `json:"media,omitempty" db:"media"`
	// Video is the legacy name for Media. Old documents and spreadsheets
	// still carry it; Normalize folds it into Media.
	Video string `json:"video,omitempty" db:"-"`
	// Category is not stored inside level documents (it is the containing
	// key) and is attached when entries are flattened into lists.
	Category string `json:"category,omitempty" db:"category"`
	// Level is the difficulty tier (1-3) of the document the entry lives
	// in. Like Category it is attached on flatten, not persisted inside
	// level documents.
	Level int `json:"level,omitempty" db:"level"`
}

// Normalize resolves the legacy video alias onto the canonical Media field.
// Video takes precedence when both are present.
func (w *WordEntry) Normalize() {
	if w.Video != "" {
		w.Media = w.Video
		w.Video = ""
	}
}

// SameWord reports whether the entry's word matches name, ignoring case.
func (w *WordEntry) SameWord(name string) bool {
	return strings.EqualFold(w.Word, name)
}
