package models

// LearnedEntry is a word the user has marked as mastered. Entries live in a
// flat ledger document, not in the per-level category documents, and carry
// the category explicitly.
type LearnedEntry struct {
	WordEntry
	LearnedDate string `json:"learned_date" db:"learned_date"` // RFC 3339
}
