package database

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/vocabbuilder/pkg/models"
)

// MirrorRepository maintains the relational mirror of the JSON vocabulary
// documents. The JSON files stay the source of truth; the mirror is rebuilt
// from them and serves queries that are awkward against flat files.
type MirrorRepository struct{}

// NewMirrorRepository creates a new repository instance
func NewMirrorRepository() *MirrorRepository {
	return &MirrorRepository{}
}

// wordRow is the words table shape.
type wordRow struct {
	Word        string `db:"word"`
	Meaning     string `db:"meaning"`
	Phrase      string `db:"phrase"`
	Expressions string `db:"expressions"`
	Media       string `db:"media"`
	Category    string `db:"category"`
	Level       int    `db:"level"`
}

func (r wordRow) toEntry() models.WordEntry {
	entry := models.WordEntry{
		Word:     r.Word,
		Meaning:  r.Meaning,
		Phrase:   r.Phrase,
		Media:    r.Media,
		Category: r.Category,
		Level:    r.Level,
	}
	// Expressions are stored as a JSON array string, like the legacy
	// exporter wrote them. A broken cell degrades to no expressions.
	if r.Expressions != "" && r.Expressions != "[]" {
		_ = json.Unmarshal([]byte(r.Expressions), &entry.Expressions)
	}
	return entry
}

// ReplaceLevel re-syncs one level of the mirror from a category document,
// in a single transaction: delete the level's rows, insert the flattened
// entries.
func (r *MirrorRepository) ReplaceLevel(level int, doc models.CategoryDocument) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(DB.Rebind("DELETE FROM words WHERE level = ?"), level); err != nil {
		return fmt.Errorf("failed to clear level %d: %v", level, err)
	}

	insert := DB.Rebind(`
		INSERT INTO words (word, meaning, phrase, expressions, media, category, level)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	for _, entry := range doc.Flatten() {
		expressions, err := json.Marshal(entry.Expressions)
		if err != nil {
			return fmt.Errorf("failed to encode expressions for %q: %v", entry.Word, err)
		}
		_, err = tx.Exec(insert,
			entry.Word,
			entry.Meaning,
			entry.Phrase,
			string(expressions),
			entry.Media,
			entry.Category,
			level,
		)
		if err != nil {
			return fmt.Errorf("failed to insert word %q: %v", entry.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit level %d: %v", level, err)
	}
	return nil
}

// ReplaceLearned re-syncs the learned_words table from the ledger.
func (r *MirrorRepository) ReplaceLearned(entries []models.LearnedEntry) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM learned_words"); err != nil {
		return fmt.Errorf("failed to clear learned_words: %v", err)
	}

	insert := DB.Rebind(`
		INSERT INTO learned_words (word, meaning, phrase, expressions, media, category, learned_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	for _, entry := range entries {
		expressions, err := json.Marshal(entry.Expressions)
		if err != nil {
			return fmt.Errorf("failed to encode expressions for %q: %v", entry.Word, err)
		}
		category := entry.Category
		if category == "" {
			category = "general"
		}
		_, err = tx.Exec(insert,
			entry.Word,
			entry.Meaning,
			entry.Phrase,
			string(expressions),
			entry.Media,
			category,
			entry.LearnedDate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert learned word %q: %v", entry.Word, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit learned_words: %v", err)
	}
	return nil
}

// WordsByCategory returns a level's mirror rows for one category, in
// insertion order.
func (r *MirrorRepository) WordsByCategory(level int, category string) ([]models.WordEntry, error) {
	var rows []wordRow
	query := DB.Rebind(`
		SELECT word, meaning, phrase, expressions, media, category, level
		FROM words WHERE level = ? AND category = ? ORDER BY id
	`)
	err := DB.Select(&rows, query, level, strings.ToLower(category))
	if err != nil {
		return nil, fmt.Errorf("failed to get words by category: %v", err)
	}
	entries := make([]models.WordEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

// Search finds mirror rows whose word or meaning matches the pattern,
// case-insensitively.
func (r *MirrorRepository) Search(pattern string) ([]models.WordEntry, error) {
	var rows []wordRow
	like := "%" + pattern + "%"

	var query string
	if DB.DriverName() == "postgres" {
		query = `
			SELECT word, meaning, phrase, expressions, media, category, level
			FROM words WHERE word ILIKE $1 OR meaning ILIKE $1 ORDER BY word
		`
		if err := DB.Select(&rows, query, like); err != nil {
			return nil, fmt.Errorf("failed to search words: %v", err)
		}
	} else {
		query = `
			SELECT word, meaning, phrase, expressions, media, category, level
			FROM words WHERE LOWER(word) LIKE LOWER(?) OR LOWER(meaning) LIKE LOWER(?) ORDER BY word
		`
		if err := DB.Select(&rows, query, like, like); err != nil {
			return nil, fmt.Errorf("failed to search words: %v", err)
		}
	}

	entries := make([]models.WordEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

// CountByCategory returns per-category word counts for a level.
func (r *MirrorRepository) CountByCategory(level int) (map[string]int, error) {
	var rows []struct {
		Category string `db:"category"`
		Count    int    `db:"count"`
	}
	query := DB.Rebind(`
		SELECT category, COUNT(*) AS count FROM words WHERE level = ? GROUP BY category
	`)
	if err := DB.Select(&rows, query, level); err != nil {
		return nil, fmt.Errorf("failed to count words: %v", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Category] = row.Count
	}
	return counts, nil
}
