// Package convert maps the category-keyed JSON vocabulary schema onto flat
// tabular formats (CSV and XLSX) for bulk import and export. The tabular
// schema is six fixed columns; any other columns are discarded on the way
// back in, and category names are lower-cased.
package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabbuilder/pkg/models"
)

// Columns is the fixed tabular header.
var Columns = []string{"Category", "Word", "Meaning", "Phrase", "Expressions", "Media"}

// SheetName is the worksheet used for XLSX import and export.
const SheetName = "Vocabulary"

// expressionsJoin separates expressions inside their single cell.
const expressionsJoin = "; "

// maxColumnWidth caps auto-sized XLSX columns.
const maxColumnWidth = 50

// ToRows flattens a document into tabular rows, one per word entry, in the
// document's stable category order. The legacy video field takes precedence
// over media when both are present.
func ToRows(doc models.CategoryDocument) [][]string {
	var rows [][]string
	for _, entry := range doc.Flatten() {
		media := entry.Video
		if media == "" {
			media = entry.Media
		}
		rows = append(rows, []string{
			entry.Category,
			entry.Word,
			entry.Meaning,
			entry.Phrase,
			strings.Join(entry.Expressions, expressionsJoin),
			media,
		})
	}
	return rows
}

// FromRows rebuilds a document from tabular rows. The first row is the
// header; columns are addressed by name so column order does not matter.
// Categories are lower-cased and row order is preserved within each
// category. The canonical media key is emitted regardless of which alias
// the source used.
func FromRows(rows [][]string) models.CategoryDocument {
	doc := models.CategoryDocument{}
	if len(rows) < 2 {
		return doc
	}
	idx := headerIndex(rows[0])
	get := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	for _, row := range rows[1:] {
		word := get(row, "Word")
		meaning := get(row, "Meaning")
		if strings.TrimSpace(word) == "" && strings.TrimSpace(meaning) == "" {
			continue
		}
		category := strings.ToLower(strings.TrimSpace(get(row, "Category")))
		if category == "" {
			category = "general"
		}
		entry := models.WordEntry{
			Word:        word,
			Meaning:     meaning,
			Phrase:      get(row, "Phrase"),
			Expressions: splitExpressions(get(row, "Expressions")),
			Media:       get(row, "Media"),
		}
		doc[category] = append(doc[category], entry)
	}
	return doc
}

// WriteCSV writes the document as CSV with a header row.
func WriteCSV(w io.Writer, doc models.CategoryDocument) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}
	for _, row := range ToRows(doc) {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %v", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV export back into a document.
func ReadCSV(r io.Reader) (models.CategoryDocument, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // Allow variable number of fields
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %v", err)
	}
	return FromRows(rows), nil
}

// WriteXLSX writes the document as a single-sheet workbook with auto-sized
// columns.
func WriteXLSX(w io.Writer, doc models.CategoryDocument) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %v", err)
	}

	rows := append([][]string{Columns}, ToRows(doc)...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %v", i+1, err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %v", i+1, err)
		}
	}

	for c := range Columns {
		width := 0
		for _, row := range rows {
			if c < len(row) && len(row[c]) > width {
				width = len(row[c])
			}
		}
		if width+2 > maxColumnWidth {
			width = maxColumnWidth - 2
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("failed to size column %d: %v", c+1, err)
		}
		if err := f.SetColWidth(SheetName, name, name, float64(width+2)); err != nil {
			return fmt.Errorf("failed to size column %s: %v", name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %v", err)
	}
	return nil
}

// ReadXLSX parses a workbook export back into a document. The Vocabulary
// sheet must be present.
func ReadXLSX(r io.Reader) (models.CategoryDocument, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return FromRows(rows), nil
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(Columns))
	for i, cell := range header {
		for _, name := range Columns {
			if strings.EqualFold(strings.TrimSpace(cell), name) {
				idx[name] = i
			}
		}
	}
	return idx
}

func splitExpressions(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	var expressions []string
	for _, part := range strings.Split(cell, ";") {
		if p := strings.TrimSpace(part); p != "" {
			expressions = append(expressions, p)
		}
	}
	return expressions
}
