// internal/app/importer/parser.go
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// ErrTooManyRows rejects spreadsheets past MaxRows outright.
var ErrTooManyRows = fmt.Errorf("spreadsheet has more than %d rows", MaxRows)

// Row is one parsed spreadsheet row: a group, its mentor, and zero or
// more mentee names. Line is the physical 1-based line in the file, so
// failure reports match what the operator sees in their spreadsheet.
type Row struct {
	Line        int
	GroupName   string
	MentorName  string
	MenteeNames []string
}

// RowError is a row the parser rejected. Rejected rows never block the
// rest of the file.
type RowError struct {
	Line   int
	Reason string
}

// ParseResult separates usable rows from rejected ones.
type ParseResult struct {
	Rows   []Row
	Errors []RowError
}

// Parse reads the group spreadsheet: column 1 group name, column 2
// mentor name, remaining columns mentee names (variable width). A
// leading header row is detected and skipped but still counted in line
// numbering. Parse only rejects the whole file for unreadable input or
// a row count past MaxRows; everything else is a per-row error.
func Parse(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var res ParseResult
	seenNames := make(map[string]int)
	first := true

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.Errors = append(res.Errors, RowError{Line: pe.Line, Reason: "malformed CSV: " + pe.Err.Error()})
				continue
			}
			return ParseResult{}, fmt.Errorf("read spreadsheet: %w", err)
		}
		// Physical file line, not a record count: the reader skips
		// empty lines and a quoted field may span several, so counting
		// records would shift every report after a blank line.
		line, _ := cr.FieldPos(0)

		if first {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			first = false
			if looksLikeHeader(record) {
				continue
			}
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if blankRecord(record) {
			continue
		}

		if len(res.Rows)+len(res.Errors) >= MaxRows {
			return ParseResult{}, ErrTooManyRows
		}

		row := Row{Line: line, GroupName: record[0]}
		if len(record) > 1 {
			row.MentorName = record[1]
		}
		if len(record) > 2 {
			for _, cell := range record[2:] {
				if cell != "" {
					row.MenteeNames = append(row.MenteeNames, cell)
				}
			}
		}

		switch {
		case row.GroupName == "":
			res.Errors = append(res.Errors, RowError{Line: line, Reason: "group name is missing"})
			continue
		case row.MentorName == "":
			res.Errors = append(res.Errors, RowError{Line: line, Reason: "mentor name is missing"})
			continue
		case len(row.MenteeNames) > MaxMenteesPerRow:
			res.Errors = append(res.Errors, RowError{Line: line, Reason: fmt.Sprintf("more than %d mentees on one row", MaxMenteesPerRow)})
			continue
		}

		folded := text.Fold(row.GroupName)
		if prev, dup := seenNames[folded]; dup {
			res.Errors = append(res.Errors, RowError{Line: line, Reason: fmt.Sprintf("duplicate group name (also on row %d)", prev)})
			continue
		}
		seenNames[folded] = line

		res.Rows = append(res.Rows, row)
	}

	return res, nil
}

func looksLikeHeader(record []string) bool {
	if len(record) < 2 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	second := strings.ToLower(strings.TrimSpace(record[1]))
	return strings.Contains(first, "group") || strings.Contains(first, "halaqah") ||
		strings.Contains(second, "mentor") || strings.Contains(second, "murabbi")
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if cell != "" {
			return false
		}
	}
	return true
}
