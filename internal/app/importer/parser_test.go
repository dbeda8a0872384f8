package importer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParse_Empty(t *testing.T) {
	res, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 0 || len(res.Errors) != 0 {
		t.Errorf("expected nothing from an empty file, got %d rows %d errors", len(res.Rows), len(res.Errors))
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	res, err := Parse(strings.NewReader("group_name,mentor,mentee_1\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("header row should be skipped, got %d rows", len(res.Rows))
	}
}

func TestParse_WithBOM(t *testing.T) {
	res, err := Parse(strings.NewReader("\ufeffTahfidz A,Ahmad Fauzi,Budi\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(res.Rows))
	}
	if res.Rows[0].GroupName != "Tahfidz A" {
		t.Errorf("BOM should be stripped: got %q", res.Rows[0].GroupName)
	}
}

func TestParse_VariableWidthRows(t *testing.T) {
	csv := `group_name,mentor,mentee_1,mentee_2,mentee_3
Tahfidz A,Ahmad Fauzi,Budi,Rizky,Joko
Tahfidz B,Hasan Basri
Tahfidz C,Umar Said,Andi`

	res, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(res.Rows))
	}
	if got := len(res.Rows[0].MenteeNames); got != 3 {
		t.Errorf("row 1 mentees: got %d, want 3", got)
	}
	if got := len(res.Rows[1].MenteeNames); got != 0 {
		t.Errorf("a row may have zero mentees, got %d", got)
	}
	if res.Rows[1].Line != 3 {
		t.Errorf("line numbering should match the spreadsheet: got %d, want 3", res.Rows[1].Line)
	}
}

func TestParse_RowLevelProblems(t *testing.T) {
	csv := `Tahfidz A,Ahmad Fauzi,Budi
,Hasan Basri,Rizky
Tahfidz C,
tahfidz a,Umar Said`

	res, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 good row, got %d", len(res.Rows))
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %+v", len(res.Errors), res.Errors)
	}
	wantLines := map[int]string{2: "group name", 3: "mentor name", 4: "duplicate group name"}
	for _, re := range res.Errors {
		want, ok := wantLines[re.Line]
		if !ok {
			t.Errorf("unexpected error on line %d: %s", re.Line, re.Reason)
			continue
		}
		if !strings.Contains(re.Reason, want) {
			t.Errorf("line %d reason %q should mention %q", re.Line, re.Reason, want)
		}
	}
}

func TestParse_SingleColumnRow(t *testing.T) {
	res, err := Parse(strings.NewReader("Tahfidz A,Ahmad Fauzi\nLonelyGroup\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("expected 1 good row, got %d", len(res.Rows))
	}
	if len(res.Errors) != 1 {
		t.Fatalf("a group-name-only row is a row error, got %d errors: %+v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].Line != 2 || !strings.Contains(res.Errors[0].Reason, "mentor name") {
		t.Errorf("got error %+v, want mentor name missing on line 2", res.Errors[0])
	}
}

func TestParse_BlankLinesDoNotShiftNumbering(t *testing.T) {
	csv := "Tahfidz A,Ahmad Fauzi\n\nTahfidz B,Hasan Basri\nTahfidz C,\n"
	res, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("expected 2 good rows, got %d", len(res.Rows))
	}
	if res.Rows[1].GroupName != "Tahfidz B" || res.Rows[1].Line != 3 {
		t.Errorf("row after a blank line: got %q on line %d, want Tahfidz B on line 3", res.Rows[1].GroupName, res.Rows[1].Line)
	}
	if len(res.Errors) != 1 || res.Errors[0].Line != 4 {
		t.Errorf("missing-mentor error should keep its physical line 4, got %+v", res.Errors)
	}
}

func TestParse_BlankRowsSkipped(t *testing.T) {
	csv := "Tahfidz A,Ahmad Fauzi\n,,\nTahfidz B,Hasan Basri\n"
	res, err := Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Rows) != 2 || len(res.Errors) != 0 {
		t.Errorf("blank rows should be skipped silently, got %d rows %d errors", len(res.Rows), len(res.Errors))
	}
}

func TestParse_TooManyRows(t *testing.T) {
	var sb strings.Builder
	for i := 0; i <= MaxRows; i++ {
		fmt.Fprintf(&sb, "Group %d,Mentor\n", i)
	}
	if _, err := Parse(strings.NewReader(sb.String())); !errors.Is(err, ErrTooManyRows) {
		t.Fatalf("got %v, want ErrTooManyRows", err)
	}
}
