package importer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/halaqahub/halaqahub/internal/app/importer"
	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/membership"
	groupstore "github.com/halaqahub/halaqahub/internal/app/store/groups"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"github.com/halaqahub/halaqahub/internal/testutil"
)

func newProcessor(s *testutil.Store) *importer.Processor {
	rec := membership.NewReconciler(s.Groups(), s.Mentees(), s.History(), nil)
	mgr := lifecycle.NewManager(s.Groups(), s.Mentors(), s.Mentees(), rec, nil)
	return importer.NewProcessor(s.Mentors(), s.Mentees(), mgr, nil)
}

func TestImportGroups_RowGranularCommit(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	for _, name := range []string{"Ahmad Fauzi", "Hasan Basri", "Umar Said", "Zaid Karim"} {
		fixtures.CreateMentor(ctx, name, models.GenderIkhwan)
	}
	fixtures.CreateMentor(ctx, "Siti Aminah", models.GenderAkhwat)
	for _, name := range []string{"Budi", "Rizky", "Joko", "Andi"} {
		fixtures.CreateMentee(ctx, name, models.GenderIkhwan)
	}

	// Row 3's mentor does not exist; the other four rows still import.
	csv := strings.Join([]string{
		"Tahfidz A,Ahmad Fauzi,Budi,Rizky",
		"Tahfidz B,Hasan Basri,Joko",
		"Tahfidz C,No Such Mentor,Andi",
		"Tahfidz D,Umar Said",
		"Tahfidz E,Zaid Karim",
	}, "\n")

	pr := newProcessor(s)
	res, err := pr.ImportGroups(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportGroups failed: %v", err)
	}

	if res.Created != 4 {
		t.Errorf("created: got %d, want 4", res.Created)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("expected 1 failed row, got %d: %+v", len(res.Failures), res.Failures)
	}
	if res.Failures[0].Row != 3 {
		t.Errorf("failure row: got %d, want 3", res.Failures[0].Row)
	}
	if len(res.Failures[0].Errors) != 1 || !strings.Contains(res.Failures[0].Errors[0], "No Such Mentor") {
		t.Errorf("failure should name the missing mentor, got %v", res.Failures[0].Errors)
	}
	if res.ImportID == "" {
		t.Errorf("import run should carry an id")
	}

	groups, total, err := s.Groups().List(ctx, groupstore.ListParams{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected 4 groups, got %d", total)
	}
	for _, g := range groups {
		if g.Name == "Tahfidz C" {
			t.Errorf("the failed row must not create a group")
		}
	}
}

func TestImportGroups_MultipleErrorsOnOneRow(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	fixtures.CreateMentor(ctx, "Ahmad Fauzi", models.GenderIkhwan)
	group := fixtures.CreateGroup(ctx, "Existing", models.GenderIkhwan, nil)
	taken := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, group.ID, taken.ID)
	fixtures.CreateMentee(ctx, "Aisyah", models.GenderAkhwat)

	csv := "Tahfidz A,Ahmad Fauzi,Budi,Aisyah,Ghost\n"
	pr := newProcessor(s)
	res, err := pr.ImportGroups(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportGroups failed: %v", err)
	}

	if res.Created != 0 {
		t.Errorf("created: got %d, want 0", res.Created)
	}
	if len(res.Failures) != 1 {
		t.Fatalf("expected 1 failed row, got %d", len(res.Failures))
	}
	errs := strings.Join(res.Failures[0].Errors, "; ")
	for _, want := range []string{"already belongs", "gender", "not found"} {
		if !strings.Contains(errs, want) {
			t.Errorf("row errors should mention %q, got %q", want, errs)
		}
	}
}

func TestImportGroups_DuplicateOfExistingGroup(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	fixtures.CreateMentor(ctx, "Ahmad Fauzi", models.GenderIkhwan)
	fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)

	pr := newProcessor(s)
	res, err := pr.ImportGroups(ctx, strings.NewReader("tahfidz a,Ahmad Fauzi\n"))
	if err != nil {
		t.Fatalf("ImportGroups failed: %v", err)
	}
	if res.Created != 0 || len(res.Failures) != 1 {
		t.Fatalf("duplicate name should fail the row, got created=%d failures=%d", res.Created, len(res.Failures))
	}
	if !strings.Contains(res.Failures[0].Errors[0], "already exists") {
		t.Errorf("failure should mention the duplicate name, got %v", res.Failures[0].Errors)
	}
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := importer.WriteTemplate(&buf); err != nil {
		t.Fatalf("WriteTemplate failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "group_name,mentor") {
		t.Errorf("template should start with the header row, got %q", out)
	}
	res, err := importer.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("template should parse: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Errorf("template rows should be valid, got %+v", res.Errors)
	}
}
