package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/membership"
	groupstore "github.com/halaqahub/halaqahub/internal/app/store/groups"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"github.com/halaqahub/halaqahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newManager(s *testutil.Store) *lifecycle.Manager {
	rec := membership.NewReconciler(s.Groups(), s.Mentees(), s.History(), nil)
	return lifecycle.NewManager(s.Groups(), s.Mentors(), s.Mentees(), rec, nil)
}

func TestCreate_GenderDerivedFromMentor(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	mentor := fixtures.CreateMentor(ctx, "Ahmad Fauzi", models.GenderIkhwan)
	mgr := newManager(s)

	group, _, err := mgr.Create(ctx, lifecycle.CreateParams{
		Name:     "Tahfidz A",
		MentorID: &mentor.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if group.Gender != models.GenderIkhwan {
		t.Errorf("group gender: got %q, want %q", group.Gender, models.GenderIkhwan)
	}
	if group.MentorID == nil || *group.MentorID != mentor.ID {
		t.Errorf("group should reference the mentor")
	}
}

func TestCreate_MentorAlreadyAssigned(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	mentor := fixtures.CreateMentor(ctx, "Ahmad Fauzi", models.GenderIkhwan)
	fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, &mentor.ID)

	mgr := newManager(s)
	_, _, err := mgr.Create(ctx, lifecycle.CreateParams{
		Name:     "Tahfidz B",
		MentorID: &mentor.ID,
	})

	var ma *lifecycle.MentorAssignedError
	if !errors.As(err, &ma) {
		t.Fatalf("expected MentorAssignedError, got %v", err)
	}
	if ma.GroupName != "Tahfidz A" {
		t.Errorf("error should name the blocking group, got %q", ma.GroupName)
	}
}

func TestCreate_RequiresGenderWithoutMentor(t *testing.T) {
	s := testutil.NewStore()
	ctx := context.Background()

	mgr := newManager(s)
	_, _, err := mgr.Create(ctx, lifecycle.CreateParams{Name: "Tahfidz A"})

	var ve *lifecycle.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["gender"]; !ok {
		t.Errorf("validation should flag the gender field")
	}
}

func TestCreate_InitialMenteesNeedConfirmationWhenGrouped(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	existing := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	taken := fixtures.CreateMentee(ctx, "Rizky", models.GenderIkhwan)
	free := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, existing.ID, taken.ID)

	mgr := newManager(s)
	_, conflicts, err := mgr.Create(ctx, lifecycle.CreateParams{
		Name:      "Tahfidz B",
		Gender:    models.GenderIkhwan,
		MenteeIDs: []primitive.ObjectID{taken.ID, free.ID},
	})
	if !errors.Is(err, membership.ErrReassignNotConfirmed) {
		t.Fatalf("got %v, want ErrReassignNotConfirmed", err)
	}
	if len(conflicts) != 1 || conflicts[0].Mentee.ID != taken.ID {
		t.Fatalf("conflicts should name the grouped mentee")
	}

	// Nothing was created or moved.
	groups, total, err := s.Groups().List(ctx, listActive())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || groups[0].ID != existing.ID {
		t.Fatalf("rejected create must not leave a group behind")
	}

	group, _, err := mgr.Create(ctx, lifecycle.CreateParams{
		Name:            "Tahfidz B",
		Gender:          models.GenderIkhwan,
		MenteeIDs:       []primitive.ObjectID{taken.ID, free.ID},
		ConfirmReassign: true,
	})
	if err != nil {
		t.Fatalf("confirmed Create failed: %v", err)
	}
	for _, id := range []primitive.ObjectID{taken.ID, free.ID} {
		m, _ := s.Mentees().GetByID(ctx, id)
		if m.GroupID == nil || *m.GroupID != group.ID {
			t.Errorf("mentee %s should be in the new group", m.FullName)
		}
	}
}

func TestCreate_DuplicateActiveName(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)

	mgr := newManager(s)
	_, _, err := mgr.Create(ctx, lifecycle.CreateParams{Name: "tahfidz a", Gender: models.GenderIkhwan})

	var ve *lifecycle.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for duplicate name, got %v", err)
	}
	if _, ok := ve.Fields["name"]; !ok {
		t.Errorf("validation should flag the name field")
	}
}

func TestUpdate_ReMentorChecksAssignmentAndGender(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	busy := fixtures.CreateMentor(ctx, "Ahmad Fauzi", models.GenderIkhwan)
	fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, &busy.ID)
	group := fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, nil)

	mgr := newManager(s)

	_, err := mgr.Update(ctx, group.ID, lifecycle.UpdateParams{MentorID: &busy.ID})
	var ma *lifecycle.MentorAssignedError
	if !errors.As(err, &ma) {
		t.Fatalf("expected MentorAssignedError, got %v", err)
	}

	akhwat := fixtures.CreateMentor(ctx, "Siti Aminah", models.GenderAkhwat)
	_, err = mgr.Update(ctx, group.ID, lifecycle.UpdateParams{MentorID: &akhwat.ID})
	var ve *lifecycle.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for gender mismatch, got %v", err)
	}

	free := fixtures.CreateMentor(ctx, "Hasan Basri", models.GenderIkhwan)
	updated, err := mgr.Update(ctx, group.ID, lifecycle.UpdateParams{MentorID: &free.ID})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.MentorID == nil || *updated.MentorID != free.ID {
		t.Errorf("group should now reference the new mentor")
	}
}

func TestSoftDelete_DetachesAllMentees(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	group := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	a := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	b := fixtures.CreateMentee(ctx, "Rizky", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, group.ID, a.ID, b.ID)

	mgr := newManager(s)
	detached, err := mgr.SoftDelete(ctx, group.ID)
	if err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if detached != 2 {
		t.Errorf("detached count: got %d, want 2", detached)
	}

	got, _ := s.Groups().GetByID(ctx, group.ID)
	if got.Active() {
		t.Errorf("group should be trashed")
	}
	for _, id := range []primitive.ObjectID{a.ID, b.ID} {
		m, _ := s.Mentees().GetByID(ctx, id)
		if m.GroupID != nil {
			t.Errorf("mentee %s should be ungrouped after soft delete", m.FullName)
		}
	}
	if entries := s.History().All(); len(entries) != 2 {
		t.Errorf("cascade detach should log history, got %d entries", len(entries))
	}

	if _, err := mgr.SoftDelete(ctx, group.ID); !errors.Is(err, lifecycle.ErrAlreadyDeleted) {
		t.Errorf("second soft delete: got %v, want ErrAlreadyDeleted", err)
	}
}

func TestRestore_DoesNotResurrectMembership(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	group := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	mentee := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, group.ID, mentee.ID)

	mgr := newManager(s)
	if _, err := mgr.SoftDelete(ctx, group.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	restored, err := mgr.Restore(ctx, group.ID)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !restored.Active() {
		t.Errorf("restored group should be active")
	}

	m, _ := s.Mentees().GetByID(ctx, mentee.ID)
	if m.GroupID != nil {
		t.Errorf("restore must not re-attach former members")
	}
}

func TestRestore_RefusedWhenMentorTookAnotherGroup(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	mentor := fixtures.CreateMentor(ctx, "Ahmad Fauzi", models.GenderIkhwan)
	group := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, &mentor.ID)

	mgr := newManager(s)
	if _, err := mgr.SoftDelete(ctx, group.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, &mentor.ID)

	_, err := mgr.Restore(ctx, group.ID)
	var ma *lifecycle.MentorAssignedError
	if !errors.As(err, &ma) {
		t.Fatalf("expected MentorAssignedError, got %v", err)
	}
	got, _ := s.Groups().GetByID(ctx, group.ID)
	if got.Active() {
		t.Errorf("refused restore must leave the group trashed")
	}
}

func TestPermanentDelete_OnlyFromTrash(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	group := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	mgr := newManager(s)

	if err := mgr.PermanentDelete(ctx, group.ID); !errors.Is(err, lifecycle.ErrNotDeleted) {
		t.Fatalf("purging an active group: got %v, want ErrNotDeleted", err)
	}

	if _, err := mgr.SoftDelete(ctx, group.ID); err != nil {
		t.Fatalf("SoftDelete failed: %v", err)
	}
	if err := mgr.PermanentDelete(ctx, group.ID); err != nil {
		t.Fatalf("PermanentDelete failed: %v", err)
	}
	if _, err := s.Groups().GetByID(ctx, group.ID); !errors.Is(err, storeerr.ErrNotFound) {
		t.Errorf("group should be gone, got err=%v", err)
	}
}

func TestBulkLifecycle_PartialSuccess(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	a := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	b := fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, nil)
	stale := primitive.NewObjectID()

	mgr := newManager(s)
	res := mgr.SoftDeleteMany(ctx, []primitive.ObjectID{a.ID, stale, b.ID})
	if res.Succeeded != 2 {
		t.Errorf("succeeded: got %d, want 2", res.Succeeded)
	}
	if len(res.Failures) != 1 || res.Failures[0].ID != stale {
		t.Fatalf("expected one failure for the stale id, got %+v", res.Failures)
	}

	res = mgr.RestoreMany(ctx, []primitive.ObjectID{a.ID, b.ID})
	if res.Succeeded != 2 || len(res.Failures) != 0 {
		t.Errorf("restore many: got %d/%d, want 2/0", res.Succeeded, len(res.Failures))
	}
}

// listActive is the zero filter: active groups, no paging.
func listActive() groupstore.ListParams {
	return groupstore.ListParams{}
}
