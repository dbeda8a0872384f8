package membership_test

import (
	"context"
	"errors"
	"testing"

	"github.com/halaqahub/halaqahub/internal/app/membership"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"github.com/halaqahub/halaqahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newReconciler(s *testutil.Store) *membership.Reconciler {
	return membership.NewReconciler(s.Groups(), s.Mentees(), s.History(), nil)
}

func TestClassify(t *testing.T) {
	target := primitive.NewObjectID()
	other := primitive.NewObjectID()

	if _, conflict := membership.Classify(models.Mentee{ID: primitive.NewObjectID()}, target); conflict {
		t.Errorf("ungrouped mentee should be a simple attach")
	}
	if _, conflict := membership.Classify(models.Mentee{ID: primitive.NewObjectID(), GroupID: &target}, target); conflict {
		t.Errorf("mentee already in the target group should be a simple attach")
	}
	c, conflict := membership.Classify(models.Mentee{ID: primitive.NewObjectID(), GroupID: &other}, target)
	if !conflict {
		t.Fatalf("mentee in another group should be a conflicting reassign")
	}
	if c.CurrentGroupID != other {
		t.Errorf("conflict current group: got %s, want %s", c.CurrentGroupID.Hex(), other.Hex())
	}
}

func TestProposeAttach_SplitsSimpleAndConflicts(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	groupA := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	groupB := fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, nil)
	free := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	taken := fixtures.CreateMentee(ctx, "Rizky", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, groupA.ID, taken.ID)

	rec := newReconciler(s)
	prop, err := rec.ProposeAttach(ctx, groupB.ID, []primitive.ObjectID{free.ID, taken.ID})
	if err != nil {
		t.Fatalf("ProposeAttach failed: %v", err)
	}

	if len(prop.Simple) != 1 || prop.Simple[0].ID != free.ID {
		t.Errorf("expected only the ungrouped mentee to be simple, got %d simple", len(prop.Simple))
	}
	if len(prop.Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(prop.Conflicts))
	}
	if prop.Conflicts[0].CurrentGroupID != groupA.ID {
		t.Errorf("conflict current group: got %s, want %s", prop.Conflicts[0].CurrentGroupID.Hex(), groupA.ID.Hex())
	}

	// Proposing must not write anything.
	got, err := s.Mentees().GetByID(ctx, taken.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.GroupID == nil || *got.GroupID != groupA.ID {
		t.Errorf("propose must not move the mentee")
	}
}

func TestProposeAttach_GenderMismatchBeforeAnyWrite(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	group := fixtures.CreateGroup(ctx, "Halaqah Annisa", models.GenderAkhwat, nil)
	ok := fixtures.CreateMentee(ctx, "Aisyah", models.GenderAkhwat)
	wrong := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)

	rec := newReconciler(s)
	_, err := rec.ProposeAttach(ctx, group.ID, []primitive.ObjectID{ok.ID, wrong.ID})

	var gm *membership.GenderMismatchError
	if !errors.As(err, &gm) {
		t.Fatalf("expected GenderMismatchError, got %v", err)
	}
	if len(gm.MenteeIDs) != 1 || gm.MenteeIDs[0] != wrong.ID {
		t.Errorf("mismatch should name only the wrong-gender mentee")
	}

	// The whole request is rejected; the matching mentee stays put too.
	got, _ := s.Mentees().GetByID(ctx, ok.ID)
	if got.GroupID != nil {
		t.Errorf("no mentee may be attached when the request is rejected")
	}
}

func TestProposeAttach_TargetGroupErrors(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	rec := newReconciler(s)
	mentee := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)

	if _, err := rec.ProposeAttach(ctx, primitive.NewObjectID(), []primitive.ObjectID{mentee.ID}); !errors.Is(err, membership.ErrGroupNotFound) {
		t.Errorf("stale group id: got %v, want ErrGroupNotFound", err)
	}

	trashed := fixtures.CreateGroup(ctx, "Old Group", models.GenderIkhwan, nil)
	if _, err := s.Groups().GetByID(ctx, trashed.ID); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if err := s.Groups().SetDeleted(ctx, trashed.ID, trashed.CreatedAt); err != nil {
		t.Fatalf("SetDeleted failed: %v", err)
	}
	if _, err := rec.ProposeAttach(ctx, trashed.ID, []primitive.ObjectID{mentee.ID}); !errors.Is(err, membership.ErrGroupNotActive) {
		t.Errorf("trashed group: got %v, want ErrGroupNotActive", err)
	}
}

func TestProposeAttach_StaleMenteeIDs(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	group := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	mentee := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	stale := primitive.NewObjectID()

	rec := newReconciler(s)
	_, err := rec.ProposeAttach(ctx, group.ID, []primitive.ObjectID{mentee.ID, stale})

	var nf *membership.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(nf.MenteeIDs) != 1 || nf.MenteeIDs[0] != stale {
		t.Errorf("not-found should name the stale id")
	}
	if !errors.Is(err, membership.ErrMenteeNotFound) {
		t.Errorf("NotFoundError should unwrap to ErrMenteeNotFound")
	}
}

func TestCommitAttach_RequiresConfirmationForConflicts(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	groupA := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	groupB := fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, nil)
	mentee := fixtures.CreateMentee(ctx, "Rizky", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, groupA.ID, mentee.ID)

	rec := newReconciler(s)
	prop, err := rec.ProposeAttach(ctx, groupB.ID, []primitive.ObjectID{mentee.ID})
	if err != nil {
		t.Fatalf("ProposeAttach failed: %v", err)
	}

	if _, err := rec.CommitAttach(ctx, prop, false); !errors.Is(err, membership.ErrReassignNotConfirmed) {
		t.Fatalf("unconfirmed commit: got %v, want ErrReassignNotConfirmed", err)
	}
	got, _ := s.Mentees().GetByID(ctx, mentee.ID)
	if got.GroupID == nil || *got.GroupID != groupA.ID {
		t.Fatalf("unconfirmed commit must not move the mentee")
	}

	n, err := rec.CommitAttach(ctx, prop, true)
	if err != nil {
		t.Fatalf("confirmed commit failed: %v", err)
	}
	if n != 1 {
		t.Errorf("moved count: got %d, want 1", n)
	}
	got, _ = s.Mentees().GetByID(ctx, mentee.ID)
	if got.GroupID == nil || *got.GroupID != groupB.ID {
		t.Fatalf("confirmed commit should move the mentee to the target group")
	}

	entries := s.History().All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.FromGroupID == nil || *e.FromGroupID != groupA.ID || e.ToGroupID == nil || *e.ToGroupID != groupB.ID {
		t.Errorf("history entry should record the old and new group")
	}
}

func TestCommitAttach_SkipsMenteesAlreadyInTarget(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	group := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	already := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	fresh := fixtures.CreateMentee(ctx, "Rizky", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, group.ID, already.ID)

	rec := newReconciler(s)
	prop, err := rec.ProposeAttach(ctx, group.ID, []primitive.ObjectID{already.ID, fresh.ID})
	if err != nil {
		t.Fatalf("ProposeAttach failed: %v", err)
	}
	n, err := rec.CommitAttach(ctx, prop, false)
	if err != nil {
		t.Fatalf("CommitAttach failed: %v", err)
	}
	if n != 1 {
		t.Errorf("attached count: got %d, want 1 (re-attach is a no-op)", n)
	}
	if entries := s.History().All(); len(entries) != 1 {
		t.Errorf("no-op attach must not produce history, got %d entries", len(entries))
	}
}

func TestDetach_IsIdempotent(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	group := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	mentee := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, group.ID, mentee.ID)

	rec := newReconciler(s)
	n, err := rec.Detach(ctx, group.ID, []primitive.ObjectID{mentee.ID})
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if n != 1 {
		t.Errorf("detached count: got %d, want 1", n)
	}

	n, err = rec.Detach(ctx, group.ID, []primitive.ObjectID{mentee.ID})
	if err != nil {
		t.Fatalf("second Detach failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second detach should be a no-op, got %d", n)
	}
	if entries := s.History().All(); len(entries) != 1 {
		t.Errorf("repeated detach must not add history, got %d entries", len(entries))
	}
}

func TestMove_SingleCallNoUngroupedState(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	groupA := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	groupB := fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, nil)
	mentee := fixtures.CreateMentee(ctx, "Rizky", models.GenderIkhwan)
	fixtures.AttachMentees(ctx, groupA.ID, mentee.ID)

	rec := newReconciler(s)
	n, err := rec.Move(ctx, groupA.ID, groupB.ID, []primitive.ObjectID{mentee.ID})
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if n != 1 {
		t.Errorf("moved count: got %d, want 1", n)
	}

	got, _ := s.Mentees().GetByID(ctx, mentee.ID)
	if got.GroupID == nil || *got.GroupID != groupB.ID {
		t.Fatalf("mentee should now be in the destination group")
	}

	entries := s.History().All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].FromGroupID == nil || *entries[0].FromGroupID != groupA.ID {
		t.Errorf("history should record the source group")
	}
}

func TestMove_RejectsMenteeOutsideSourceGroup(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	groupA := fixtures.CreateGroup(ctx, "Tahfidz A", models.GenderIkhwan, nil)
	groupB := fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, nil)
	outsider := fixtures.CreateMentee(ctx, "Budi", models.GenderIkhwan)

	rec := newReconciler(s)
	_, err := rec.Move(ctx, groupA.ID, groupB.ID, []primitive.ObjectID{outsider.ID})
	if !errors.Is(err, membership.ErrMenteeNotFound) {
		t.Errorf("moving a non-member: got %v, want ErrMenteeNotFound", err)
	}
}

func TestMove_GenderCheckedAgainstTarget(t *testing.T) {
	s := testutil.NewStore()
	fixtures := testutil.NewFixtures(t, s)
	ctx := context.Background()

	groupA := fixtures.CreateGroup(ctx, "Halaqah Annisa", models.GenderAkhwat, nil)
	groupB := fixtures.CreateGroup(ctx, "Tahfidz B", models.GenderIkhwan, nil)
	mentee := fixtures.CreateMentee(ctx, "Aisyah", models.GenderAkhwat)
	fixtures.AttachMentees(ctx, groupA.ID, mentee.ID)

	rec := newReconciler(s)
	_, err := rec.Move(ctx, groupA.ID, groupB.ID, []primitive.ObjectID{mentee.ID})

	var gm *membership.GenderMismatchError
	if !errors.As(err, &gm) {
		t.Fatalf("expected GenderMismatchError, got %v", err)
	}
	got, _ := s.Mentees().GetByID(ctx, mentee.ID)
	if got.GroupID == nil || *got.GroupID != groupA.ID {
		t.Errorf("rejected move must leave the mentee in place")
	}
}
