// internal/app/features/groups/handler_test.go
package groups_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/halaqahub/halaqahub/internal/app/features/groups"
	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/membership"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"github.com/halaqahub/halaqahub/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	s := testutil.NewStore()
	log := zap.NewNop()
	rec := membership.NewReconciler(s.Groups(), s.Mentees(), s.History(), log)
	lc := lifecycle.NewManager(s.Groups(), s.Mentors(), s.Mentees(), rec, log)
	h := groups.NewHandler(s.Groups(), s.Mentors(), s.Mentees(), lc, rec, log)
	return h, testutil.NewFixtures(t, s)
}

func TestHandleAttach_ConflictNeedsConfirmation(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()

	source := f.CreateGroup(ctx, "Halaqah Asal", models.GenderIkhwan, nil)
	target := f.CreateGroup(ctx, "Halaqah Tujuan", models.GenderIkhwan, nil)
	mentee := f.CreateMentee(ctx, "Budi", models.GenderIkhwan)
	f.AttachMentees(ctx, source.ID, mentee.ID)

	body := map[string]any{"mentee_ids": []string{mentee.ID.Hex()}}
	req := testutil.WithChiURLParam(
		testutil.NewJSONRequest(http.MethodPost, "/"+target.ID.Hex()+"/mentees/attach", body),
		"id", target.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleAttach(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "reassign_confirmation_required")
	rec.AssertContains(t, source.ID.Hex())

	got, err := f.Store().Mentees().GetByID(ctx, mentee.ID)
	if err != nil {
		t.Fatalf("reload mentee: %v", err)
	}
	if got.GroupID == nil || *got.GroupID != source.ID {
		t.Errorf("mentee moved before confirmation: group = %v", got.GroupID)
	}

	body["confirm_reassign"] = true
	req = testutil.WithChiURLParam(
		testutil.NewJSONRequest(http.MethodPost, "/"+target.ID.Hex()+"/mentees/attach", body),
		"id", target.ID.Hex())
	rec = testutil.NewRecorder()
	h.HandleAttach(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Attached int `json:"attached"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Attached != 1 {
		t.Errorf("attached: got %d, want 1", resp.Attached)
	}
	got, _ = f.Store().Mentees().GetByID(ctx, mentee.ID)
	if got.GroupID == nil || *got.GroupID != target.ID {
		t.Errorf("mentee not in target after confirmed attach: group = %v", got.GroupID)
	}
}

func TestHandleAttach_GenderMismatch(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()

	group := f.CreateGroup(ctx, "Halaqah Ikhwan", models.GenderIkhwan, nil)
	mentee := f.CreateMentee(ctx, "Aisyah", models.GenderAkhwat)

	req := testutil.WithChiURLParam(
		testutil.NewJSONRequest(http.MethodPost, "/"+group.ID.Hex()+"/mentees/attach",
			map[string]any{"mentee_ids": []string{mentee.ID.Hex()}}),
		"id", group.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleAttach(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "gender_mismatch")
}

func TestHandleDetach_Idempotent(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()

	group := f.CreateGroup(ctx, "Halaqah A", models.GenderAkhwat, nil)
	mentee := f.CreateMentee(ctx, "Fatimah", models.GenderAkhwat)
	f.AttachMentees(ctx, group.ID, mentee.ID)

	detach := func() int {
		req := testutil.WithChiURLParam(
			testutil.NewJSONRequest(http.MethodPost, "/"+group.ID.Hex()+"/mentees/detach",
				map[string]any{"mentee_ids": []string{mentee.ID.Hex()}}),
			"id", group.ID.Hex())
		rec := testutil.NewRecorder()
		h.HandleDetach(rec, req)
		rec.AssertStatus(t, http.StatusOK)
		var resp struct {
			Detached int `json:"detached"`
		}
		rec.DecodeJSON(t, &resp)
		return resp.Detached
	}

	if got := detach(); got != 1 {
		t.Errorf("first detach: got %d, want 1", got)
	}
	if got := detach(); got != 0 {
		t.Errorf("second detach: got %d, want 0", got)
	}
}

func TestHandleSoftDelete_DetachesAndTrashes(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()

	group := f.CreateGroup(ctx, "Halaqah B", models.GenderIkhwan, nil)
	m1 := f.CreateMentee(ctx, "Hasan", models.GenderIkhwan)
	m2 := f.CreateMentee(ctx, "Husain", models.GenderIkhwan)
	f.AttachMentees(ctx, group.ID, m1.ID, m2.ID)

	req := testutil.WithChiURLParam(
		testutil.NewRequest(http.MethodDelete, "/"+group.ID.Hex()),
		"id", group.ID.Hex())
	rec := testutil.NewRecorder()
	h.HandleSoftDelete(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var resp struct {
		Detached int `json:"detached"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Detached != 2 {
		t.Errorf("detached: got %d, want 2", resp.Detached)
	}

	got, err := f.Store().Groups().GetByID(ctx, group.ID)
	if err != nil {
		t.Fatalf("reload group: %v", err)
	}
	if got.DeletedAt == nil {
		t.Error("group not trashed after soft delete")
	}

	// Deleting a trashed group again is a state conflict.
	rec = testutil.NewRecorder()
	h.HandleSoftDelete(rec, testutil.WithChiURLParam(
		testutil.NewRequest(http.MethodDelete, "/"+group.ID.Hex()),
		"id", group.ID.Hex()))
	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleList_TrashView(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()

	f.CreateGroup(ctx, "Aktif", models.GenderIkhwan, nil)
	trashed := f.CreateGroup(ctx, "Terhapus", models.GenderIkhwan, nil)

	req := testutil.WithChiURLParam(
		testutil.NewRequest(http.MethodDelete, "/"+trashed.ID.Hex()),
		"id", trashed.ID.Hex())
	h.HandleSoftDelete(testutil.NewRecorder(), req)

	rec := testutil.NewRecorder()
	h.HandleList(rec, testutil.NewRequest(http.MethodGet, "/?view=trash"))
	rec.AssertStatus(t, http.StatusOK)

	var resp struct {
		Groups []struct {
			Name string `json:"name"`
		} `json:"groups"`
		Total int64 `json:"total"`
	}
	rec.DecodeJSON(t, &resp)
	if resp.Total != 1 || len(resp.Groups) != 1 {
		t.Fatalf("trash view: got %d groups (total %d), want 1", len(resp.Groups), resp.Total)
	}
	if resp.Groups[0].Name != "Terhapus" {
		t.Errorf("trash view name: got %q, want %q", resp.Groups[0].Name, "Terhapus")
	}
}

func TestHandleCreate_MentorAlreadyAssigned(t *testing.T) {
	h, f := newHandler(t)
	ctx := context.Background()

	mentor := f.CreateMentor(ctx, "Ustadz Salim", models.GenderIkhwan)
	f.CreateGroup(ctx, "Halaqah Pertama", models.GenderIkhwan, &mentor.ID)

	req := testutil.NewJSONRequest(http.MethodPost, "/", map[string]any{
		"name":      "Halaqah Kedua",
		"mentor_id": mentor.ID.Hex(),
	})
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertErrorCode(t, "mentor_already_assigned")
	rec.AssertContains(t, "Halaqah Pertama")
}
