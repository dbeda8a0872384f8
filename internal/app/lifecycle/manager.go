// internal/app/lifecycle/manager.go
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halaqahub/halaqahub/internal/app/membership"
	"github.com/halaqahub/halaqahub/internal/app/policy/genderpolicy"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/app/system/normalize"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Manager drives the group lifecycle: create with optional mentor and
// initial mentees, update, soft delete to trash, restore, and permanent
// deletion. Membership side effects go through the reconciler so every
// cascade lands in the reassignment history.
type Manager struct {
	Groups  GroupStore
	Mentors MentorStore
	Mentees membership.MenteeStore
	Rec     *membership.Reconciler
	Log     *zap.Logger
}

func NewManager(groups GroupStore, mentors MentorStore, mentees membership.MenteeStore, rec *membership.Reconciler, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{Groups: groups, Mentors: mentors, Mentees: mentees, Rec: rec, Log: log}
}

// CreateParams is the input for Create. Gender may be empty when a
// mentor is given; the group then takes the mentor's gender. MenteeIDs
// are attached after the group exists; ConfirmReassign covers mentees
// that already belong to another group.
type CreateParams struct {
	Name            string
	Description     string
	Gender          models.Gender
	MentorID        *primitive.ObjectID
	MenteeIDs       []primitive.ObjectID
	ConfirmReassign bool
}

// Create validates everything before the first write: mentor exists and
// is free, gender is resolved, every initial mentee exists and matches
// the gender rule. Grouped initial mentees are conflicts; without
// ConfirmReassign they are returned alongside ErrReassignNotConfirmed
// and nothing is created.
func (mg *Manager) Create(ctx context.Context, p CreateParams) (models.Group, []membership.Conflict, error) {
	name := normalize.Name(p.Name)
	if name == "" {
		return models.Group{}, nil, &ValidationError{Fields: map[string]string{"name": "name is required"}}
	}

	gender := p.Gender
	if p.MentorID != nil {
		mentor, err := mg.Mentors.GetByID(ctx, *p.MentorID)
		if err != nil {
			if errors.Is(err, storeerr.ErrNotFound) {
				return models.Group{}, nil, ErrMentorNotFound
			}
			return models.Group{}, nil, fmt.Errorf("load mentor: %w", err)
		}
		if gender == "" {
			gender = mentor.Gender
		} else if gender != mentor.Gender {
			return models.Group{}, nil, &ValidationError{Fields: map[string]string{"gender": "gender must match the mentor's gender"}}
		}
		if err := mg.requireMentorFree(ctx, *p.MentorID, primitive.NilObjectID); err != nil {
			return models.Group{}, nil, err
		}
	}
	if !gender.Valid() {
		return models.Group{}, nil, &ValidationError{Fields: map[string]string{"gender": "gender is required when no mentor is given"}}
	}

	var simple []models.Mentee
	var conflicts []membership.Conflict
	if len(p.MenteeIDs) > 0 {
		mentees, err := mg.Mentees.GetByIDs(ctx, p.MenteeIDs)
		if err != nil {
			return models.Group{}, nil, fmt.Errorf("load mentees: %w", err)
		}
		if len(mentees) < len(p.MenteeIDs) {
			return models.Group{}, nil, &membership.NotFoundError{MenteeIDs: missingMenteeIDs(p.MenteeIDs, mentees)}
		}
		if _, mismatched := genderpolicy.Partition(gender, mentees); len(mismatched) > 0 {
			ids := make([]primitive.ObjectID, len(mismatched))
			for i, m := range mismatched {
				ids[i] = m.ID
			}
			return models.Group{}, nil, &membership.GenderMismatchError{MenteeIDs: ids}
		}
		for _, m := range mentees {
			if m.GroupID != nil {
				conflicts = append(conflicts, membership.Conflict{Mentee: m, CurrentGroupID: *m.GroupID})
			} else {
				simple = append(simple, m)
			}
		}
		if len(conflicts) > 0 && !p.ConfirmReassign {
			return models.Group{}, conflicts, membership.ErrReassignNotConfirmed
		}
	}

	group, err := mg.Groups.Create(ctx, models.Group{
		Name:        name,
		Description: p.Description,
		MentorID:    p.MentorID,
		Gender:      gender,
	})
	if err != nil {
		if errors.Is(err, storeerr.ErrDuplicate) {
			return models.Group{}, nil, &ValidationError{Fields: map[string]string{"name": "an active group with this name already exists"}}
		}
		return models.Group{}, nil, fmt.Errorf("create group: %w", err)
	}

	if len(simple) > 0 || len(conflicts) > 0 {
		prop := membership.Proposal{GroupID: group.ID, Simple: simple, Conflicts: conflicts}
		if _, err := mg.Rec.CommitAttach(ctx, prop, true); err != nil {
			return group, nil, fmt.Errorf("attach initial mentees: %w", err)
		}
	}

	mg.Log.Info("group created",
		zap.String("group_id", group.ID.Hex()),
		zap.String("name", group.Name),
		zap.Int("mentees", len(simple)+len(conflicts)))
	return group, nil, nil
}

// UpdateParams carries partial updates; nil means leave unchanged.
// ClearMentor removes the mentor and wins over MentorID.
type UpdateParams struct {
	Name        *string
	Description *string
	MentorID    *primitive.ObjectID
	ClearMentor bool
}

// Update edits an active group's name, description or mentor. Changing
// the mentor re-checks the one-active-group rule and that the new
// mentor's gender matches the group.
func (mg *Manager) Update(ctx context.Context, id primitive.ObjectID, p UpdateParams) (models.Group, error) {
	group, err := mg.getGroup(ctx, id)
	if err != nil {
		return models.Group{}, err
	}
	if !group.Active() {
		return models.Group{}, membership.ErrGroupNotActive
	}

	if p.Name != nil {
		name := normalize.Name(*p.Name)
		if name == "" {
			return models.Group{}, &ValidationError{Fields: map[string]string{"name": "name is required"}}
		}
		group.Name = name
	}
	if p.Description != nil {
		group.Description = *p.Description
	}

	switch {
	case p.ClearMentor:
		group.MentorID = nil
	case p.MentorID != nil:
		sameMentor := group.MentorID != nil && *group.MentorID == *p.MentorID
		if !sameMentor {
			mentor, err := mg.Mentors.GetByID(ctx, *p.MentorID)
			if err != nil {
				if errors.Is(err, storeerr.ErrNotFound) {
					return models.Group{}, ErrMentorNotFound
				}
				return models.Group{}, fmt.Errorf("load mentor: %w", err)
			}
			if mentor.Gender != group.Gender {
				return models.Group{}, &ValidationError{Fields: map[string]string{"mentor_id": "mentor's gender must match the group"}}
			}
			if err := mg.requireMentorFree(ctx, *p.MentorID, id); err != nil {
				return models.Group{}, err
			}
			group.MentorID = p.MentorID
		}
	}

	if err := mg.Groups.Update(ctx, group); err != nil {
		if errors.Is(err, storeerr.ErrDuplicate) {
			return models.Group{}, &ValidationError{Fields: map[string]string{"name": "an active group with this name already exists"}}
		}
		return models.Group{}, fmt.Errorf("update group: %w", err)
	}
	return group, nil
}

// SoftDelete moves the group to the trash. All mentees are detached
// first (with history entries), so a trashed group never holds members.
// Returns the number of mentees detached.
func (mg *Manager) SoftDelete(ctx context.Context, id primitive.ObjectID) (int, error) {
	group, err := mg.getGroup(ctx, id)
	if err != nil {
		return 0, err
	}
	if !group.Active() {
		return 0, ErrAlreadyDeleted
	}

	mentees, err := mg.Mentees.ListByGroup(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("list group mentees: %w", err)
	}
	detached := 0
	if len(mentees) > 0 {
		ids := make([]primitive.ObjectID, len(mentees))
		for i, m := range mentees {
			ids[i] = m.ID
		}
		detached, err = mg.Rec.Detach(ctx, id, ids)
		if err != nil {
			return 0, err
		}
	}

	if err := mg.Groups.SetDeleted(ctx, id, time.Now().UTC()); err != nil {
		return detached, fmt.Errorf("soft delete group: %w", err)
	}
	mg.Log.Info("group soft-deleted",
		zap.String("group_id", id.Hex()),
		zap.String("name", group.Name),
		zap.Int("detached", detached))
	return detached, nil
}

// Restore brings a trashed group back without resurrecting its former
// members. If the group's mentor has taken another active group in the
// meantime the restore is refused.
func (mg *Manager) Restore(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	group, err := mg.getGroup(ctx, id)
	if err != nil {
		return models.Group{}, err
	}
	if group.Active() {
		return models.Group{}, ErrNotDeleted
	}

	if group.MentorID != nil {
		if err := mg.requireMentorFree(ctx, *group.MentorID, id); err != nil {
			return models.Group{}, err
		}
	}

	if err := mg.Groups.ClearDeleted(ctx, id); err != nil {
		if errors.Is(err, storeerr.ErrDuplicate) {
			return models.Group{}, &ValidationError{Fields: map[string]string{"name": "an active group with this name already exists"}}
		}
		return models.Group{}, fmt.Errorf("restore group: %w", err)
	}
	group.DeletedAt = nil
	mg.Log.Info("group restored",
		zap.String("group_id", id.Hex()),
		zap.String("name", group.Name))
	return group, nil
}

// PermanentDelete removes a trashed group for good. The group must
// already be soft-deleted and must hold no mentees; the member check is
// re-run here rather than trusted from the soft delete.
func (mg *Manager) PermanentDelete(ctx context.Context, id primitive.ObjectID) error {
	group, err := mg.getGroup(ctx, id)
	if err != nil {
		return err
	}
	if group.Active() {
		return ErrNotDeleted
	}

	mentees, err := mg.Mentees.ListByGroup(ctx, id)
	if err != nil {
		return fmt.Errorf("list group mentees: %w", err)
	}
	if len(mentees) > 0 {
		return ErrGroupNotEmpty
	}

	if err := mg.Groups.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	mg.Log.Info("group permanently deleted",
		zap.String("group_id", id.Hex()),
		zap.String("name", group.Name))
	return nil
}

// BulkFailure reports why one id in a bulk operation was skipped.
type BulkFailure struct {
	ID     primitive.ObjectID `json:"id"`
	Reason string             `json:"reason"`
}

// BulkResult summarizes a bulk lifecycle operation. Failures never
// abort the batch; the remaining ids are still processed.
type BulkResult struct {
	Succeeded int           `json:"succeeded"`
	Failures  []BulkFailure `json:"failures,omitempty"`
}

// SoftDeleteMany trashes each group independently.
func (mg *Manager) SoftDeleteMany(ctx context.Context, ids []primitive.ObjectID) BulkResult {
	return mg.bulk(ids, func(id primitive.ObjectID) error {
		_, err := mg.SoftDelete(ctx, id)
		return err
	})
}

// RestoreMany restores each group independently.
func (mg *Manager) RestoreMany(ctx context.Context, ids []primitive.ObjectID) BulkResult {
	return mg.bulk(ids, func(id primitive.ObjectID) error {
		_, err := mg.Restore(ctx, id)
		return err
	})
}

// PermanentDeleteMany purges each trashed group independently.
func (mg *Manager) PermanentDeleteMany(ctx context.Context, ids []primitive.ObjectID) BulkResult {
	return mg.bulk(ids, func(id primitive.ObjectID) error {
		return mg.PermanentDelete(ctx, id)
	})
}

func (mg *Manager) bulk(ids []primitive.ObjectID, op func(primitive.ObjectID) error) BulkResult {
	var res BulkResult
	for _, id := range ids {
		if err := op(id); err != nil {
			res.Failures = append(res.Failures, BulkFailure{ID: id, Reason: err.Error()})
			continue
		}
		res.Succeeded++
	}
	return res
}

func (mg *Manager) getGroup(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	group, err := mg.Groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return models.Group{}, membership.ErrGroupNotFound
		}
		return models.Group{}, fmt.Errorf("load group: %w", err)
	}
	return group, nil
}

// requireMentorFree fails with MentorAssignedError when the mentor
// leads an active group other than allowID.
func (mg *Manager) requireMentorFree(ctx context.Context, mentorID, allowID primitive.ObjectID) error {
	other, err := mg.Groups.FindActiveByMentor(ctx, mentorID)
	switch {
	case err == nil:
		if other.ID != allowID {
			return &MentorAssignedError{MentorID: mentorID, GroupID: other.ID, GroupName: other.Name}
		}
		return nil
	case errors.Is(err, storeerr.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check mentor assignment: %w", err)
	}
}

func missingMenteeIDs(want []primitive.ObjectID, got []models.Mentee) []primitive.ObjectID {
	found := make(map[primitive.ObjectID]struct{}, len(got))
	for _, m := range got {
		found[m.ID] = struct{}{}
	}
	var missing []primitive.ObjectID
	for _, id := range want {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
