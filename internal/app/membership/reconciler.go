// internal/app/membership/reconciler.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/halaqahub/halaqahub/internal/app/policy/genderpolicy"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Reconciler applies membership changes through the mentee store and
// records every change in the reassignment history. All validation
// (group active, mentees exist, gender homogeneity) happens before the
// first write, so a rejected request leaves the store untouched.
type Reconciler struct {
	Groups  GroupStore
	Mentees MenteeStore
	History HistoryStore
	Log     *zap.Logger
}

func NewReconciler(groups GroupStore, mentees MenteeStore, history HistoryStore, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{Groups: groups, Mentees: mentees, History: history, Log: log}
}

// Proposal is the outcome of ProposeAttach: the requested mentees split
// into simple attaches and conflicting reassigns. A proposal with
// conflicts needs operator confirmation before CommitAttach applies it.
type Proposal struct {
	GroupID   primitive.ObjectID `json:"group_id"`
	Simple    []models.Mentee    `json:"simple"`
	Conflicts []Conflict         `json:"conflicts"`
}

// ProposeAttach validates an attach request and classifies each mentee
// without writing anything. Errors, in check order:
//
//	ErrGroupNotFound / ErrGroupNotActive for a bad target,
//	*NotFoundError for stale mentee ids,
//	*GenderMismatchError when any mentee fails the homogeneity rule.
func (rc *Reconciler) ProposeAttach(ctx context.Context, groupID primitive.ObjectID, menteeIDs []primitive.ObjectID) (Proposal, error) {
	menteeIDs = dedupeIDs(menteeIDs)

	group, err := rc.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return Proposal{}, ErrGroupNotFound
		}
		return Proposal{}, fmt.Errorf("load group: %w", err)
	}
	if !group.Active() {
		return Proposal{}, ErrGroupNotActive
	}

	mentees, err := rc.Mentees.GetByIDs(ctx, menteeIDs)
	if err != nil {
		return Proposal{}, fmt.Errorf("load mentees: %w", err)
	}
	if missing := missingIDs(menteeIDs, mentees); len(missing) > 0 {
		return Proposal{}, &NotFoundError{MenteeIDs: missing}
	}

	if _, mismatched := genderpolicy.Partition(group.Gender, mentees); len(mismatched) > 0 {
		return Proposal{}, &GenderMismatchError{GroupID: groupID, MenteeIDs: menteeIDList(mismatched)}
	}

	p := Proposal{GroupID: groupID}
	for _, m := range mentees {
		if c, ok := Classify(m, groupID); ok {
			p.Conflicts = append(p.Conflicts, c)
		} else {
			p.Simple = append(p.Simple, m)
		}
	}
	return p, nil
}

// CommitAttach applies a proposal. When the proposal carries conflicts
// and confirmed is false it returns ErrReassignNotConfirmed without
// writing. Mentees already in the target group are skipped. Returns the
// number of mentees whose group changed.
func (rc *Reconciler) CommitAttach(ctx context.Context, p Proposal, confirmed bool) (int, error) {
	if len(p.Conflicts) > 0 && !confirmed {
		return 0, ErrReassignNotConfirmed
	}

	now := time.Now().UTC()
	var ids []primitive.ObjectID
	var entries []models.Reassignment
	for _, m := range p.Simple {
		if m.GroupID != nil && *m.GroupID == p.GroupID {
			continue // already attached
		}
		ids = append(ids, m.ID)
		entries = append(entries, models.Reassignment{
			MenteeID:    m.ID,
			FromGroupID: m.GroupID,
			ToGroupID:   &p.GroupID,
			MovedAt:     now,
		})
	}
	for _, c := range p.Conflicts {
		from := c.CurrentGroupID
		ids = append(ids, c.Mentee.ID)
		entries = append(entries, models.Reassignment{
			MenteeID:    c.Mentee.ID,
			FromGroupID: &from,
			ToGroupID:   &p.GroupID,
			MovedAt:     now,
		})
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := rc.Mentees.Attach(ctx, p.GroupID, ids); err != nil {
		return 0, fmt.Errorf("attach mentees: %w", err)
	}
	if err := rc.History.Log(ctx, entries); err != nil {
		rc.Log.Error("attach applied but history write failed",
			zap.String("group_id", p.GroupID.Hex()),
			zap.Int("count", len(ids)),
			zap.Error(err))
	}
	rc.Log.Info("mentees attached",
		zap.String("group_id", p.GroupID.Hex()),
		zap.Int("count", len(ids)),
		zap.Int("reassigned", len(p.Conflicts)))
	return len(ids), nil
}

// Detach removes the given mentees from the group. Idempotent: ids that
// are not in the group are skipped, and history is written only for
// mentees actually detached. Returns the number detached.
func (rc *Reconciler) Detach(ctx context.Context, groupID primitive.ObjectID, menteeIDs []primitive.ObjectID) (int, error) {
	menteeIDs = dedupeIDs(menteeIDs)
	if len(menteeIDs) == 0 {
		return 0, nil
	}

	detached, err := rc.Mentees.Detach(ctx, groupID, menteeIDs)
	if err != nil {
		return 0, fmt.Errorf("detach mentees: %w", err)
	}
	if len(detached) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	from := groupID
	entries := make([]models.Reassignment, 0, len(detached))
	for _, id := range detached {
		entries = append(entries, models.Reassignment{
			MenteeID:    id,
			FromGroupID: &from,
			ToGroupID:   nil,
			MovedAt:     now,
		})
	}
	if err := rc.History.Log(ctx, entries); err != nil {
		rc.Log.Error("detach applied but history write failed",
			zap.String("group_id", groupID.Hex()),
			zap.Int("count", len(detached)),
			zap.Error(err))
	}
	rc.Log.Info("mentees detached",
		zap.String("group_id", groupID.Hex()),
		zap.Int("count", len(detached)))
	return len(detached), nil
}

// Move transfers mentees from one active group to another as a single
// store call rather than a detach followed by an attach, so there is no
// observable ungrouped state in between. Every mentee must currently be
// in the source group and match the target group's gender.
func (rc *Reconciler) Move(ctx context.Context, fromGroupID, toGroupID primitive.ObjectID, menteeIDs []primitive.ObjectID) (int, error) {
	menteeIDs = dedupeIDs(menteeIDs)
	if fromGroupID == toGroupID {
		return 0, nil
	}

	target, err := rc.Groups.GetByID(ctx, toGroupID)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return 0, ErrGroupNotFound
		}
		return 0, fmt.Errorf("load target group: %w", err)
	}
	if !target.Active() {
		return 0, ErrGroupNotActive
	}

	mentees, err := rc.Mentees.GetByIDs(ctx, menteeIDs)
	if err != nil {
		return 0, fmt.Errorf("load mentees: %w", err)
	}
	var missing []primitive.ObjectID
	for _, m := range mentees {
		if m.GroupID == nil || *m.GroupID != fromGroupID {
			missing = append(missing, m.ID)
		}
	}
	missing = append(missing, missingIDs(menteeIDs, mentees)...)
	if len(missing) > 0 {
		// ids not resolvable as members of the source group
		return 0, &NotFoundError{MenteeIDs: missing}
	}
	if _, mismatched := genderpolicy.Partition(target.Gender, mentees); len(mismatched) > 0 {
		return 0, &GenderMismatchError{GroupID: toGroupID, MenteeIDs: menteeIDList(mismatched)}
	}

	if err := rc.Mentees.Move(ctx, fromGroupID, toGroupID, menteeIDs); err != nil {
		return 0, fmt.Errorf("move mentees: %w", err)
	}

	now := time.Now().UTC()
	from := fromGroupID
	entries := make([]models.Reassignment, 0, len(menteeIDs))
	for _, id := range menteeIDs {
		entries = append(entries, models.Reassignment{
			MenteeID:    id,
			FromGroupID: &from,
			ToGroupID:   &toGroupID,
			MovedAt:     now,
		})
	}
	if err := rc.History.Log(ctx, entries); err != nil {
		rc.Log.Error("move applied but history write failed",
			zap.String("from_group_id", fromGroupID.Hex()),
			zap.String("to_group_id", toGroupID.Hex()),
			zap.Error(err))
	}
	rc.Log.Info("mentees moved",
		zap.String("from_group_id", fromGroupID.Hex()),
		zap.String("to_group_id", toGroupID.Hex()),
		zap.Int("count", len(menteeIDs)))
	return len(menteeIDs), nil
}

func dedupeIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(want []primitive.ObjectID, got []models.Mentee) []primitive.ObjectID {
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

func menteeIDList(mentees []models.Mentee) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(mentees))
	for i, m := range mentees {
		ids[i] = m.ID
	}
	return ids
}
