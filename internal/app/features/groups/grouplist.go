// internal/app/features/groups/grouplist.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	groupstore "github.com/halaqahub/halaqahub/internal/app/store/groups"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/normalize"
	"github.com/halaqahub/halaqahub/internal/app/system/paging"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleList serves the group list. ?view=trash switches to the trash,
// ?q= filters by name, ?gender= narrows to one track.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "groups.list")
	defer cancel()

	page := paging.Parse(r)
	params := groupstore.ListParams{
		Query:   r.URL.Query().Get("q"),
		Gender:  normalize.Gender(r.URL.Query().Get("gender")),
		Deleted: r.URL.Query().Get("view") == "trash",
		Skip:    page.Skip(),
		Limit:   int64(page.PerPage),
	}

	list, total, err := h.Groups.List(ctx, params)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list groups failed", err)
		return
	}

	views, err := h.buildViews(ctx, list)
	if err != nil {
		h.ErrLog.ServerError(w, r, "hydrate group list failed", err)
		return
	}

	httpjson.Respond(w, http.StatusOK, listResponse{
		Groups:  views,
		Total:   total,
		Page:    int(page.Number),
		PerPage: int(page.PerPage),
	})
}

// HandleGet serves one group with its mentor and member list.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "groups.get")
	defer cancel()

	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	group, err := h.Groups.GetByID(ctx, id)
	if err != nil {
		h.respondCoreError(w, r, mapNotFound(err), nil)
		return
	}

	mentees, err := h.Mentees.ListByGroup(ctx, id)
	if err != nil {
		h.ErrLog.ServerError(w, r, "list group mentees failed", err)
		return
	}

	view := groupView{Group: group, MenteeCount: int64(len(mentees))}
	if group.MentorID != nil {
		mentors, err := h.Mentors.GetByIDs(ctx, []primitive.ObjectID{*group.MentorID})
		if err != nil {
			h.ErrLog.ServerError(w, r, "load group mentor failed", err)
			return
		}
		if m, ok := mentors[*group.MentorID]; ok {
			view.MentorName = m.FullName
		}
	}

	httpjson.Respond(w, http.StatusOK, detailResponse{groupView: view, Mentees: mentees})
}

// buildViews hydrates mentor names and mentee counts for a page of
// groups with two batched reads.
func (h *Handler) buildViews(ctx context.Context, list []models.Group) ([]groupView, error) {
	groupIDs := make([]primitive.ObjectID, len(list))
	var mentorIDs []primitive.ObjectID
	for i, g := range list {
		groupIDs[i] = g.ID
		if g.MentorID != nil {
			mentorIDs = append(mentorIDs, *g.MentorID)
		}
	}

	counts, err := h.Mentees.CountByGroups(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	mentors, err := h.Mentors.GetByIDs(ctx, mentorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]groupView, len(list))
	for i, g := range list {
		v := groupView{Group: g, MenteeCount: counts[g.ID]}
		if g.MentorID != nil {
			if m, ok := mentors[*g.MentorID]; ok {
				v.MentorName = m.FullName
			}
		}
		views[i] = v
	}
	return views, nil
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "Invalid group id.", nil)
		return primitive.NilObjectID, false
	}
	return id, true
}
