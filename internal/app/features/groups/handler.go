// internal/app/features/groups/handler.go
package groups

import (
	"context"

	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/membership"
	groupstore "github.com/halaqahub/halaqahub/internal/app/store/groups"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// GroupStore is the read surface the groups feature needs beyond the
// lifecycle manager.
type GroupStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
	List(ctx context.Context, p groupstore.ListParams) ([]models.Group, int64, error)
}

// MentorStore hydrates mentor names for list and detail views.
type MentorStore interface {
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Mentor, error)
}

// MenteeStore supplies member lists and per-group counts.
type MenteeStore interface {
	ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Mentee, error)
	CountByGroups(ctx context.Context, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
}

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	Groups    GroupStore
	Mentors   MentorStore
	Mentees   MenteeStore
	Lifecycle *lifecycle.Manager
	Rec       *membership.Reconciler
	Log       *zap.Logger
	ErrLog    *httpjson.ErrorLogger
}

func NewHandler(groups GroupStore, mentors MentorStore, mentees MenteeStore, lc *lifecycle.Manager, rec *membership.Reconciler, log *zap.Logger) *Handler {
	return &Handler{
		Groups:    groups,
		Mentors:   mentors,
		Mentees:   mentees,
		Lifecycle: lc,
		Rec:       rec,
		Log:       log,
		ErrLog:    httpjson.NewErrorLogger(log),
	}
}
