// internal/app/features/mentees/handler.go
package mentees

import (
	"context"
	"time"

	"github.com/halaqahub/halaqahub/internal/app/membership"
	menteestore "github.com/halaqahub/halaqahub/internal/app/store/mentees"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MenteeStore is the mentee CRUD surface beyond the reconciler.
type MenteeStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Mentee, error)
	List(ctx context.Context, p menteestore.ListParams) ([]models.Mentee, int64, error)
	Create(ctx context.Context, m models.Mentee) (models.Mentee, error)
	Update(ctx context.Context, id primitive.ObjectID, fullName string, gender models.Gender) error
	SetDeleted(ctx context.Context, id primitive.ObjectID, at time.Time) error
	ClearDeleted(ctx context.Context, id primitive.ObjectID) error
}

// HistoryStore serves the mentee's membership audit trail.
type HistoryStore interface {
	ListByMentee(ctx context.Context, menteeID primitive.ObjectID) ([]models.Reassignment, error)
}

// Handler is the shared dependency container for the mentees feature.
type Handler struct {
	Mentees MenteeStore
	History HistoryStore
	Rec     *membership.Reconciler
	Log     *zap.Logger
	ErrLog  *httpjson.ErrorLogger
}

func NewHandler(mentees MenteeStore, history HistoryStore, rec *membership.Reconciler, log *zap.Logger) *Handler {
	return &Handler{
		Mentees: mentees,
		History: history,
		Rec:     rec,
		Log:     log,
		ErrLog:  httpjson.NewErrorLogger(log),
	}
}
