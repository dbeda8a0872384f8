// internal/app/features/mentors/handler.go
package mentors

import (
	"context"

	mentorstore "github.com/halaqahub/halaqahub/internal/app/store/mentors"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MentorStore is the mentor CRUD surface.
type MentorStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Mentor, error)
	List(ctx context.Context, p mentorstore.ListParams) ([]models.Mentor, int64, error)
	Create(ctx context.Context, m models.Mentor) (models.Mentor, error)
	Update(ctx context.Context, id primitive.ObjectID, fullName string, gender models.Gender, phone string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GroupStore answers which mentors are busy. A mentor leading an active
// group is neither available nor deletable.
type GroupStore interface {
	ActiveMentorIDs(ctx context.Context) ([]primitive.ObjectID, error)
	FindActiveByMentor(ctx context.Context, mentorID primitive.ObjectID) (models.Group, error)
}

// Handler is the shared dependency container for the mentors feature.
type Handler struct {
	Mentors MentorStore
	Groups  GroupStore
	Log     *zap.Logger
	ErrLog  *httpjson.ErrorLogger
}

func NewHandler(mentors MentorStore, groups GroupStore, log *zap.Logger) *Handler {
	return &Handler{
		Mentors: mentors,
		Groups:  groups,
		Log:     log,
		ErrLog:  httpjson.NewErrorLogger(log),
	}
}
