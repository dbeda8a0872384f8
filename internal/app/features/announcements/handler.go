// internal/app/features/announcements/handler.go
package announcements

import (
	"context"

	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AnnouncementStore is the announcement CRUD surface.
type AnnouncementStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Announcement, error)
	List(ctx context.Context, limit int64) ([]models.Announcement, error)
	Create(ctx context.Context, a models.Announcement) (models.Announcement, error)
	Update(ctx context.Context, id primitive.ObjectID, title, body string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler serves program-wide announcements. Bodies are sanitized on
// the way in; the store only ever holds clean HTML.
type Handler struct {
	Store     AnnouncementStore
	Sanitizer *bluemonday.Policy
	Log       *zap.Logger
	ErrLog    *httpjson.ErrorLogger
}

func NewHandler(store AnnouncementStore, log *zap.Logger) *Handler {
	return &Handler{
		Store:     store,
		Sanitizer: bluemonday.UGCPolicy(),
		Log:       log,
		ErrLog:    httpjson.NewErrorLogger(log),
	}
}
