// internal/app/features/importcsv/handler.go
package importcsv

import (
	"errors"
	"net/http"

	"github.com/halaqahub/halaqahub/internal/app/importer"
	"github.com/halaqahub/halaqahub/internal/app/system/authz"
	"github.com/halaqahub/halaqahub/internal/app/system/httpjson"
	"github.com/halaqahub/halaqahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Handler serves the group spreadsheet import.
type Handler struct {
	Processor *importer.Processor
	Log       *zap.Logger
	ErrLog    *httpjson.ErrorLogger
}

func NewHandler(p *importer.Processor, log *zap.Logger) *Handler {
	return &Handler{
		Processor: p,
		Log:       log,
		ErrLog:    httpjson.NewErrorLogger(log),
	}
}

// HandleImport accepts a multipart upload under the "file" field and
// imports it row by row. The response reports created groups and the
// failed rows; a partially bad file is a success with failures listed.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "importcsv.import")
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, importer.MaxUploadBytes)
	if err := r.ParseMultipartForm(importer.MaxUploadBytes); err != nil {
		httpjson.BadRequest(w, "Upload too large or malformed.", nil)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpjson.BadRequest(w, "Missing \"file\" upload field.", nil)
		return
	}
	defer file.Close()

	res, err := h.Processor.ImportGroups(ctx, file)
	if err != nil {
		if errors.Is(err, importer.ErrTooManyRows) {
			httpjson.BadRequest(w, err.Error(), nil)
			return
		}
		h.ErrLog.ServerError(w, r, "spreadsheet import failed", err)
		return
	}

	_, adminName, _, _ := authz.UserCtx(r)
	h.Log.Info("spreadsheet import finished",
		zap.String("import_id", res.ImportID),
		zap.String("imported_by", adminName),
		zap.Int("created", res.Created),
		zap.Int("failed_rows", len(res.Failures)),
	)
	httpjson.Respond(w, http.StatusOK, res)
}

// HandleTemplate serves the blank import spreadsheet.
func (h *Handler) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+importer.TemplateFilename+`"`)
	if err := importer.WriteTemplate(w); err != nil {
		h.Log.Error("write import template failed", zap.Error(err))
	}
}
