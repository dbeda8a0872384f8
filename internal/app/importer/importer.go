// internal/app/importer/importer.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/halaqahub/halaqahub/internal/app/lifecycle"
	"github.com/halaqahub/halaqahub/internal/app/membership"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MentorFinder resolves a mentor by display name, case-insensitively.
// Returns storeerr.ErrNotFound when no mentor matches.
type MentorFinder interface {
	FindByName(ctx context.Context, name string) (models.Mentor, error)
}

// MenteeFinder resolves an active mentee by display name.
type MenteeFinder interface {
	FindByName(ctx context.Context, name string) (models.Mentee, error)
}

// Processor turns an uploaded group spreadsheet into created groups.
// Each row is committed independently: a bad row is reported and
// skipped, the rest of the file still imports.
type Processor struct {
	Mentors MentorFinder
	Mentees MenteeFinder
	Groups  *lifecycle.Manager
	Log     *zap.Logger
}

func NewProcessor(mentors MentorFinder, mentees MenteeFinder, groups *lifecycle.Manager, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{Mentors: mentors, Mentees: mentees, Groups: groups, Log: log}
}

// RowFailure reports every problem found on one spreadsheet row. Row is
// the physical 1-based line in the uploaded file.
type RowFailure struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// Result summarizes one import run.
type Result struct {
	ImportID string       `json:"import_id"`
	Created  int          `json:"created"`
	Failures []RowFailure `json:"failures,omitempty"`
}

// ImportGroups parses and imports the spreadsheet. Only unreadable
// input or a file past MaxRows fails the whole upload; every other
// problem is a row failure in the result.
func (pr *Processor) ImportGroups(ctx context.Context, r io.Reader) (Result, error) {
	parsed, err := Parse(r)
	if err != nil {
		return Result{}, err
	}

	res := Result{ImportID: uuid.NewString()}
	failures := make(map[int][]string)
	for _, re := range parsed.Errors {
		failures[re.Line] = append(failures[re.Line], re.Reason)
	}

	for _, row := range parsed.Rows {
		if errs := pr.importRow(ctx, row); len(errs) > 0 {
			failures[row.Line] = append(failures[row.Line], errs...)
			continue
		}
		res.Created++
	}

	rows := make([]int, 0, len(failures))
	for line := range failures {
		rows = append(rows, line)
	}
	sort.Ints(rows)
	for _, line := range rows {
		res.Failures = append(res.Failures, RowFailure{Row: line, Errors: failures[line]})
	}

	pr.Log.Info("spreadsheet import finished",
		zap.String("import_id", res.ImportID),
		zap.Int("created", res.Created),
		zap.Int("failed_rows", len(res.Failures)))
	return res, nil
}

func (pr *Processor) importRow(ctx context.Context, row Row) []string {
	var errs []string

	mentor, err := pr.Mentors.FindByName(ctx, row.MentorName)
	if err != nil {
		if errors.Is(err, storeerr.ErrNotFound) {
			return append(errs, fmt.Sprintf("mentor %q not found", row.MentorName))
		}
		return append(errs, "mentor lookup failed: "+err.Error())
	}

	var menteeIDs []primitive.ObjectID
	for _, name := range row.MenteeNames {
		mentee, err := pr.Mentees.FindByName(ctx, name)
		if err != nil {
			if errors.Is(err, storeerr.ErrNotFound) {
				errs = append(errs, fmt.Sprintf("mentee %q not found", name))
				continue
			}
			errs = append(errs, fmt.Sprintf("mentee %q lookup failed: %s", name, err))
			continue
		}
		if mentee.Grouped() {
			errs = append(errs, fmt.Sprintf("mentee %q already belongs to another group", name))
			continue
		}
		if mentee.Gender != mentor.Gender {
			errs = append(errs, fmt.Sprintf("mentee %q does not match the group's gender", name))
			continue
		}
		menteeIDs = append(menteeIDs, mentee.ID)
	}
	if len(errs) > 0 {
		return errs
	}

	mentorID := mentor.ID
	_, _, err = pr.Groups.Create(ctx, lifecycle.CreateParams{
		Name:      row.GroupName,
		MentorID:  &mentorID,
		MenteeIDs: menteeIDs,
	})
	if err != nil {
		return append(errs, createFailureReason(err))
	}
	return nil
}

func createFailureReason(err error) string {
	var ve *lifecycle.ValidationError
	if errors.As(err, &ve) {
		for _, msg := range ve.Fields {
			return msg
		}
	}
	var ma *lifecycle.MentorAssignedError
	if errors.As(err, &ma) {
		return fmt.Sprintf("mentor already leads active group %q", ma.GroupName)
	}
	var gm *membership.GenderMismatchError
	if errors.As(err, &gm) {
		return "one or more mentees do not match the group's gender"
	}
	return "group creation failed: " + err.Error()
}
