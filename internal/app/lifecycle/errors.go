// internal/app/lifecycle/errors.go
package lifecycle

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrMentorNotFound means the referenced mentor id is stale.
	ErrMentorNotFound = errors.New("mentor not found")

	// ErrAlreadyDeleted is returned by SoftDelete when the group is
	// already in the trash.
	ErrAlreadyDeleted = errors.New("group already deleted")

	// ErrNotDeleted is returned by Restore and PermanentDelete when the
	// group is still active.
	ErrNotDeleted = errors.New("group is not deleted")

	// ErrGroupNotEmpty guards permanent deletion: a group still holding
	// mentees may not be purged. Soft delete detaches everyone, so this
	// only fires when that invariant was broken out of band.
	ErrGroupNotEmpty = errors.New("group still has mentees")
)

// MentorAssignedError means the mentor already leads another active
// group. One mentor, one active group.
type MentorAssignedError struct {
	MentorID  primitive.ObjectID
	GroupID   primitive.ObjectID
	GroupName string
}

func (e *MentorAssignedError) Error() string {
	return fmt.Sprintf("mentor %s already leads active group %q", e.MentorID.Hex(), e.GroupName)
}

// ValidationError carries per-field messages for bad input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
