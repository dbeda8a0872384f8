// internal/app/membership/errors.go
package membership

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrGroupNotFound means the target group id is stale.
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupNotActive means the target group is soft-deleted and not
	// eligible for membership operations.
	ErrGroupNotActive = errors.New("group is not active")

	// ErrMenteeNotFound means one or more mentee ids are stale. See
	// NotFoundError for the offending ids.
	ErrMenteeNotFound = errors.New("mentee not found")

	// ErrReassignNotConfirmed is returned by CommitAttach when the
	// proposal contains conflicting reassigns and the caller has not
	// obtained operator confirmation. Recoverable: re-invoke the commit
	// with confirmed=true.
	ErrReassignNotConfirmed = errors.New("conflicting reassign requires operator confirmation")
)

// NotFoundError lists the mentee ids a read could not resolve.
type NotFoundError struct {
	MenteeIDs []primitive.ObjectID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%d mentee id(s) not found", len(e.MenteeIDs))
}

func (e *NotFoundError) Unwrap() error { return ErrMenteeNotFound }

// GenderMismatchError names the mentees whose gender does not match the
// target group. Raised before any store write.
type GenderMismatchError struct {
	GroupID   primitive.ObjectID
	MenteeIDs []primitive.ObjectID
}

func (e *GenderMismatchError) Error() string {
	ids := make([]string, len(e.MenteeIDs))
	for i, id := range e.MenteeIDs {
		ids[i] = id.Hex()
	}
	return "gender mismatch for mentee(s): " + strings.Join(ids, ", ")
}
