// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"

	"github.com/halaqahub/halaqahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixtures provides helper methods for seeding test data into a Store.
type Fixtures struct {
	s *Store
	t *testing.T
}

func NewFixtures(t *testing.T, s *Store) *Fixtures {
	t.Helper()
	return &Fixtures{s: s, t: t}
}

// Store returns the underlying store for direct access in tests.
func (f *Fixtures) Store() *Store {
	return f.s
}

// CreateMentor seeds a mentor with the given name and gender.
func (f *Fixtures) CreateMentor(ctx context.Context, name string, gender models.Gender) models.Mentor {
	f.t.Helper()
	mentor, err := f.s.Mentors().Create(ctx, models.Mentor{
		FullName: name,
		Gender:   gender,
		Phone:    "+62 812 0000 0000",
	})
	if err != nil {
		f.t.Fatalf("failed to create test mentor: %v", err)
	}
	return mentor
}

// CreateMentee seeds an ungrouped mentee.
func (f *Fixtures) CreateMentee(ctx context.Context, name string, gender models.Gender) models.Mentee {
	f.t.Helper()
	mentee, err := f.s.Mentees().Create(ctx, models.Mentee{
		FullName: name,
		Gender:   gender,
	})
	if err != nil {
		f.t.Fatalf("failed to create test mentee: %v", err)
	}
	return mentee
}

// CreateGroup seeds an active group. mentorID may be nil for a
// mentor-less group.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, gender models.Gender, mentorID *primitive.ObjectID) models.Group {
	f.t.Helper()
	group, err := f.s.Groups().Create(ctx, models.Group{
		Name:     name,
		Gender:   gender,
		MentorID: mentorID,
	})
	if err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// AttachMentees puts the mentees into the group directly, bypassing the
// reconciler, for arranging preconditions.
func (f *Fixtures) AttachMentees(ctx context.Context, groupID primitive.ObjectID, menteeIDs ...primitive.ObjectID) {
	f.t.Helper()
	if err := f.s.Mentees().Attach(ctx, groupID, menteeIDs); err != nil {
		f.t.Fatalf("failed to attach test mentees: %v", err)
	}
}

// CreateUser seeds a console account with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, loginID, role string) models.User {
	f.t.Helper()
	user, err := f.s.Users().Create(ctx, models.User{
		FullName:     "Test " + role,
		LoginID:      loginID,
		PasswordHash: "$2a$10$unusable.test.hash.placeholder000000000000000000000",
		Role:         role,
	})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
