// internal/testutil/memstore.go
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	groupstore "github.com/halaqahub/halaqahub/internal/app/store/groups"
	menteestore "github.com/halaqahub/halaqahub/internal/app/store/mentees"
	mentorstore "github.com/halaqahub/halaqahub/internal/app/store/mentors"
	"github.com/halaqahub/halaqahub/internal/app/store/storeerr"
	"github.com/halaqahub/halaqahub/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is an in-memory stand-in for the mongo stores so core and
// handler tests run without a database. The sub-store accessors expose
// the same method sets as their mongo counterparts.
type Store struct {
	mu            sync.RWMutex
	groups        map[primitive.ObjectID]models.Group
	mentors       map[primitive.ObjectID]models.Mentor
	mentees       map[primitive.ObjectID]models.Mentee
	users         map[primitive.ObjectID]models.User
	announcements map[primitive.ObjectID]models.Announcement
	history       []models.Reassignment
}

func NewStore() *Store {
	return &Store{
		groups:        make(map[primitive.ObjectID]models.Group),
		mentors:       make(map[primitive.ObjectID]models.Mentor),
		mentees:       make(map[primitive.ObjectID]models.Mentee),
		users:         make(map[primitive.ObjectID]models.User),
		announcements: make(map[primitive.ObjectID]models.Announcement),
	}
}

func (s *Store) Groups() *GroupStore           { return &GroupStore{s: s} }
func (s *Store) Mentors() *MentorStore         { return &MentorStore{s: s} }
func (s *Store) Mentees() *MenteeStore         { return &MenteeStore{s: s} }
func (s *Store) History() *HistoryStore        { return &HistoryStore{s: s} }
func (s *Store) Users() *UserStore             { return &UserStore{s: s} }
func (s *Store) Announcements() *AnnounceStore { return &AnnounceStore{s: s} }

// GroupStore mirrors groupstore.Store.
type GroupStore struct {
	s *Store
}

func (g *GroupStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Group, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	grp, ok := g.s.groups[id]
	if !ok {
		return models.Group{}, storeerr.ErrNotFound
	}
	return grp, nil
}

func (g *GroupStore) Create(_ context.Context, grp models.Group) (models.Group, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	folded := text.Fold(grp.Name)
	for _, other := range g.s.groups {
		if other.Active() && other.NameCI == folded {
			return models.Group{}, groupstore.ErrDuplicateGroupName
		}
	}
	now := time.Now().UTC()
	grp.ID = primitive.NewObjectID()
	grp.NameCI = folded
	grp.DeletedAt = nil
	grp.CreatedAt = now
	grp.UpdatedAt = now
	g.s.groups[grp.ID] = grp
	return grp, nil
}

func (g *GroupStore) Update(_ context.Context, grp models.Group) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	cur, ok := g.s.groups[grp.ID]
	if !ok {
		return storeerr.ErrNotFound
	}
	folded := text.Fold(grp.Name)
	for id, other := range g.s.groups {
		if id != grp.ID && other.Active() && other.NameCI == folded {
			return groupstore.ErrDuplicateGroupName
		}
	}
	cur.Name = grp.Name
	cur.NameCI = folded
	cur.Description = grp.Description
	cur.MentorID = grp.MentorID
	cur.UpdatedAt = time.Now().UTC()
	g.s.groups[grp.ID] = cur
	return nil
}

func (g *GroupStore) SetDeleted(_ context.Context, id primitive.ObjectID, at time.Time) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	grp.DeletedAt = &at
	grp.UpdatedAt = at
	g.s.groups[id] = grp
	return nil
}

func (g *GroupStore) ClearDeleted(_ context.Context, id primitive.ObjectID) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	grp, ok := g.s.groups[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	for other, o := range g.s.groups {
		if other != id && o.Active() && o.NameCI == grp.NameCI {
			return groupstore.ErrDuplicateGroupName
		}
	}
	grp.DeletedAt = nil
	grp.UpdatedAt = time.Now().UTC()
	g.s.groups[id] = grp
	return nil
}

func (g *GroupStore) Delete(_ context.Context, id primitive.ObjectID) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	if _, ok := g.s.groups[id]; !ok {
		return storeerr.ErrNotFound
	}
	delete(g.s.groups, id)
	return nil
}

func (g *GroupStore) FindActiveByMentor(_ context.Context, mentorID primitive.ObjectID) (models.Group, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	for _, grp := range g.s.groups {
		if grp.Active() && grp.MentorID != nil && *grp.MentorID == mentorID {
			return grp, nil
		}
	}
	return models.Group{}, storeerr.ErrNotFound
}

func (g *GroupStore) List(_ context.Context, p groupstore.ListParams) ([]models.Group, int64, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	q := text.Fold(p.Query)
	var matched []models.Group
	for _, grp := range g.s.groups {
		if grp.Active() == p.Deleted {
			continue
		}
		if p.Gender != "" && grp.Gender != p.Gender {
			continue
		}
		if q != "" && !strings.Contains(grp.NameCI, q) {
			continue
		}
		matched = append(matched, grp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].NameCI < matched[j].NameCI })
	total := int64(len(matched))
	return pageSlice(matched, p.Skip, p.Limit), total, nil
}

func (g *GroupStore) ActiveMentorIDs(_ context.Context) ([]primitive.ObjectID, error) {
	g.s.mu.RLock()
	defer g.s.mu.RUnlock()
	var ids []primitive.ObjectID
	for _, grp := range g.s.groups {
		if grp.Active() && grp.MentorID != nil {
			ids = append(ids, *grp.MentorID)
		}
	}
	return ids, nil
}

// MentorStore mirrors mentorstore.Store.
type MentorStore struct {
	s *Store
}

func (m *MentorStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Mentor, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	mentor, ok := m.s.mentors[id]
	if !ok {
		return models.Mentor{}, storeerr.ErrNotFound
	}
	return mentor, nil
}

func (m *MentorStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Mentor, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.Mentor)
	for _, id := range ids {
		if mentor, ok := m.s.mentors[id]; ok {
			out[id] = mentor
		}
	}
	return out, nil
}

func (m *MentorStore) FindByName(_ context.Context, name string) (models.Mentor, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	folded := text.Fold(name)
	for _, mentor := range m.s.mentors {
		if mentor.FullNameCI == folded {
			return mentor, nil
		}
	}
	return models.Mentor{}, storeerr.ErrNotFound
}

func (m *MentorStore) Create(_ context.Context, mentor models.Mentor) (models.Mentor, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now().UTC()
	mentor.ID = primitive.NewObjectID()
	mentor.FullNameCI = text.Fold(mentor.FullName)
	mentor.CreatedAt = now
	mentor.UpdatedAt = now
	m.s.mentors[mentor.ID] = mentor
	return mentor, nil
}

func (m *MentorStore) Update(_ context.Context, id primitive.ObjectID, fullName string, gender models.Gender, phone string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mentor, ok := m.s.mentors[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	mentor.FullName = fullName
	mentor.FullNameCI = text.Fold(fullName)
	mentor.Gender = gender
	mentor.Phone = phone
	mentor.UpdatedAt = time.Now().UTC()
	m.s.mentors[id] = mentor
	return nil
}

func (m *MentorStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.mentors[id]; !ok {
		return storeerr.ErrNotFound
	}
	delete(m.s.mentors, id)
	return nil
}

func (m *MentorStore) List(_ context.Context, p mentorstore.ListParams) ([]models.Mentor, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	q := text.Fold(p.Query)
	excluded := make(map[primitive.ObjectID]struct{}, len(p.ExcludeIDs))
	for _, id := range p.ExcludeIDs {
		excluded[id] = struct{}{}
	}
	var matched []models.Mentor
	for _, mentor := range m.s.mentors {
		if _, skip := excluded[mentor.ID]; skip {
			continue
		}
		if p.Gender != "" && mentor.Gender != p.Gender {
			continue
		}
		if q != "" && !strings.Contains(mentor.FullNameCI, q) {
			continue
		}
		matched = append(matched, mentor)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FullNameCI < matched[j].FullNameCI })
	total := int64(len(matched))
	return pageSlice(matched, p.Skip, p.Limit), total, nil
}

// MenteeStore mirrors menteestore.Store.
type MenteeStore struct {
	s *Store
}

func (m *MenteeStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Mentee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	mentee, ok := m.s.mentees[id]
	if !ok {
		return models.Mentee{}, storeerr.ErrNotFound
	}
	return mentee, nil
}

func (m *MenteeStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Mentee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []models.Mentee
	for _, id := range ids {
		if mentee, ok := m.s.mentees[id]; ok && mentee.DeletedAt == nil {
			out = append(out, mentee)
		}
	}
	return out, nil
}

func (m *MenteeStore) ListByGroup(_ context.Context, groupID primitive.ObjectID) ([]models.Mentee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	var out []models.Mentee
	for _, mentee := range m.s.mentees {
		if mentee.DeletedAt == nil && mentee.GroupID != nil && *mentee.GroupID == groupID {
			out = append(out, mentee)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullNameCI < out[j].FullNameCI })
	return out, nil
}

func (m *MenteeStore) Attach(_ context.Context, groupID primitive.ObjectID, ids []primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range ids {
		mentee, ok := m.s.mentees[id]
		if !ok {
			continue
		}
		gid := groupID
		mentee.GroupID = &gid
		mentee.UpdatedAt = now
		m.s.mentees[id] = mentee
	}
	return nil
}

func (m *MenteeStore) Detach(_ context.Context, groupID primitive.ObjectID, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now().UTC()
	var detached []primitive.ObjectID
	for _, id := range ids {
		mentee, ok := m.s.mentees[id]
		if !ok || mentee.GroupID == nil || *mentee.GroupID != groupID {
			continue
		}
		mentee.GroupID = nil
		mentee.UpdatedAt = now
		m.s.mentees[id] = mentee
		detached = append(detached, id)
	}
	return detached, nil
}

func (m *MenteeStore) Move(_ context.Context, fromGroupID, toGroupID primitive.ObjectID, ids []primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now().UTC()
	for _, id := range ids {
		mentee, ok := m.s.mentees[id]
		if !ok || mentee.GroupID == nil || *mentee.GroupID != fromGroupID {
			continue
		}
		gid := toGroupID
		mentee.GroupID = &gid
		mentee.UpdatedAt = now
		m.s.mentees[id] = mentee
	}
	return nil
}

func (m *MenteeStore) FindByName(_ context.Context, name string) (models.Mentee, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	folded := text.Fold(name)
	for _, mentee := range m.s.mentees {
		if mentee.DeletedAt == nil && mentee.FullNameCI == folded {
			return mentee, nil
		}
	}
	return models.Mentee{}, storeerr.ErrNotFound
}

func (m *MenteeStore) Create(_ context.Context, mentee models.Mentee) (models.Mentee, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now().UTC()
	mentee.ID = primitive.NewObjectID()
	mentee.FullNameCI = text.Fold(mentee.FullName)
	mentee.CreatedAt = now
	mentee.UpdatedAt = now
	m.s.mentees[mentee.ID] = mentee
	return mentee, nil
}

func (m *MenteeStore) Update(_ context.Context, id primitive.ObjectID, fullName string, gender models.Gender) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mentee, ok := m.s.mentees[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	mentee.FullName = fullName
	mentee.FullNameCI = text.Fold(fullName)
	mentee.Gender = gender
	mentee.UpdatedAt = time.Now().UTC()
	m.s.mentees[id] = mentee
	return nil
}

func (m *MenteeStore) SetDeleted(_ context.Context, id primitive.ObjectID, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mentee, ok := m.s.mentees[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	mentee.DeletedAt = &at
	mentee.UpdatedAt = at
	m.s.mentees[id] = mentee
	return nil
}

func (m *MenteeStore) ClearDeleted(_ context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	mentee, ok := m.s.mentees[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	mentee.DeletedAt = nil
	mentee.UpdatedAt = time.Now().UTC()
	m.s.mentees[id] = mentee
	return nil
}

func (m *MenteeStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.mentees[id]; !ok {
		return storeerr.ErrNotFound
	}
	delete(m.s.mentees, id)
	return nil
}

func (m *MenteeStore) List(_ context.Context, p menteestore.ListParams) ([]models.Mentee, int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	q := text.Fold(p.Query)
	var matched []models.Mentee
	for _, mentee := range m.s.mentees {
		if (mentee.DeletedAt == nil) == p.Deleted {
			continue
		}
		if p.Gender != "" && mentee.Gender != p.Gender {
			continue
		}
		if p.Ungrouped && mentee.GroupID != nil {
			continue
		}
		if q != "" && !strings.Contains(mentee.FullNameCI, q) {
			continue
		}
		matched = append(matched, mentee)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FullNameCI < matched[j].FullNameCI })
	total := int64(len(matched))
	return pageSlice(matched, p.Skip, p.Limit), total, nil
}

func (m *MenteeStore) CountByGroups(_ context.Context, groupIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	want := make(map[primitive.ObjectID]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		want[id] = struct{}{}
	}
	counts := make(map[primitive.ObjectID]int64)
	for _, mentee := range m.s.mentees {
		if mentee.DeletedAt != nil || mentee.GroupID == nil {
			continue
		}
		if _, ok := want[*mentee.GroupID]; ok {
			counts[*mentee.GroupID]++
		}
	}
	return counts, nil
}

// HistoryStore mirrors historystore.Store.
type HistoryStore struct {
	s *Store
}

func (h *HistoryStore) Log(_ context.Context, entries []models.Reassignment) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	for _, e := range entries {
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		h.s.history = append(h.s.history, e)
	}
	return nil
}

func (h *HistoryStore) ListByMentee(_ context.Context, menteeID primitive.ObjectID) ([]models.Reassignment, error) {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	var out []models.Reassignment
	for i := len(h.s.history) - 1; i >= 0; i-- {
		if h.s.history[i].MenteeID == menteeID {
			out = append(out, h.s.history[i])
		}
	}
	return out, nil
}

func (h *HistoryStore) CountByMentee(_ context.Context, menteeID primitive.ObjectID) (int64, error) {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	var n int64
	for _, e := range h.s.history {
		if e.MenteeID == menteeID {
			n++
		}
	}
	return n, nil
}

// All returns every history entry in insertion order, for assertions.
func (h *HistoryStore) All() []models.Reassignment {
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	out := make([]models.Reassignment, len(h.s.history))
	copy(out, h.s.history)
	return out
}

// UserStore mirrors userstore.Store.
type UserStore struct {
	s *Store
}

func (u *UserStore) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return models.User{}, storeerr.ErrNotFound
	}
	return user, nil
}

func (u *UserStore) FindByLoginID(_ context.Context, loginID string) (models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	folded := text.Fold(loginID)
	for _, user := range u.s.users {
		if user.LoginIDCI == folded {
			return user, nil
		}
	}
	return models.User{}, storeerr.ErrNotFound
}

func (u *UserStore) Create(_ context.Context, user models.User) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	folded := text.Fold(user.LoginID)
	for _, other := range u.s.users {
		if other.LoginIDCI == folded {
			return models.User{}, storeerr.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.LoginIDCI = folded
	if user.Status == "" {
		user.Status = "active"
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	u.s.users[user.ID] = user
	return user, nil
}

func (u *UserStore) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	user, ok := u.s.users[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()
	u.s.users[id] = user
	return nil
}

// AnnounceStore mirrors announcementstore.Store.
type AnnounceStore struct {
	s *Store
}

func (a *AnnounceStore) GetByID(_ context.Context, id primitive.ObjectID) (models.Announcement, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	ann, ok := a.s.announcements[id]
	if !ok {
		return models.Announcement{}, storeerr.ErrNotFound
	}
	return ann, nil
}

func (a *AnnounceStore) List(_ context.Context, limit int64) ([]models.Announcement, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var out []models.Announcement
	for _, ann := range a.s.announcements {
		out = append(out, ann)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (a *AnnounceStore) Create(_ context.Context, ann models.Announcement) (models.Announcement, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	now := time.Now().UTC()
	ann.ID = primitive.NewObjectID()
	ann.CreatedAt = now
	ann.UpdatedAt = now
	a.s.announcements[ann.ID] = ann
	return ann, nil
}

func (a *AnnounceStore) Update(_ context.Context, id primitive.ObjectID, title, body string) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	ann, ok := a.s.announcements[id]
	if !ok {
		return storeerr.ErrNotFound
	}
	ann.Title = title
	ann.Body = body
	ann.UpdatedAt = time.Now().UTC()
	a.s.announcements[id] = ann
	return nil
}

func (a *AnnounceStore) Delete(_ context.Context, id primitive.ObjectID) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if _, ok := a.s.announcements[id]; !ok {
		return storeerr.ErrNotFound
	}
	delete(a.s.announcements, id)
	return nil
}

func pageSlice[T any](items []T, skip, limit int64) []T {
	if skip >= int64(len(items)) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && int64(len(items)) > limit {
		items = items[:limit]
	}
	return items
}
