// internal/domain/models/gender.go
package models

// Gender classifies mentors, mentees, and groups. Groups are
// gender-homogeneous: a group only ever holds mentees of its own gender,
// and a group's gender comes from its mentor at creation time unless set
// explicitly.
type Gender string

const (
	GenderIkhwan Gender = "ikhwan"
	GenderAkhwat Gender = "akhwat"
)

// Valid reports whether g is one of the two known gender values.
func (g Gender) Valid() bool {
	return g == GenderIkhwan || g == GenderAkhwat
}
