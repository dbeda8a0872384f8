// internal/app/policy/genderpolicy/genderpolicy.go
package genderpolicy

import (
	"github.com/halaqahub/halaqahub/internal/domain/models"
)

// Groups are gender-homogeneous. This package is the single predicate
// every assignment path consults (reconciler attach/move, group creation
// with initial mentees, spreadsheet import) so the rule cannot drift
// between call sites.

// Accepts reports whether a group of gender g may hold mentee m.
func Accepts(g models.Gender, m models.Mentee) bool {
	return g.Valid() && g == m.Gender
}

// Partition splits mentees into those a group of gender g accepts and
// those it rejects. Order is preserved.
func Partition(g models.Gender, mentees []models.Mentee) (eligible, mismatched []models.Mentee) {
	for _, m := range mentees {
		if Accepts(g, m) {
			eligible = append(eligible, m)
		} else {
			mismatched = append(mismatched, m)
		}
	}
	return eligible, mismatched
}
