// internal/app/policy/genderpolicy/genderpolicy_test.go
package genderpolicy

import (
	"testing"

	"github.com/halaqahub/halaqahub/internal/domain/models"
)

func TestAccepts(t *testing.T) {
	tests := []struct {
		name   string
		group  models.Gender
		mentee models.Gender
		want   bool
	}{
		{"matching ikhwan", models.GenderIkhwan, models.GenderIkhwan, true},
		{"matching akhwat", models.GenderAkhwat, models.GenderAkhwat, true},
		{"mismatch", models.GenderIkhwan, models.GenderAkhwat, false},
		{"invalid group gender", models.Gender(""), models.GenderIkhwan, false},
		{"invalid both", models.Gender("x"), models.Gender("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Accepts(tt.group, models.Mentee{Gender: tt.mentee})
			if got != tt.want {
				t.Errorf("Accepts(%q, %q): got %v, want %v", tt.group, tt.mentee, got, tt.want)
			}
		})
	}
}

func TestPartition_PreservesOrder(t *testing.T) {
	mentees := []models.Mentee{
		{FullName: "A", Gender: models.GenderIkhwan},
		{FullName: "B", Gender: models.GenderAkhwat},
		{FullName: "C", Gender: models.GenderIkhwan},
		{FullName: "D", Gender: models.GenderAkhwat},
	}

	eligible, mismatched := Partition(models.GenderIkhwan, mentees)

	if len(eligible) != 2 || eligible[0].FullName != "A" || eligible[1].FullName != "C" {
		t.Errorf("eligible: got %v", names(eligible))
	}
	if len(mismatched) != 2 || mismatched[0].FullName != "B" || mismatched[1].FullName != "D" {
		t.Errorf("mismatched: got %v", names(mismatched))
	}
}

func names(ms []models.Mentee) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.FullName
	}
	return out
}
