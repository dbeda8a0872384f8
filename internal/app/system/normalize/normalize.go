// internal/app/system/normalize/normalize.go
package normalize

import (
	"strings"

	"github.com/halaqahub/halaqahub/internal/domain/models"
)

// Name trims a display name and collapses internal whitespace runs to a
// single space.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Gender maps free-form input (form values, CSV cells) to a canonical
// Gender. The aliases cover what operators actually type in spreadsheets.
// Returns "" for unrecognized input.
func Gender(s string) models.Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ikhwan", "l", "laki-laki", "male", "m":
		return models.GenderIkhwan
	case "akhwat", "p", "perempuan", "female", "f":
		return models.GenderAkhwat
	}
	return ""
}
