// internal/app/importer/limits.go
package importer

// Upload guardrails. Files past these limits are rejected whole rather
// than partially processed.
const (
	// MaxUploadBytes caps the multipart upload size.
	MaxUploadBytes = 5 << 20

	// MaxRows caps the number of data rows in one spreadsheet.
	MaxRows = 2000

	// MaxMenteesPerRow caps the mentee columns on a single row.
	MaxMenteesPerRow = 50
)
