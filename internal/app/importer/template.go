// internal/app/importer/template.go
package importer

import (
	"encoding/csv"
	"io"
)

// TemplateFilename is the suggested download name for the blank
// spreadsheet.
const TemplateFilename = "groups-import-template.csv"

// WriteTemplate emits the blank import spreadsheet: the header row plus
// one illustrative row the operator replaces with real data.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"group_name", "mentor", "mentee_1", "mentee_2", "mentee_3"},
		{"Halaqah Al-Fatih", "Ahmad Fauzi", "Budi Santoso", "Rizky Pratama", ""},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
