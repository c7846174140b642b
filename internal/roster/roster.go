// Package roster reads the master recipient spreadsheet, in CSV or XLSX
// form, into delivery records, and reports duplicate recipients.
package roster

import (
	"strings"

	"github.com/tdic-outreach/mealroute/internal/model"
)

// ColumnMap gives the zero-based column offset of each roster field. The
// exported sheets have shifted columns between event years, so the mapping is
// configuration, not a fixed contract. A negative offset disables a field.
type ColumnMap struct {
	ID           int `yaml:"id" mapstructure:"id"`
	Confirmation int `yaml:"confirmation" mapstructure:"confirmation"`
	LastName     int `yaml:"last_name" mapstructure:"last_name"`
	FirstName    int `yaml:"first_name" mapstructure:"first_name"`
	Phone        int `yaml:"phone" mapstructure:"phone"`
	Address      int `yaml:"address" mapstructure:"address"`
	Apartment    int `yaml:"apartment" mapstructure:"apartment"`
	City         int `yaml:"city" mapstructure:"city"`
	State        int `yaml:"state" mapstructure:"state"`
	Zip          int `yaml:"zip" mapstructure:"zip"`
	Meals        int `yaml:"meals" mapstructure:"meals"`
	Boxes        int `yaml:"boxes" mapstructure:"boxes"`
	Notes        int `yaml:"notes" mapstructure:"notes"`
	Notes2       int `yaml:"notes2" mapstructure:"notes2"`
	Language     int `yaml:"language" mapstructure:"language"`
	Comments     int `yaml:"comments" mapstructure:"comments"`
}

// DefaultColumns matches the current master sheet export.
func DefaultColumns() ColumnMap {
	return ColumnMap{
		ID:           0,
		Confirmation: 1,
		LastName:     2,
		FirstName:    3,
		Phone:        4,
		Address:      5,
		Apartment:    6,
		City:         7,
		State:        8,
		Zip:          9,
		Meals:        10,
		Boxes:        11,
		Notes:        12,
		Notes2:       13,
		Language:     14,
		Comments:     15,
	}
}

// DefaultLanguage is assumed when the language column is empty or absent.
const DefaultLanguage = "ENGLISH"

// col returns the trimmed cell at offset idx, or "" when the offset is
// disabled or past the end of the row.
func col(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow converts one sheet row to a delivery. Rows whose id cell is not
// numeric (headers, section breaks, blanks) are skipped by returning false,
// as are rows without any address.
func (cm ColumnMap) parseRow(row []string) (model.Delivery, bool) {
	id := col(row, cm.ID)
	if id == "" || !isNumeric(id) {
		return model.Delivery{}, false
	}

	d := model.Delivery{
		ID:           id,
		Confirmation: col(row, cm.Confirmation),
		LastName:     col(row, cm.LastName),
		FirstName:    col(row, cm.FirstName),
		Phone:        col(row, cm.Phone),
		Address:      col(row, cm.Address),
		Apartment:    col(row, cm.Apartment),
		City:         col(row, cm.City),
		State:        col(row, cm.State),
		Zip:          col(row, cm.Zip),
		Meals:        col(row, cm.Meals),
		Boxes:        col(row, cm.Boxes),
		Notes:        strings.TrimSpace(col(row, cm.Notes) + col(row, cm.Notes2)),
		Comments:     col(row, cm.Comments),
		Language:     DefaultLanguage,
	}

	if lang := col(row, cm.Language); lang != "" {
		d.Language = strings.ToUpper(lang)
	}

	if d.FullAddress() == "" {
		return model.Delivery{}, false
	}
	return d, true
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
