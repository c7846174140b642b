package roster

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/tdic-outreach/mealroute/internal/model"
)

// Read loads a roster file, dispatching on extension: .xlsx workbooks go
// through excelize, anything else is treated as CSV.
func Read(path string, cm ColumnMap) ([]model.Delivery, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, "", cm)
	}
	return ReadCSV(path, cm)
}

// ReadCSV reads a roster CSV. The exports come out of the spreadsheet tool
// Latin-1 encoded, so bytes are decoded through ISO 8859-1 before parsing.
// Malformed rows (non-numeric id, no address) are skipped silently.
func ReadCSV(path string, cm ColumnMap) ([]model.Delivery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var deliveries []model.Delivery
	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "roster: read csv")
		}

		d, ok := cm.parseRow(row)
		if !ok {
			skipped++
			continue
		}
		deliveries = append(deliveries, d)
	}

	zap.L().Debug("roster: parsed csv",
		zap.String("path", path),
		zap.Int("deliveries", len(deliveries)),
		zap.Int("skipped_rows", skipped),
	)
	return deliveries, nil
}

// ReadXLSX reads a roster from a workbook sheet. An empty sheet name means
// the first sheet. Row semantics match ReadCSV.
func ReadXLSX(path, sheet string, cm ColumnMap) ([]model.Delivery, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open workbook")
	}
	defer f.Close() //nolint:errcheck

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: read sheet %q", sheet)
	}

	var deliveries []model.Delivery
	for _, row := range rows {
		if d, ok := cm.parseRow(row); ok {
			deliveries = append(deliveries, d)
		}
	}

	zap.L().Debug("roster: parsed workbook",
		zap.String("path", path),
		zap.String("sheet", sheet),
		zap.Int("deliveries", len(deliveries)),
	)
	return deliveries, nil
}
