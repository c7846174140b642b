// Package groups reads and writes the delivery_groups.csv interchange file
// that connects the distribute, routes, and labels steps.
package groups

import (
	"encoding/csv"
	"os"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/tdic-outreach/mealroute/internal/model"
)

// Header is the fixed column set of the groups CSV.
var Header = []string{"Group", "ID", "Name", "Address", "Phone", "Language", "Meals", "Latitude", "Longitude"}

// Group is one deliverer's set of stops.
type Group struct {
	ID         string
	Deliveries []model.GroupedDelivery
}

// WriteCSV writes grouped deliveries, ordered by group id then input order.
func WriteCSV(path string, deliveries []model.GroupedDelivery) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "groups: create csv")
	}
	defer f.Close() //nolint:errcheck

	rows := make([]model.GroupedDelivery, len(deliveries))
	copy(rows, deliveries)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Group < rows[j].Group })

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return eris.Wrap(err, "groups: write header")
	}
	for _, d := range rows {
		record := []string{
			d.Group,
			d.ID,
			d.Name(),
			d.FullAddress(),
			d.Phone,
			d.Language,
			d.Meals,
			strconv.FormatFloat(d.Latitude, 'f', -1, 64),
			strconv.FormatFloat(d.Longitude, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "groups: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "groups: flush csv")
}

// ReadCSV loads a groups CSV back into grouped deliveries. Rows without a
// group id or with unparseable coordinates are skipped, matching how the
// downstream map steps treat stale or hand-edited files.
func ReadCSV(path string) ([]model.GroupedDelivery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "groups: open csv")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "groups: read csv")
	}

	var out []model.GroupedDelivery
	for i, row := range records {
		if i == 0 || len(row) < len(Header) {
			continue
		}
		lat, latErr := strconv.ParseFloat(row[7], 64)
		lng, lngErr := strconv.ParseFloat(row[8], 64)
		if row[0] == "" || latErr != nil || lngErr != nil {
			continue
		}
		out = append(out, model.GroupedDelivery{
			Group: row[0],
			Delivery: model.Delivery{
				ID:        row[1],
				FirstName: row[2],
				Address:   row[3],
				Phone:     row[4],
				Language:  row[5],
				Meals:     row[6],
				Latitude:  lat,
				Longitude: lng,
			},
		})
	}
	return out, nil
}

// ByGroup collects grouped deliveries into per-group slices, ordered by group
// id.
func ByGroup(deliveries []model.GroupedDelivery) []Group {
	byID := make(map[string][]model.GroupedDelivery)
	for _, d := range deliveries {
		byID[d.Group] = append(byID[d.Group], d)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Group, 0, len(ids))
	for _, id := range ids {
		out = append(out, Group{ID: id, Deliveries: byID[id]})
	}
	return out
}
