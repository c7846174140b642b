// Package model holds the shared domain types for the delivery toolkit.
package model

import "strings"

// Delivery is one recipient row from the master roster. Latitude and
// Longitude are zero until geocoding succeeds, after which the record is
// treated as immutable.
type Delivery struct {
	ID           string
	Confirmation string
	LastName     string
	FirstName    string
	Phone        string
	Address      string
	Apartment    string
	City         string
	State        string
	Zip          string
	Meals        string
	Boxes        string
	Language     string
	Notes        string
	Comments     string

	Latitude  float64
	Longitude float64
}

// Name returns the printed "First Last" form.
func (d Delivery) Name() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// FullAddress joins street, city, state and zip with ", ", skipping empty
// parts. This is the form sent to the geocoder and written to output CSVs.
func (d Delivery) FullAddress() string {
	parts := []string{d.Address, d.City, d.State, d.Zip}
	var nonEmpty []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// MapsQuery returns the address in the plus-separated form used in Google and
// Apple Maps links. Anything from "Apt" onward in the street is dropped since
// unit numbers break map lookups.
func (d Delivery) MapsQuery() string {
	street := d.Address
	if i := strings.Index(street, "Apt"); i >= 0 {
		street = street[:i]
	}
	street = strings.TrimSpace(street)

	q := plusEscape(street) + ",+" + plusEscape(d.City) + ",+" + plusEscape(d.State)
	if d.Zip != "" {
		q += "+" + d.Zip
	}
	return q
}

func plusEscape(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "+")
}

// GroupedDelivery pairs a delivery with its assigned group identifier, the
// row form of the delivery_groups.csv output.
type GroupedDelivery struct {
	Group string
	Delivery
}
