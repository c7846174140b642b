package roster

import (
	"sort"
	"strings"

	"github.com/tdic-outreach/mealroute/internal/model"
)

// NameDuplicate is a (last, first) name appearing on more than one row.
type NameDuplicate struct {
	LastName  string
	FirstName string
	Entries   []model.Delivery
}

// AddressDuplicate is a street/apartment/city/zip combination appearing on
// more than one row.
type AddressDuplicate struct {
	Address   string
	Apartment string
	City      string
	Zip       string
	Entries   []model.Delivery
}

// DuplicateReport summarizes repeated recipients in a roster.
type DuplicateReport struct {
	Names           []NameDuplicate
	Addresses       []AddressDuplicate
	UniqueNames     int
	UniqueAddresses int
}

// FindDuplicates groups roster rows by recipient name and by address and
// reports every key that occurs more than once. Rows missing a name (or an
// address) are excluded from the respective check. Output is sorted so
// reports are stable across runs.
func FindDuplicates(deliveries []model.Delivery) DuplicateReport {
	type nameKey struct{ last, first string }
	type addrKey struct{ address, apartment, city, zip string }

	names := make(map[nameKey][]model.Delivery)
	addresses := make(map[addrKey][]model.Delivery)

	for _, d := range deliveries {
		if d.LastName != "" && d.FirstName != "" {
			k := nameKey{d.LastName, d.FirstName}
			names[k] = append(names[k], d)
		}
		if d.Address != "" {
			k := addrKey{d.Address, d.Apartment, d.City, d.Zip}
			addresses[k] = append(addresses[k], d)
		}
	}

	report := DuplicateReport{
		UniqueNames:     len(names),
		UniqueAddresses: len(addresses),
	}

	for k, entries := range names {
		if len(entries) > 1 {
			report.Names = append(report.Names, NameDuplicate{
				LastName:  k.last,
				FirstName: k.first,
				Entries:   entries,
			})
		}
	}
	sort.Slice(report.Names, func(i, j int) bool {
		a, b := report.Names[i], report.Names[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.FirstName < b.FirstName
	})

	for k, entries := range addresses {
		if len(entries) > 1 {
			report.Addresses = append(report.Addresses, AddressDuplicate{
				Address:   k.address,
				Apartment: k.apartment,
				City:      k.city,
				Zip:       k.zip,
				Entries:   entries,
			})
		}
	}
	sort.Slice(report.Addresses, func(i, j int) bool {
		return report.Addresses[i].Describe() < report.Addresses[j].Describe()
	})

	return report
}

// Describe returns the printable form of the duplicated address.
func (a AddressDuplicate) Describe() string {
	parts := []string{a.Address}
	if a.Apartment != "" {
		parts = append(parts, a.Apartment)
	}
	parts = append(parts, a.City, a.Zip)
	return strings.Join(parts, ", ")
}
