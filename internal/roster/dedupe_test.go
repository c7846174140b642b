package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdic-outreach/mealroute/internal/model"
)

func TestFindDuplicates(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "1", LastName: "Smith", FirstName: "Ann", Address: "123 Main St", City: "OKC", Zip: "73102"},
		{ID: "2", LastName: "Smith", FirstName: "Ann", Address: "999 Oak Ave", City: "OKC", Zip: "73103"},
		{ID: "3", LastName: "Lopez", FirstName: "Maria", Address: "456 Elm Dr", Apartment: "Apt 2", City: "Edmond", Zip: "73013"},
		{ID: "4", LastName: "Chen", FirstName: "Wei", Address: "456 Elm Dr", Apartment: "Apt 2", City: "Edmond", Zip: "73013"},
		{ID: "5", LastName: "Park", FirstName: "Jin", Address: "77 Pine Rd", City: "Moore", Zip: "73160"},
	}

	report := FindDuplicates(deliveries)

	require.Len(t, report.Names, 1)
	assert.Equal(t, "Smith", report.Names[0].LastName)
	assert.Equal(t, "Ann", report.Names[0].FirstName)
	assert.Len(t, report.Names[0].Entries, 2)

	require.Len(t, report.Addresses, 1)
	assert.Equal(t, "456 Elm Dr, Apt 2, Edmond, 73013", report.Addresses[0].Describe())
	assert.Len(t, report.Addresses[0].Entries, 2)

	assert.Equal(t, 4, report.UniqueNames)
	assert.Equal(t, 4, report.UniqueAddresses)
}

func TestFindDuplicates_SameAddressDifferentApartment(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "1", LastName: "A", FirstName: "B", Address: "1 Main St", Apartment: "Apt 1", City: "OKC", Zip: "73102"},
		{ID: "2", LastName: "C", FirstName: "D", Address: "1 Main St", Apartment: "Apt 2", City: "OKC", Zip: "73102"},
	}

	report := FindDuplicates(deliveries)
	assert.Empty(t, report.Addresses)
}

func TestFindDuplicates_IgnoresRowsMissingNames(t *testing.T) {
	deliveries := []model.Delivery{
		{ID: "1", LastName: "Solo", Address: "1 Main St"},
		{ID: "2", LastName: "Solo", Address: "1 Main St"},
	}

	report := FindDuplicates(deliveries)
	assert.Empty(t, report.Names)
	// Addresses still count.
	require.Len(t, report.Addresses, 1)
}

func TestFindDuplicates_Empty(t *testing.T) {
	report := FindDuplicates(nil)
	assert.Empty(t, report.Names)
	assert.Empty(t, report.Addresses)
	assert.Zero(t, report.UniqueNames)
}
