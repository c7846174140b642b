package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeRosterCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleCSV = `ID,Confirmation,Last name,First name,Phone,Address,Apartment,City,State,Zip,Meals,Boxes,Notes,Notes2,Language,Comments
1,Y,Smith,Ann,405-555-0100,123 Main St,,Oklahoma City,OK,73102,4,1,,,ENGLISH,ring doorbell
2,Y,Lopez,Maria,405-555-0101,456 Oak Ave,Apt 2,Edmond,OK,73013,2,1,,,Spanish,
,,,,,,,,,,,,,,,
not-a-row
3,N,Chen,Wei,405-555-0102,789 Elm Dr,,Moore,OK,73160,6,2,,,,`

func TestReadCSV(t *testing.T) {
	path := writeRosterCSV(t, sampleCSV)

	deliveries, err := ReadCSV(path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, deliveries, 3)

	d := deliveries[0]
	assert.Equal(t, "1", d.ID)
	assert.Equal(t, "Ann Smith", d.Name())
	assert.Equal(t, "123 Main St, Oklahoma City, OK, 73102", d.FullAddress())
	assert.Equal(t, "ENGLISH", d.Language)
	assert.Equal(t, "ring doorbell", d.Comments)

	// Language is uppercased, and defaults when absent.
	assert.Equal(t, "SPANISH", deliveries[1].Language)
	assert.Equal(t, "ENGLISH", deliveries[2].Language)
	assert.Equal(t, "Apt 2", deliveries[1].Apartment)
}

func TestReadCSV_SkipsMalformedRows(t *testing.T) {
	// Header, short row, non-numeric id, and a row with no address all drop.
	content := "ID,Conf,Last,First,Phone,Address,Apt,City,State,Zip,Meals,Boxes\n" +
		"abc,Y,X,Y,555,street,,city,OK,73000,1,1\n" +
		"7\n" +
		"8,Y,Kim,Lee,555,,,,,,1,1\n" +
		"9,Y,Park,Jin,555,10 Pine St,,Yukon,OK,73099,1,1\n"
	path := writeRosterCSV(t, content)

	deliveries, err := ReadCSV(path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "9", deliveries[0].ID)
}

func TestReadCSV_Latin1(t *testing.T) {
	// 0xE9 is é in Latin-1; invalid as UTF-8 on its own.
	content := "1,Y,Garc\xeda,Jos\xe9,405-555-0100,123 Main St,,Oklahoma City,OK,73102,2,1,,,SPANISH,\n"
	path := writeRosterCSV(t, content)

	deliveries, err := ReadCSV(path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "José García", deliveries[0].Name())
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), DefaultColumns())
	assert.Error(t, err)
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	rows := [][]any{
		{"ID", "Confirmation", "Last name", "First name", "Phone", "Address", "Apartment", "City", "State", "Zip", "Meals", "Boxes", "Notes", "Notes2", "Language", "Comments"},
		{"1", "Y", "Smith", "Ann", "405-555-0100", "123 Main St", "", "Oklahoma City", "OK", "73102", "4", "1", "", "", "ENGLISH", ""},
		{"2", "Y", "Lopez", "Maria", "405-555-0101", "456 Oak Ave", "Apt 2", "Edmond", "OK", "73013", "2", "1", "", "", "SPANISH", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "roster.xlsx")
	require.NoError(t, f.SaveAs(path))

	deliveries, err := Read(path, DefaultColumns())
	require.NoError(t, err)
	require.Len(t, deliveries, 2)
	assert.Equal(t, "Maria Lopez", deliveries[1].Name())
	assert.Equal(t, "SPANISH", deliveries[1].Language)
}

func TestParseRow_CustomColumns(t *testing.T) {
	// An older sheet with language right after boxes.
	cm := DefaultColumns()
	cm.Language = 12
	cm.Notes = -1
	cm.Notes2 = -1
	cm.Comments = -1

	row := []string{"4", "Y", "Diaz", "Luz", "555", "1 Elm St", "", "Tulsa", "OK", "74101", "2", "1", "spanish"}
	d, ok := cm.parseRow(row)

	require.True(t, ok)
	assert.Equal(t, "SPANISH", d.Language)
	assert.Empty(t, d.Notes)
}
