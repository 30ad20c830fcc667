package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jasanvivian/solepos/internal/model"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseInventoryXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Name", "Price", "Quantity"},
		{"Boots", 49.99, 12},
		{"Sandals", 15, 30},
	})

	rows, skipped, err := ParseInventoryXLSX(buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, ImportRow{Name: "Boots", Price: 49.99, Quantity: 12}, rows[0])
	assert.Equal(t, ImportRow{Name: "Sandals", Price: 15, Quantity: 30}, rows[1])
}

func TestParseInventoryXLSXSkipsMalformedRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"name", "price", "quantity"},
		{"Boots", 49.99, 12},
		{"", 10, 5},            // missing name
		{"Heels", "abc", 5},    // unparseable price
		{"Loafers", 20, -3},    // negative quantity
		{"Sneakers", 25.5, 10}, // fine
	})

	rows, skipped, err := ParseInventoryXLSX(buf)
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "Boots", rows[0].Name)
	assert.Equal(t, "Sneakers", rows[1].Name)
}

func TestParseInventoryXLSXColumnOrderIndependent(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Quantity", "Name", "Price"},
		{7, "Boots", 49.99},
	})

	rows, _, err := ParseInventoryXLSX(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ImportRow{Name: "Boots", Price: 49.99, Quantity: 7}, rows[0])
}

func TestParseInventoryXLSXMissingHeader(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"name", "cost", "quantity"},
		{"Boots", 49.99, 12},
	})

	_, _, err := ParseInventoryXLSX(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name, price or quantity column")
}

func TestParseInventoryXLSXNotAWorkbook(t *testing.T) {
	_, _, err := ParseInventoryXLSX(strings.NewReader("not an xlsx file"))
	require.Error(t, err)
}

func TestWriteInventoryXLSXRoundTrip(t *testing.T) {
	items := []model.Item{
		{Name: "Boots", Price: 49.99, Quantity: 12},
		{Name: "Sandals", Price: 15, Quantity: 30},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInventoryXLSX(&buf, items))

	rows, skipped, err := ParseInventoryXLSX(&buf)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "Boots", rows[0].Name)
	assert.Equal(t, 49.99, rows[0].Price)
	assert.Equal(t, 30, rows[1].Quantity)
}

func TestWriteInventoryCSV(t *testing.T) {
	items := []model.Item{
		{Name: "Boots", Price: 49.99, Quantity: 12},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInventoryCSV(&buf, items))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,price,quantity", lines[0])
	assert.Equal(t, "Boots,49.99,12", lines[1])
}
