// Package report reads and writes inventory spreadsheets for bulk import
// and export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jasanvivian/solepos/internal/model"
)

// ImportRow is one parsed row of an inventory upload.
type ImportRow struct {
	Name     string
	Price    float64
	Quantity int
}

// ParseInventoryXLSX reads the first sheet of an xlsx upload. The first row
// must be a header containing name, price and quantity columns (any order,
// case-insensitive). Malformed rows are skipped, not rejected: bulk import
// is deliberately lenient, unlike the sale endpoint.
func ParseInventoryXLSX(r io.Reader) ([]ImportRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	nameCol, priceCol, qtyCol := -1, -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "name":
			nameCol = i
		case "price":
			priceCol = i
		case "quantity":
			qtyCol = i
		}
	}
	if nameCol < 0 || priceCol < 0 || qtyCol < 0 {
		return nil, 0, fmt.Errorf("missing name, price or quantity column")
	}

	var parsed []ImportRow
	skipped := 0
	for _, row := range rows[1:] {
		imported, ok := parseRow(row, nameCol, priceCol, qtyCol)
		if !ok {
			skipped++
			continue
		}
		parsed = append(parsed, imported)
	}
	return parsed, skipped, nil
}

func parseRow(row []string, nameCol, priceCol, qtyCol int) (ImportRow, bool) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name := cell(nameCol)
	if name == "" {
		return ImportRow{}, false
	}
	price, err := strconv.ParseFloat(cell(priceCol), 64)
	if err != nil || price < 0 {
		return ImportRow{}, false
	}
	quantity, err := strconv.Atoi(cell(qtyCol))
	if err != nil || quantity < 0 {
		return ImportRow{}, false
	}
	return ImportRow{Name: name, Price: price, Quantity: quantity}, true
}

// WriteInventoryXLSX writes items as an xlsx workbook with a header row.
func WriteInventoryXLSX(w io.Writer, items []model.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"name", "price", "quantity"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, item := range items {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &[]any{item.Name, item.Price, item.Quantity}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// WriteInventoryCSV writes items as CSV with a header row.
func WriteInventoryCSV(w io.Writer, items []model.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "price", "quantity"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, item := range items {
		record := []string{
			item.Name,
			strconv.FormatFloat(item.Price, 'f', -1, 64),
			strconv.Itoa(item.Quantity),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row for %q: %w", item.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
