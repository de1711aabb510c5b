// Package importer turns the monthly retail dataset spreadsheet into catalog
// products. The dataset has one row per product per month; the most recent
// month wins.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrMissingColumn     = errors.New("dataset is missing a required column")
)

// Column aliases, matched after trimming and lower-casing the header.
var (
	idColumns       = []string{"product_id", "id"}
	nameColumns     = []string{"product_name", "name"}
	categoryColumns = []string{"product_category", "category"}
	stockColumns    = []string{"total product remaining in stock for that month", "remaining_stock"}
	supplierColumns = []string{"supplier_id"}
	yearColumns     = []string{"year"}
	monthColumns    = []string{"month"}
)

// Stats describes one import run
type Stats struct {
	Rows     int `json:"rows"`
	Products int `json:"products"`
	Skipped  int `json:"skipped"`
}

// LoadFile reads a .xlsx (first sheet) or .csv dataset.
func LoadFile(path string) ([]domain.CatalogProduct, Stats, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err := readXLSX(path)
		if err != nil {
			return nil, Stats{}, err
		}
		return FromRows(rows)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, Stats{}, fmt.Errorf("failed to open csv file %s: %w", path, err)
		}
		defer f.Close()
		return FromCSV(f)
	default:
		return nil, Stats{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// FromCSV reads a dataset from CSV.
func FromCSV(r io.Reader) ([]domain.CatalogProduct, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to read csv: %w", err)
	}
	return FromRows(rows)
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", path, err)
		}
		out = append(out, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in %s: %w", path, err)
	}
	return out, nil
}

type columns struct {
	id, name, category, stock, supplier, year, month int
}

func locateColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	find := func(aliases []string) int {
		for _, a := range aliases {
			if i, ok := index[a]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		id:       find(idColumns),
		name:     find(nameColumns),
		category: find(categoryColumns),
		stock:    find(stockColumns),
		supplier: find(supplierColumns),
		year:     find(yearColumns),
		month:    find(monthColumns),
	}

	for name, idx := range map[string]int{"product_name": cols.name, "product_category": cols.category, "remaining stock": cols.stock} {
		if idx < 0 {
			return cols, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return cols, nil
}

type candidate struct {
	product domain.CatalogProduct
	period  int
}

// FromRows converts a header row plus data rows into products. Rows without a
// name or category, or with an unreadable stock figure, are skipped. When the
// id column is absent the product name is used as id.
func FromRows(rows [][]string) ([]domain.CatalogProduct, Stats, error) {
	var stats Stats
	if len(rows) == 0 {
		return make([]domain.CatalogProduct, 0), stats, nil
	}

	cols, err := locateColumns(rows[0])
	if err != nil {
		return nil, stats, err
	}

	order := make([]string, 0)
	latest := make(map[string]candidate)

	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		stats.Rows++

		name := cell(row, cols.name)
		category := cell(row, cols.category)
		stock, ok := parseStock(cell(row, cols.stock))
		if name == "" || category == "" || !ok {
			stats.Skipped++
			continue
		}

		id := cell(row, cols.id)
		if id == "" {
			id = name
		}

		c := candidate{
			product: domain.CatalogProduct{
				ID:             id,
				Name:           name,
				Category:       category,
				RemainingStock: stock,
				SupplierID:     cell(row, cols.supplier),
			},
			period: period(cell(row, cols.year), cell(row, cols.month)),
		}

		prev, seen := latest[id]
		if !seen {
			order = append(order, id)
		}
		if !seen || c.period >= prev.period {
			latest[id] = c
		}
	}

	products := make([]domain.CatalogProduct, 0, len(order))
	for _, id := range order {
		products = append(products, latest[id].product)
	}
	stats.Products = len(products)
	return products, stats, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseStock accepts integers and whole floats such as "12.0" written by spreadsheets.
func parseStock(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n >= 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// period orders rows chronologically; unknown year or month sorts first.
func period(yearRaw, monthRaw string) int {
	year, _ := strconv.Atoi(yearRaw)
	month, ok := domain.ParseMonth(monthRaw)
	if !ok {
		month, _ = strconv.Atoi(monthRaw)
	}
	return year*100 + month
}
