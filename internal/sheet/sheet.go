// Package sheet reads and writes item records as XLSX workbooks.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/closetly/wardrobe-backend/internal/app/model"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Items"

// Columns is the header row written by WriteItems. ReadItems locates columns
// by header name, so id and created_at are ignored on import.
var Columns = []string{
	"id",
	"name",
	"categories",
	"colors",
	"seasons",
	"size",
	"material",
	"image_path",
	"created_at",
}

var requiredColumns = []string{"name", "categories", "colors", "seasons"}

var ErrNoData = errors.New("no data found in workbook")

// RowError reports a skipped row. Row is 1-based as shown in spreadsheet apps.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

type ImportResult struct {
	Items   []model.Item
	Skipped []RowError
}

// WriteItems renders items as a single-sheet workbook.
func WriteItems(w io.Writer, items []model.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			item.ID,
			item.Name,
			joinTags(item.Categories),
			joinTags(item.Colors),
			joinTags(item.Seasons),
			item.Size,
			item.Material,
			item.ImagePath,
			item.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write item %d: %w", item.ID, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 30); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "H", "H", 50); err != nil {
		return err
	}

	return f.Write(w)
}

// ReadItems parses the first sheet of a workbook. Rows with an empty name or
// a tag outside the vocabulary are skipped and reported; a missing required
// column fails the whole import.
func ReadItems(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		cell := func(col string) string {
			idx, ok := index[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if isBlank(row) {
			continue
		}

		item, reason := parseRow(cell)
		if reason != "" {
			result.Skipped = append(result.Skipped, RowError{Row: rowNum, Reason: reason})
			continue
		}
		result.Items = append(result.Items, *item)
	}

	return result, nil
}

func parseRow(cell func(string) string) (*model.Item, string) {
	name := cell("name")
	if name == "" {
		return nil, "name is empty"
	}

	categories, err := model.ParseCategories(splitTags(cell("categories")))
	if err != nil {
		return nil, err.Error()
	}
	colors, err := model.ParseColors(splitTags(cell("colors")))
	if err != nil {
		return nil, err.Error()
	}
	seasons, err := model.ParseSeasons(splitTags(cell("seasons")))
	if err != nil {
		return nil, err.Error()
	}
	if len(categories) == 0 || len(colors) == 0 || len(seasons) == 0 {
		return nil, "every tag dimension needs at least one value"
	}

	return &model.Item{
		Name:       name,
		Categories: categories,
		Colors:     colors,
		Seasons:    seasons,
		Size:       cell("size"),
		Material:   cell("material"),
		ImagePath:  cell("image_path"),
		OwnerID:    model.DefaultOwnerID,
	}, ""
}

func splitTags(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func joinTags[T ~string](tags []T) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
