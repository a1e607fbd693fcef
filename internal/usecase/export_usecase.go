package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/store"
)

type exportUsecase struct {
	catalog *store.Catalog
	now     func() time.Time
}

func NewExportUsecase(catalog *store.Catalog) domain.ExportUsecase {
	return &exportUsecase{catalog: catalog, now: time.Now}
}

func (u *exportUsecase) Snapshot(_ context.Context) domain.ContentSnapshot {
	return u.catalog.Snapshot()
}

// Workbook renders one sheet per collection plus a key/value Profile sheet
func (u *exportUsecase) Workbook(ctx context.Context) ([]byte, string, error) {
	snap := u.Snapshot(ctx)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", "Profile"); err != nil {
		return nil, "", err
	}
	if err := writeRecordSheet(f, "Profile", snap.Profile, headerStyle); err != nil {
		return nil, "", err
	}

	sheets := []struct {
		name  string
		items any
	}{
		{"Projects", snap.Projects},
		{"Experiences", snap.Experiences},
		{"Testimonials", snap.Testimonials},
		{"Certifications", snap.Certifications},
		{"Services", snap.Services},
		{"Gallery", snap.Gallery},
		{"Resources", snap.Resources},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return nil, "", err
		}
		if err := writeTableSheet(f, s.name, s.items, headerStyle); err != nil {
			return nil, "", fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}
	filename := fmt.Sprintf("portfolio_content_%s.xlsx", u.now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// writeTableSheet writes a slice of entities, one row each, with the JSON
// field names of the element type as headers
func writeTableSheet(f *excelize.File, sheet string, items any, headerStyle int) error {
	columns := jsonFields(reflect.TypeOf(items).Elem())
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, strings.ToUpper(col)); err != nil {
			return err
		}
	}
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheet, "A1", endCell, headerStyle); err != nil {
		return err
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	for rowIdx, row := range gjson.ParseBytes(raw).Array() {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, cellValue(row.Get(escapeKey(col)))); err != nil {
				return err
			}
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, colName, colName, 24)
	}
	return nil
}

// writeRecordSheet writes a single record as field/value rows
func writeRecordSheet(f *excelize.File, sheet string, record any, headerStyle int) error {
	_ = f.SetCellValue(sheet, "A1", "FIELD")
	_ = f.SetCellValue(sheet, "B1", "VALUE")
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return err
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	row := 2
	var walk func(prefix string, v gjson.Result)
	walk = func(prefix string, v gjson.Result) {
		v.ForEach(func(key, value gjson.Result) bool {
			name := prefix + key.String()
			if value.IsObject() {
				walk(name+".", value)
				return true
			}
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), cellValue(value))
			row++
			return true
		})
	}
	walk("", gjson.ParseBytes(raw))

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	return nil
}

func cellValue(v gjson.Result) any {
	switch {
	case !v.Exists():
		return ""
	case v.IsArray():
		parts := make([]string, 0)
		for _, item := range v.Array() {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, ", ")
	case v.IsBool():
		return v.Bool()
	case v.Type == gjson.Number:
		return v.Num
	default:
		return v.String()
	}
}

func jsonFields(t reflect.Type) []string {
	var out []string
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		out = append(out, name)
	}
	return out
}

func escapeKey(key string) string {
	return strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`).Replace(key)
}
