// Package export turns the dashboard's filtered supplier view into
// downloadable spreadsheets and PDF documents.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mawrid/mawrid/internal/i18n"
	"github.com/mawrid/mawrid/internal/suppliers"
)

const sheetName = "Suppliers"

// Columns are the exported headers as i18n keys, in sheet order.
var Columns = []string{
	"Company name",
	"Responsible person",
	"Address",
	"City",
	"Category",
	"Primary mobile",
	"Secondary mobile",
	"Email",
	"Created",
}

var columnWidths = []float64{28, 24, 36, 16, 22, 16, 16, 28, 14}

// Row renders s as display values matching Columns.
func Row(lang string, s suppliers.Supplier) []string {
	created := ""
	if !s.CreatedAt.IsZero() {
		created = s.CreatedAt.Format("02/01/2006")
	}
	mobile2 := ""
	if v := s.Mobile2Value(); v != "" {
		mobile2 = suppliers.FormatPhone(v)
	}
	return []string{
		s.CompanyName,
		s.ResponsiblePersonName,
		s.Address,
		s.CityValue(),
		suppliers.CategoryLabel(s.CategoryValue(), lang),
		suppliers.FormatPhone(s.Mobile1),
		mobile2,
		s.EmailValue(),
		created,
	}
}

// WriteXLSX writes rows as a single-sheet workbook with localized headers.
// Arabic workbooks are laid out right to left.
func WriteXLSX(w io.Writer, lang string, rows []suppliers.Supplier) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, key := range Columns {
		header[i] = i18n.T(lang, key)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E8EEF7"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, s := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := Row(lang, s)
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if lang != i18n.English {
		rtl := true
		if err := f.SetSheetView(sheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return fmt.Errorf("sheet direction: %w", err)
		}
	}

	return f.Write(w)
}

// Filename returns the download name for an export taken at now.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("suppliers-%s.%s", now.Format("20060102-1504"), ext)
}
