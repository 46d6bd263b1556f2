// internal/adapters/spreadsheet/xlsx.go
package spreadsheet

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pos-inventory/internal/core/domain"
)

// ContentType is the MIME type of xlsx workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const moneyFormat = "#,##0.00"

// RowError describes a sheet row that was skipped
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ReadProducts reads the first sheet of a catalog workbook.
// The first row is a header, then each row holds a title and a price.
// Prices may be numeric cells or text such as "R$ 1.234,56".
func ReadProducts(data []byte) ([]domain.ProductType, []RowError, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	var (
		products []domain.ProductType
		skipped  []RowError
		rowNum   int
	)

	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		rowNum++
		if rowNum == 1 {
			return nil
		}

		title := cellString(r, 0)
		priceText := cellString(r, 1)
		if title == "" && priceText == "" {
			return nil
		}
		if title == "" {
			skipped = append(skipped, RowError{Row: rowNum, Reason: "missing title"})
			return nil
		}

		price, err := parsePrice(priceText)
		if err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Reason: err.Error()})
			return nil
		}

		products = append(products, domain.ProductType{Title: title, Price: price})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return products, skipped, nil
}

func cellString(r *xlsx.Row, i int) string {
	c := r.GetCell(i)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.String())
}

func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, fmt.Errorf("missing price")
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}
	d, err := domain.ParseBRL(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", s)
	}
	return d, nil
}

// WriteSales renders orders as a workbook with a closing total row.
// Dates are shown in loc.
func WriteSales(w io.Writer, orders []domain.OrderSummary, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Vendas")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	header := sheet.AddRow()
	for _, title := range []string{"Pedido", "Data", "Itens", "Total"} {
		cell := header.AddCell()
		cell.SetString(title)
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	total := decimal.Zero
	items := 0
	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt64(o.ID)
		row.AddCell().SetString(o.OrderDate.In(loc).Format("02/01/2006 15:04"))
		row.AddCell().SetInt(o.Items)
		row.AddCell().SetFloatWithFormat(o.Total.InexactFloat64(), moneyFormat)

		total = total.Add(o.Total)
		items += o.Items
	}

	footer := sheet.AddRow()
	label := footer.AddCell()
	label.SetString("Total")
	label.GetStyle().Font.Bold = true
	footer.AddCell()
	footer.AddCell().SetInt(items)
	footer.AddCell().SetFloatWithFormat(total.InexactFloat64(), moneyFormat)

	for i := 0; i < 4; i++ {
		sheet.SetColWidth(i+1, i+1, 18)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
