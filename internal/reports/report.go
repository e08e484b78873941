package reports

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/Azar1697/Financial-monitoring-and-reporting/internal/transactions"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatXLSX
}

func (f Format) MediaType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// ErrNoData is returned when the filtered set is empty; an empty report
// is refused rather than rendered.
var ErrNoData = errors.New("no data for the selected filters")

// Column headers, in the fixed render order shared by both formats.
var columns = []string{
	"ID",
	"Дата / время",
	"Тип",
	"Категория",
	"Сумма",
	"Статус",
	"Банк получателя",
	"ИНН получателя",
}

// project flattens transactions into table rows in the fixed column
// order. Enum tags are resolved to display labels here, at the rendering
// boundary.
func project(items []transactions.Transaction) [][]string {
	rows := make([][]string, 0, len(items))
	for _, t := range items {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			t.DateTime.Local().Format("02.01.2006 15:04"),
			t.Type.Label(),
			deref(t.Category),
			t.Amount.StringFixed(2),
			t.Status.Label(),
			deref(t.RecipientBank),
			t.RecipientINN,
		})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Render produces the document bytes for the requested format.
func Render(items []transactions.Transaction, format Format) ([]byte, error) {
	if len(items) == 0 {
		return nil, ErrNoData
	}
	rows := project(items)
	switch format {
	case FormatXLSX:
		return buildXLSX(rows)
	case FormatPDF:
		return buildPDF(rows)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Filename embeds the UTC generation time down to the second.
func Filename(format Format, now time.Time) string {
	return "report_" + now.UTC().Format("20060102_150405") + "." + string(format)
}

// columnWidths sizes each column from its longest cell (header
// included): 6pt per character, clamped to [60, 140] so narrow columns
// stay compact and wide ones do not blow up the layout.
func columnWidths(rows [][]string) []float64 {
	widths := make([]float64, len(columns))
	for i, name := range columns {
		maxLen := utf8.RuneCountInString(name)
		for _, row := range rows {
			if n := utf8.RuneCountInString(row[i]); n > maxLen {
				maxLen = n
			}
		}
		w := float64(maxLen) * 6
		if w < 60 {
			w = 60
		}
		if w > 140 {
			w = 140
		}
		widths[i] = w
	}
	return widths
}
