package reports

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/phpdave11/gofpdf"
)

// Table geometry in points, landscape A4.
const (
	pdfMargin   = 40.0
	pdfRowH     = 14.0
	pdfFontSize = 9.0
	fontName    = "DejaVuSans"
)

// The font is loaded once per process. All report text must render in a
// Cyrillic-capable face, so a missing asset is a configuration error and
// every PDF request after the first failure keeps failing fast.
var (
	fontOnce sync.Once
	fontData []byte
	fontErr  error
)

func loadFont() ([]byte, error) {
	fontOnce.Do(func() {
		path := strings.TrimSpace(os.Getenv("FONT_PATH"))
		if path == "" {
			path = "assets/fonts/DejaVuSans.ttf"
		}
		fontData, fontErr = os.ReadFile(path)
		if fontErr != nil {
			fontErr = fmt.Errorf("report font %s: %w", path, fontErr)
		}
	})
	return fontData, fontErr
}

// rowsPerPage is how many data rows fit under the header before the
// cursor would cross the bottom margin.
func rowsPerPage(pageH float64) int {
	return int((pageH - 2*pdfMargin - pdfRowH) / pdfRowH)
}

// buildPDF renders the rows as a fixed-width table: header at the top of
// every page, one line per row, page break when the cursor reaches the
// bottom margin.
func buildPDF(rows [][]string) ([]byte, error) {
	font, err := loadFont()
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(fontName, "", font)

	widths := columnWidths(rows)
	var tableW float64
	for _, w := range widths {
		tableW += w
	}

	_, pageH := pdf.GetPageSize()
	headerY := pdfMargin + pdfRowH
	bottom := pageH - pdfMargin

	drawHeader := func() {
		x := pdfMargin
		for i, name := range columns {
			pdf.Text(x, headerY, name)
			x += widths[i]
		}
		pdf.Line(pdfMargin, headerY+2, pdfMargin+tableW, headerY+2)
	}

	pdf.AddPage()
	pdf.SetFont(fontName, "", pdfFontSize)
	drawHeader()

	y := headerY
	for _, row := range rows {
		y += pdfRowH
		if y > bottom {
			pdf.AddPage()
			pdf.SetFont(fontName, "", pdfFontSize)
			drawHeader()
			y = headerY + pdfRowH
		}
		x := pdfMargin
		for i, cell := range row {
			pdf.Text(x, y, cell)
			x += widths[i]
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
