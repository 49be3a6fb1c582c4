package fileconv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/ledongthuc/pdf"
)

// Text page layout, in millimetres on A4 portrait.
const (
	pdfFontSize   = 16
	pdfMargin     = 10.0
	pdfTextWidth  = 180.0
	pdfLineHeight = 7.0
)

// pdfCodec is the default PDFCodec: fpdf for writing, ledongthuc/pdf for
// reading text back.
type pdfCodec struct{}

func newPDFCodec() *pdfCodec {
	return &pdfCodec{}
}

// WriteText lays text out as word-wrapped lines of core Helvetica, starting a
// new page whenever the next line would run past the bottom margin.
func (pdfCodec) WriteText(text string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetFont("Helvetica", "", pdfFontSize)
	doc.AddPage()
	_, pageHeight := doc.GetPageSize()

	y := pdfMargin
	for _, line := range wrapLines(doc, sanitizePrintable(text)) {
		if y > pageHeight-pdfMargin {
			doc.AddPage()
			y = pdfMargin
		}
		if line != "" {
			doc.Text(pdfMargin, y, line)
		}
		y += pdfLineHeight
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func wrapLines(doc *fpdf.Fpdf, text string) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, doc.SplitText(para, pdfTextWidth)...)
	}
	return lines
}

// ExtractText returns the text of every page, one line per text row.
func (pdfCodec) ExtractText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := strings.TrimSpace(pageText(page))
		if text == "" {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// pageText joins each row's words, treating an empty fragment between two
// words as a word boundary.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		text, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return text
	}

	var sb strings.Builder
	for _, row := range rows {
		var line strings.Builder
		gap := false
		for _, word := range row.Content {
			if word.S == "" {
				gap = true
				continue
			}
			if line.Len() > 0 && gap && !strings.HasSuffix(line.String(), " ") {
				line.WriteByte(' ')
			}
			line.WriteString(word.S)
			gap = false
		}
		if text := strings.TrimSpace(line.String()); text != "" {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
