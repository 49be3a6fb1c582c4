package fileconv

import (
	"image"
	"io"
	"sync"
)

// ImageCodec decodes and encodes raster images.
type ImageCodec interface {
	Decode(data []byte) (image.Image, error)
	Encode(w io.Writer, img image.Image, target Format) error
	// Opaque reports whether target cannot store transparency.
	Opaque(target Format) bool
}

// SpreadsheetCodec reads and writes workbook containers.
type SpreadsheetCodec interface {
	// ReadFirstSheet returns the first sheet of a workbook. With raw set, cells
	// keep their stored type; otherwise they hold the formatted display text.
	ReadFirstSheet(data []byte, format Format, raw bool) (Table, error)
	// Write builds a single-sheet workbook from t.
	Write(t Table) ([]byte, error)
	// Rewrite re-encodes a whole workbook as XLSX.
	Rewrite(data []byte, format Format) ([]byte, error)
}

// PDFCodec writes text into paginated PDF documents and reads text back.
type PDFCodec interface {
	WriteText(text string) ([]byte, error)
	ExtractText(data []byte) (string, error)
}

// DocumentCodec reads and writes word-processing documents.
type DocumentCodec interface {
	ExtractText(data []byte) (string, error)
	WriteParagraphs(paragraphs []string) ([]byte, error)
}

// SlideCodec reads and writes slide decks.
type SlideCodec interface {
	ExtractText(data []byte) (string, error)
	WriteSlides(plan SlidePlan) ([]byte, error)
}

// capabilities resolves each codec on first use and keeps it for the lifetime
// of the Converter.
type capabilities struct {
	image       func() ImageCodec
	spreadsheet func() SpreadsheetCodec
	pdf         func() PDFCodec
	document    func() DocumentCodec
	slides      func() SlideCodec
}

func defaultCapabilities() capabilities {
	return capabilities{
		image:       sync.OnceValue(func() ImageCodec { return newImageCodec() }),
		spreadsheet: sync.OnceValue(func() SpreadsheetCodec { return newExcelCodec() }),
		pdf:         sync.OnceValue(func() PDFCodec { return newPDFCodec() }),
		document:    sync.OnceValue(func() DocumentCodec { return newDocxCodec() }),
		slides:      sync.OnceValue(func() SlideCodec { return newPptxCodec() }),
	}
}
