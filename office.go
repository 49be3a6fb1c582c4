package fileconv

import (
	"strings"

	"github.com/nicholasgasior/fileconv-go/internal/ooxml"
)

// Slide is one entry of a SlidePlan.
type Slide struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// SlidePlan is the ordered content of a slide deck.
type SlidePlan []Slide

const (
	untitledSlide    = "Untitled Slide"
	placeholderTitle = "Conversion Result"
)

// docxCodec is the default DocumentCodec.
type docxCodec struct{}

func newDocxCodec() *docxCodec {
	return &docxCodec{}
}

func (docxCodec) ExtractText(data []byte) (string, error) {
	return ooxml.DocumentText(data)
}

func (docxCodec) WriteParagraphs(paragraphs []string) ([]byte, error) {
	return ooxml.WriteDocument(paragraphs)
}

// pptxCodec is the default SlideCodec. Every slide gets a title box across
// the top and a body box below it; an empty plan yields one placeholder slide.
type pptxCodec struct{}

func newPptxCodec() *pptxCodec {
	return &pptxCodec{}
}

func (pptxCodec) ExtractText(data []byte) (string, error) {
	return ooxml.PresentationText(data)
}

func (pptxCodec) WriteSlides(plan SlidePlan) ([]byte, error) {
	if len(plan) == 0 {
		return ooxml.WriteDeck([][]ooxml.TextBox{{{
			X: ooxml.Inches(1), Y: ooxml.Inches(1), W: ooxml.Inches(8), H: ooxml.Inches(1),
			Text:   placeholderTitle,
			SizePt: 18,
		}}})
	}

	slides := make([][]ooxml.TextBox, 0, len(plan))
	for _, s := range plan {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = untitledSlide
		}
		slides = append(slides, []ooxml.TextBox{
			{
				X: ooxml.Inches(0.5), Y: ooxml.Inches(0.5), W: ooxml.Inches(9), H: ooxml.Inches(1),
				Text:   title,
				SizePt: 24,
				Bold:   true,
				Color:  "363636",
			},
			{
				X: ooxml.Inches(0.5), Y: ooxml.Inches(1.5), W: ooxml.Inches(9), H: ooxml.Inches(4),
				Text:      s.Text,
				SizePt:    14,
				Color:     "666666",
				AnchorTop: true,
			},
		})
	}
	return ooxml.WriteDeck(slides)
}
