package fileconv

import (
	"errors"

	"github.com/tidwall/gjson"
)

// contractKind is the reply shape demanded from the reasoning service.
type contractKind int

const (
	contractText contractKind = iota
	contractTable
	contractSlides
)

func (k contractKind) String() string {
	switch k {
	case contractTable:
		return "table"
	case contractSlides:
		return "slides"
	}
	return "text"
}

const (
	instructionBase = "You are a file converter."

	instructionSlides = ` Summarize the content into a presentation.
Strictly output a JSON array of objects, where each object represents a slide and has exactly two keys: "title" (string) and "text" (string).
Example: [{"title": "Intro", "text": "Hello"}]. Do not include Markdown formatting or code blocks. Pure JSON only.`

	instructionTable = ` Extract the data into a structure suitable for a spreadsheet.
Strictly output a JSON Two-Dimensional Array (Array of Arrays), where the first inner array is the header.
Example: [["Name", "Age"], ["Alice", "30"]]. Do not include Markdown formatting or code blocks. Pure JSON only.`

	slideErrorTitle   = "Conversion Error"
	slideErrorPrefix  = "Could not structure content for slides. Raw text: \n"
	slideErrorExcerpt = 500
)

// textHints are the per-target additions to the plain-text instruction.
var textHints = map[Format]string{
	FormatPDF:      " Output as plain text, maintaining layout.",
	FormatDOCX:     " Output as plain text, preserving paragraphs.",
	FormatCSV:      " Output comma-separated values only, with a header row. Quote fields that contain commas, quotes or line breaks.",
	FormatJSON:     " Output valid JSON only, without Markdown formatting or code blocks.",
	FormatHTML:     " Output a complete, self-contained HTML document.",
	FormatMarkdown: " Output Markdown.",
	FormatXML:      " Output well-formed XML only, with a single root element.",
}

const textHintDefault = " Output the content directly."

type contract struct {
	kind        contractKind
	instruction string
}

// contractFor picks the reply shape from the target alone.
func contractFor(target Format) contract {
	switch target {
	case FormatPPTX:
		return contract{kind: contractSlides, instruction: instructionBase + instructionSlides}
	case FormatXLSX:
		return contract{kind: contractTable, instruction: instructionBase + instructionTable}
	}
	hint, ok := textHints[target]
	if !ok {
		hint = textHintDefault
	}
	return contract{kind: contractText, instruction: instructionBase + hint}
}

var (
	errNotArray   = errors.New("reply is not a JSON array")
	errNotTable2D = errors.New("reply is not a JSON array of arrays")
)

// parseSlidePlan reads a slide-list reply.
func parseSlidePlan(reply string) (SlidePlan, error) {
	if !gjson.Valid(reply) {
		return nil, errInvalidJSON
	}
	doc := gjson.Parse(reply)
	if !doc.IsArray() {
		return nil, errNotArray
	}

	var plan SlidePlan
	for _, el := range doc.Array() {
		s := Slide{}
		if el.IsObject() {
			s.Title = jsonText(el.Get("title"))
			s.Text = jsonText(el.Get("text"))
		} else {
			s.Text = jsonText(el)
		}
		plan = append(plan, s)
	}
	return plan, nil
}

// fallbackSlidePlan is the single-slide deck used when a reply cannot be read
// as slides. It keeps the start of the reply for the reader.
func fallbackSlidePlan(reply string) SlidePlan {
	return SlidePlan{{
		Title: slideErrorTitle,
		Text:  slideErrorPrefix + truncateRunes(reply, slideErrorExcerpt),
	}}
}

// parseTableReply reads a table reply: an array whose first element is an array.
func parseTableReply(reply string) (Table, error) {
	if !gjson.Valid(reply) {
		return nil, errInvalidJSON
	}
	doc := gjson.Parse(reply)
	rows := doc.Array()
	if !doc.IsArray() || len(rows) == 0 || !rows[0].IsArray() {
		return nil, errNotTable2D
	}

	t := make(Table, 0, len(rows))
	for _, row := range rows {
		if !row.IsArray() {
			t = append(t, []any{jsonCell(row)})
			continue
		}
		cells := row.Array()
		out := make([]any, len(cells))
		for i, c := range cells {
			out[i] = jsonCell(c)
		}
		t = append(t, out)
	}
	return t, nil
}

func jsonText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String()
	}
	return v.Raw
}
