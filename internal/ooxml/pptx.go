package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const presentationPart = "ppt/presentation.xml"

// SlideOrder returns slide part paths in presentation order. When the
// presentation part lists no slides, slide parts are taken by name.
func SlideOrder(zr *zip.Reader) ([]string, error) {
	presData, err := ReadFile(zr, presentationPart)
	if err != nil {
		return nil, err
	}

	rels, err := ParseRelationships(zr, RelsPathFor(presentationPart))
	if err != nil {
		return nil, err
	}

	decoder := xml.NewDecoder(bytes.NewReader(presData))
	var slidePaths []string
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		for _, attr := range se.Attr {
			if attr.Name.Local == "id" && strings.Contains(attr.Name.Space, "relationships") {
				if rel, ok := rels[attr.Value]; ok {
					slidePaths = append(slidePaths, ResolveTarget(presentationPart, rel.Target))
				}
			}
		}
	}

	if len(slidePaths) == 0 {
		for _, f := range zr.File {
			if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
				slidePaths = append(slidePaths, f.Name)
			}
		}
		sort.Slice(slidePaths, func(i, j int) bool {
			return slideNumber(slidePaths[i]) < slideNumber(slidePaths[j])
		})
	}
	return slidePaths, nil
}

func slideNumber(p string) int {
	n, _ := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(p, "ppt/slides/slide"), ".xml"))
	return n
}

type shapeText struct {
	top, left int64
	title     bool
	text      string
}

// SlideText returns the text of one slide part: title placeholders first,
// then the remaining text frames and table cells top to bottom.
func SlideText(slideData []byte) (string, error) {
	root, err := ParseNode(slideData)
	if err != nil {
		return "", fmt.Errorf("parse slide: %w", err)
	}

	var shapes []shapeText
	collectShapes(root, &shapes)
	sort.SliceStable(shapes, func(i, j int) bool {
		if shapes[i].title != shapes[j].title {
			return shapes[i].title
		}
		if shapes[i].top != shapes[j].top {
			return shapes[i].top < shapes[j].top
		}
		return shapes[i].left < shapes[j].left
	})

	parts := make([]string, 0, len(shapes))
	for _, s := range shapes {
		parts = append(parts, s.text)
	}
	return strings.Join(parts, "\n"), nil
}

func collectShapes(n *Node, shapes *[]shapeText) {
	switch n.XMLName.Local {
	case "sp":
		s := shapeText{top: math.MaxInt64, left: math.MaxInt64}
		if ph := n.Path("nvSpPr", "nvPr", "ph"); ph != nil {
			t := ph.Attr("type")
			s.title = t == "title" || t == "ctrTitle"
		}
		position(n.Path("spPr", "xfrm", "off"), &s)
		if tx := n.Child("txBody"); tx != nil {
			s.text = strings.TrimSpace(txBodyText(tx))
		}
		if s.text != "" {
			*shapes = append(*shapes, s)
		}
		return
	case "graphicFrame":
		s := shapeText{top: math.MaxInt64, left: math.MaxInt64}
		position(n.Path("xfrm", "off"), &s)
		var rows []string
		for _, tr := range n.AllDeep("tr") {
			var cells []string
			for _, tc := range tr.All("tc") {
				cell := ""
				if tx := tc.Child("txBody"); tx != nil {
					cell = strings.TrimSpace(txBodyText(tx))
				}
				cells = append(cells, cell)
			}
			rows = append(rows, strings.Join(cells, "\t"))
		}
		if len(rows) > 0 {
			s.text = strings.Join(rows, "\n")
			*shapes = append(*shapes, s)
		}
		return
	}
	for i := range n.Children {
		collectShapes(&n.Children[i], shapes)
	}
}

func position(off *Node, s *shapeText) {
	if off == nil {
		return
	}
	if v, err := strconv.ParseInt(off.Attr("x"), 10, 64); err == nil {
		s.left = v
	}
	if v, err := strconv.ParseInt(off.Attr("y"), 10, 64); err == nil {
		s.top = v
	}
}

func txBodyText(txBody *Node) string {
	var lines []string
	for _, p := range txBody.All("p") {
		var sb strings.Builder
		for _, t := range p.AllDeep("t") {
			sb.WriteString(t.Text())
		}
		if sb.Len() > 0 {
			lines = append(lines, sb.String())
		}
	}
	return strings.Join(lines, "\n")
}

// NotesText returns the speaker notes of a slide, or "" when it has none.
func NotesText(zr *zip.Reader, slidePath string) string {
	rels, err := ParseRelationships(zr, RelsPathFor(slidePath))
	if err != nil {
		return ""
	}
	for _, rel := range rels {
		if !strings.HasSuffix(rel.Type, "/notesSlide") {
			continue
		}
		data, err := ReadFile(zr, ResolveTarget(slidePath, rel.Target))
		if err != nil {
			return ""
		}
		root, err := ParseNode(data)
		if err != nil {
			return ""
		}
		var parts []string
		for _, sp := range root.AllDeep("sp") {
			if ph := sp.Path("nvSpPr", "nvPr", "ph"); ph != nil && ph.Attr("type") == "sldImg" {
				continue
			}
			if tx := sp.Child("txBody"); tx != nil {
				if t := strings.TrimSpace(txBodyText(tx)); t != "" {
					parts = append(parts, t)
				}
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

// PresentationText returns the text of every slide in order, slides separated
// by a blank line. Speaker notes follow their slide.
func PresentationText(data []byte) (string, error) {
	zr, err := Open(data)
	if err != nil {
		return "", err
	}
	order, err := SlideOrder(zr)
	if err != nil {
		return "", fmt.Errorf("slide order: %w", err)
	}

	var slides []string
	for _, p := range order {
		slideData, err := ReadFile(zr, p)
		if err != nil {
			return "", err
		}
		text, err := SlideText(slideData)
		if err != nil {
			return "", fmt.Errorf("%s: %w", p, err)
		}
		if notes := NotesText(zr, p); notes != "" {
			text += "\n\nNotes:\n" + notes
		}
		slides = append(slides, text)
	}
	return strings.Join(slides, "\n\n"), nil
}
