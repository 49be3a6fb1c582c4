package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const (
	docxMainPart = "word/document.xml"
	ctDocxMain   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

// WriteDocument builds a word-processing document with one paragraph per
// entry. Empty entries become empty paragraphs.
func WriteDocument(paragraphs []string) ([]byte, error) {
	var body strings.Builder
	body.WriteString(XMLHeader)
	fmt.Fprintf(&body, `<w:document xmlns:w="%s" xmlns:r="%s"><w:body>`, NSWordprocessingML, NSRelDoc)
	for _, p := range paragraphs {
		if p == "" {
			body.WriteString(`<w:p/>`)
			continue
		}
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(Escape(p))
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`)

	pkg := NewPackage()
	if err := pkg.AddRels("", Relationship{ID: "rId1", Type: RelTypeOfficeDocument, Target: docxMainPart}); err != nil {
		return nil, err
	}
	if err := pkg.Add(docxMainPart, ctDocxMain, []byte(body.String())); err != nil {
		return nil, err
	}
	return pkg.Bytes()
}

// DocumentText returns the raw text of a word-processing document: run text
// with tabs and breaks kept, paragraphs separated by a blank line.
func DocumentText(data []byte) (string, error) {
	zr, err := Open(data)
	if err != nil {
		return "", err
	}

	mainPart := docxMainPart
	if rels, err := ParseRelationships(zr, "_rels/.rels"); err == nil {
		for _, rel := range rels {
			if rel.Type == RelTypeOfficeDocument {
				mainPart = ResolveTarget("", rel.Target)
			}
		}
	}

	doc, err := ReadFile(zr, mainPart)
	if err != nil {
		return "", err
	}

	decoder := xml.NewDecoder(bytes.NewReader(doc))
	var (
		out      strings.Builder
		paras    []*strings.Builder
		runDepth int
		inText   bool
	)
	current := func() *strings.Builder {
		if len(paras) == 0 {
			return nil
		}
		return paras[len(paras)-1]
	}
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", mainPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "Fallback" && t.Name.Space == NSMarkupCompat {
				if err := decoder.Skip(); err != nil {
					return "", fmt.Errorf("decode %s: %w", mainPart, err)
				}
				continue
			}
			switch t.Name.Local {
			case "p":
				paras = append(paras, &strings.Builder{})
			case "r":
				runDepth++
			case "t":
				inText = runDepth > 0
			case "tab":
				if para := current(); para != nil && runDepth > 0 {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if para := current(); para != nil && runDepth > 0 {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				if runDepth > 0 {
					runDepth--
				}
			case "t":
				inText = false
			case "p":
				// A text-box paragraph is written when it closes, ahead of
				// the paragraph that anchors it.
				if para := current(); para != nil {
					out.WriteString(para.String())
					out.WriteString("\n\n")
					paras = paras[:len(paras)-1]
				}
			}
		case xml.CharData:
			if para := current(); para != nil && inText {
				para.Write(t)
			}
		}
	}
	return out.String(), nil
}
