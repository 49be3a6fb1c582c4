package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const (
	// XMLHeader starts every part written by this package.
	XMLHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"

	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
)

type part struct {
	name string
	data []byte
}

type contentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []ctDefault   `xml:"Default"`
	Overrides []ctOverrides `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverrides struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// Package collects parts and writes them as one zip container with a
// generated [Content_Types].xml.
type Package struct {
	parts     []part
	overrides []ctOverrides
	seen      map[string]bool
}

// NewPackage returns an empty package.
func NewPackage() *Package {
	return &Package{seen: make(map[string]bool)}
}

// Add stores a part. A non-empty contentType registers an override for it.
func (p *Package) Add(name, contentType string, data []byte) error {
	name = strings.TrimPrefix(name, "/")
	if p.seen[name] {
		return fmt.Errorf("duplicate part %q", name)
	}
	p.seen[name] = true
	p.parts = append(p.parts, part{name: name, data: data})
	if contentType != "" {
		p.overrides = append(p.overrides, ctOverrides{PartName: "/" + name, ContentType: contentType})
	}
	return nil
}

// AddRels stores the relationships part for owner ("" for the package root).
func (p *Package) AddRels(owner string, rels ...Relationship) error {
	name := "_rels/.rels"
	if owner != "" {
		name = RelsPathFor(owner)
	}
	data, err := MarshalPart(Relationships{Xmlns: NSRelationships, Relationships: rels})
	if err != nil {
		return err
	}
	return p.Add(name, "", data)
}

// Bytes writes the package.
func (p *Package) Bytes() ([]byte, error) {
	ct, err := MarshalPart(contentTypes{
		Xmlns: NSContentTypes,
		Defaults: []ctDefault{
			{Extension: "rels", ContentType: ctRelationships},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: p.overrides,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, pt := range append([]part{{name: "[Content_Types].xml", data: ct}}, p.parts...) {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: pt.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", pt.name, err)
		}
		if _, err := w.Write(pt.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalPart encodes v as a standalone XML part.
func MarshalPart(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal part: %w", err)
	}
	return append([]byte(XMLHeader), body...), nil
}

// Escape returns s as XML character data, dropping characters XML 1.0 cannot carry.
func Escape(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF, r >= 0xD800 && r <= 0xDFFF:
			return -1
		}
		return r
	}, s)
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}
