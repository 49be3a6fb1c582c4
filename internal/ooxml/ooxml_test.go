package ooxml

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageBytes(t *testing.T) {
	pkg := NewPackage()
	require.NoError(t, pkg.AddRels("", Relationship{ID: "rId1", Type: RelTypeOfficeDocument, Target: "word/document.xml"}))
	require.NoError(t, pkg.Add("/word/document.xml", "application/test+xml", []byte("<doc/>")))
	assert.Error(t, pkg.Add("word/document.xml", "", nil))

	data, err := pkg.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)
	assert.Equal(t, "[Content_Types].xml", zr.File[0].Name)

	ct, err := ReadFile(zr, "[Content_Types].xml")
	require.NoError(t, err)
	assert.Contains(t, string(ct), `<Override PartName="/word/document.xml" ContentType="application/test+xml"></Override>`)
	assert.Contains(t, string(ct), `Extension="rels"`)

	rels, err := ParseRelationships(zr, "_rels/.rels")
	require.NoError(t, err)
	assert.Equal(t, "word/document.xml", rels["rId1"].Target)

	missing, err := ParseRelationships(zr, "word/_rels/document.xml.rels")
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = ReadFile(zr, "nope.xml")
	assert.Error(t, err)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a &lt;b&gt; &amp; &#34;c&#34;", Escape(`a <b> & "c"`))
	assert.Equal(t, "ok", Escape("o\x00k\x1b"))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, "_rels/.rels.rels", RelsPathFor(".rels"))
	assert.Equal(t, "ppt/_rels/presentation.xml.rels", RelsPathFor("ppt/presentation.xml"))
	assert.Equal(t, "ppt/slides/slide1.xml", ResolveTarget("ppt/presentation.xml", "slides/slide1.xml"))
	assert.Equal(t, "ppt/notesSlides/notesSlide1.xml", ResolveTarget("ppt/slides/slide1.xml", "../notesSlides/notesSlide1.xml"))
	assert.Equal(t, "word/document.xml", ResolveTarget("", "/word/document.xml"))
}

func TestDocumentRoundTrip(t *testing.T) {
	data, err := WriteDocument([]string{"Title", "", "Tom & Jerry <3", "bell\x07"})
	require.NoError(t, err)

	text, err := DocumentText(data)
	require.NoError(t, err)
	assert.Equal(t, "Title\n\n\n\nTom & Jerry <3\n\nbell\n\n", text)
}

func TestDocumentTextTabsAndBreaks(t *testing.T) {
	body := XMLHeader + `<w:document xmlns:w="` + NSWordprocessingML + `"><w:body>` +
		`<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r></w:p>` +
		`<w:p><w:r><w:instrText>PAGE</w:instrText></w:r><w:r><w:t xml:space="preserve"> d </w:t></w:r></w:p>` +
		`</w:body></w:document>`

	pkg := NewPackage()
	require.NoError(t, pkg.AddRels("", Relationship{ID: "rId1", Type: RelTypeOfficeDocument, Target: "word/main.xml"}))
	require.NoError(t, pkg.Add("word/main.xml", ctDocxMain, []byte(body)))
	data, err := pkg.Bytes()
	require.NoError(t, err)

	text, err := DocumentText(data)
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc\n\n d \n\n", text)
}

func TestDocumentTextTextBoxes(t *testing.T) {
	inner := `<w:txbxContent><w:p><w:r><w:t>Inner</w:t></w:r></w:p></w:txbxContent>`
	body := XMLHeader + `<w:document xmlns:w="` + NSWordprocessingML + `" xmlns:mc="` + NSMarkupCompat + `"><w:body>` +
		`<w:p><w:r><w:t xml:space="preserve">Before </w:t></w:r>` +
		`<w:r><w:pict>` + inner + `</w:pict></w:r>` +
		`<w:r><w:tab/><w:t>After</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">Boxed </w:t></w:r><w:r><mc:AlternateContent>` +
		`<mc:Choice Requires="wps"><w:drawing>` + inner + `</w:drawing></mc:Choice>` +
		`<mc:Fallback><w:pict>` + inner + `</w:pict></mc:Fallback>` +
		`</mc:AlternateContent></w:r><w:r><w:t>end</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	pkg := NewPackage()
	require.NoError(t, pkg.AddRels("", Relationship{ID: "rId1", Type: RelTypeOfficeDocument, Target: docxMainPart}))
	require.NoError(t, pkg.Add(docxMainPart, ctDocxMain, []byte(body)))
	data, err := pkg.Bytes()
	require.NoError(t, err)

	text, err := DocumentText(data)
	require.NoError(t, err)
	assert.Equal(t, "Inner\n\nBefore \tAfter\n\nInner\n\nBoxed end\n\n", text)
}

func TestDocumentTextNotAZip(t *testing.T) {
	_, err := DocumentText([]byte("plain"))
	assert.Error(t, err)
}

func TestDeckRoundTrip(t *testing.T) {
	box := func(y float64, text string) TextBox {
		return TextBox{X: Inches(0.5), Y: Inches(y), W: Inches(9), H: Inches(1), Text: text, SizePt: 14}
	}
	data, err := WriteDeck([][]TextBox{
		{box(1.5, "body\n\nmore"), box(0.5, "First")},
		{box(0.5, "Second & last")},
	})
	require.NoError(t, err)

	zr, err := Open(data)
	require.NoError(t, err)
	order, err := SlideOrder(zr)
	require.NoError(t, err)
	assert.Equal(t, []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml"}, order)

	text, err := PresentationText(data)
	require.NoError(t, err)
	assert.Equal(t, "First\nbody\nmore\n\nSecond & last", text)
}

func TestSlideTextOrdering(t *testing.T) {
	slide := `<p:sld xmlns:a="` + NSDrawingML + `" xmlns:p="` + NSPresentationML + `"><p:cSld><p:spTree>` +
		`<p:sp><p:spPr><a:xfrm><a:off x="0" y="500"/></a:xfrm></p:spPr><p:txBody><a:p><a:r><a:t>lower</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="t"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr><a:xfrm><a:off x="0" y="900"/></a:xfrm></p:spPr><p:txBody><a:p><a:r><a:t>Heading</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:graphicFrame><p:xfrm><a:off x="0" y="100"/></p:xfrm><a:graphic><a:graphicData><a:tbl>` +
		`<a:tr><a:tc><a:txBody><a:p><a:r><a:t>k</a:t></a:r></a:p></a:txBody></a:tc><a:tc><a:txBody><a:p><a:r><a:t>v</a:t></a:r></a:p></a:txBody></a:tc></a:tr>` +
		`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>` +
		`<p:sp><p:txBody><a:p/></p:txBody></p:sp>` +
		`</p:spTree></p:cSld></p:sld>`

	text, err := SlideText([]byte(slide))
	require.NoError(t, err)
	assert.Equal(t, "Heading\nk\tv\nlower", text)
}

func TestPresentationNotes(t *testing.T) {
	slide := XMLHeader + `<p:sld xmlns:a="` + NSDrawingML + `" xmlns:p="` + NSPresentationML + `"><p:cSld><p:spTree>` +
		`<p:sp><p:txBody><a:p><a:r><a:t>Slide body</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
	notes := XMLHeader + `<p:notes xmlns:a="` + NSDrawingML + `" xmlns:p="` + NSPresentationML + `"><p:cSld><p:spTree>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="img"/><p:cNvSpPr/><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:txBody><a:p><a:r><a:t>thumbnail</a:t></a:r></a:p></p:txBody></p:sp>` +
		`<p:sp><p:txBody><a:p><a:r><a:t>Say hello</a:t></a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld></p:notes>`

	pkg := NewPackage()
	require.NoError(t, pkg.Add(presentationPart, ctPresentation, []byte(XMLHeader+`<p:presentation xmlns:p="`+NSPresentationML+`"/>`)))
	require.NoError(t, pkg.Add("ppt/slides/slide1.xml", ctSlide, []byte(slide)))
	require.NoError(t, pkg.AddRels("ppt/slides/slide1.xml", Relationship{
		ID:     "rId1",
		Type:   relBase + "notesSlide",
		Target: "../notesSlides/notesSlide1.xml",
	}))
	require.NoError(t, pkg.Add("ppt/notesSlides/notesSlide1.xml", "", []byte(notes)))
	data, err := pkg.Bytes()
	require.NoError(t, err)

	text, err := PresentationText(data)
	require.NoError(t, err)
	assert.Equal(t, "Slide body\n\nNotes:\nSay hello", text)
}

func TestNodeHelpers(t *testing.T) {
	n, err := ParseNode([]byte(`<a x="1"><b><c>one</c></b><c>two</c></a>`))
	require.NoError(t, err)
	assert.Equal(t, "1", n.Attr("x"))
	assert.Equal(t, "one", n.Path("b", "c").Text())
	assert.Nil(t, n.Path("b", "missing"))
	assert.Len(t, n.All("c"), 1)
	assert.Len(t, n.AllDeep("c"), 2)
	assert.Equal(t, "onetwo", n.Text())
}
