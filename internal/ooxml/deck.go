package ooxml

import (
	"fmt"
	"strings"
)

// Slide geometry in EMU for a 16:9 deck.
const (
	SlideWidth  = 9144000
	SlideHeight = 5143500

	emuPerInch = 914400
)

const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"

	relBase        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	relSlide       = relBase + "slide"
	relSlideLayout = relBase + "slideLayout"
	relSlideMaster = relBase + "slideMaster"
	relTheme       = relBase + "theme"

	masterPart = "ppt/slideMasters/slideMaster1.xml"
	layoutPart = "ppt/slideLayouts/slideLayout1.xml"
	themePart  = "ppt/theme/theme1.xml"
)

// TextBox is a positioned, single-style text frame. Each line of Text becomes
// one paragraph.
type TextBox struct {
	X, Y, W, H int64
	Text       string
	SizePt     int
	Bold       bool
	Color      string
	AnchorTop  bool
}

// WriteDeck builds a presentation with one slide per entry, each slide holding
// the given text boxes.
func WriteDeck(slides [][]TextBox) ([]byte, error) {
	pkg := NewPackage()

	var sldIDs strings.Builder
	presRels := []Relationship{
		{ID: "rId1", Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"},
		{ID: "rId2", Type: relTheme, Target: "theme/theme1.xml"},
	}
	for i, boxes := range slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		rid := fmt.Sprintf("rId%d", i+3)
		presRels = append(presRels, Relationship{ID: rid, Type: relSlide, Target: fmt.Sprintf("slides/slide%d.xml", i+1)})
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="%s"/>`, 256+i, rid)

		if err := pkg.Add(name, ctSlide, []byte(slideXML(boxes))); err != nil {
			return nil, err
		}
		if err := pkg.AddRels(name, Relationship{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"}); err != nil {
			return nil, err
		}
	}

	pres := XMLHeader + `<p:presentation xmlns:a="` + NSDrawingML + `" xmlns:r="` + NSRelDoc + `" xmlns:p="` + NSPresentationML + `">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
		`<p:sldIdLst>` + sldIDs.String() + `</p:sldIdLst>` +
		fmt.Sprintf(`<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="%d" cy="%d"/>`, SlideWidth, SlideHeight, SlideHeight, SlideWidth) +
		`</p:presentation>`

	if err := pkg.AddRels("", Relationship{ID: "rId1", Type: RelTypeOfficeDocument, Target: presentationPart}); err != nil {
		return nil, err
	}
	if err := pkg.Add(presentationPart, ctPresentation, []byte(pres)); err != nil {
		return nil, err
	}
	if err := pkg.AddRels(presentationPart, presRels...); err != nil {
		return nil, err
	}
	if err := pkg.Add(masterPart, ctSlideMaster, []byte(masterXML)); err != nil {
		return nil, err
	}
	if err := pkg.AddRels(masterPart,
		Relationship{ID: "rId1", Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		Relationship{ID: "rId2", Type: relTheme, Target: "../theme/theme1.xml"},
	); err != nil {
		return nil, err
	}
	if err := pkg.Add(layoutPart, ctSlideLayout, []byte(layoutXML)); err != nil {
		return nil, err
	}
	if err := pkg.AddRels(layoutPart, Relationship{ID: "rId1", Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"}); err != nil {
		return nil, err
	}
	if err := pkg.Add(themePart, ctTheme, []byte(themeXML)); err != nil {
		return nil, err
	}
	return pkg.Bytes()
}

// Inches converts inches to EMU.
func Inches(in float64) int64 {
	return int64(in * emuPerInch)
}

func slideXML(boxes []TextBox) string {
	var sb strings.Builder
	sb.WriteString(XMLHeader)
	sb.WriteString(`<p:sld xmlns:a="` + NSDrawingML + `" xmlns:r="` + NSRelDoc + `" xmlns:p="` + NSPresentationML + `">`)
	sb.WriteString(`<p:cSld><p:spTree>`)
	sb.WriteString(spTreeHeader)
	for i, b := range boxes {
		writeTextBox(&sb, i+2, b)
	}
	sb.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return sb.String()
}

func writeTextBox(sb *strings.Builder, id int, b TextBox) {
	fmt.Fprintf(sb, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Text %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, id-1)
	fmt.Fprintf(sb, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`,
		b.X, b.Y, b.W, b.H)

	anchor := "ctr"
	if b.AnchorTop {
		anchor = "t"
	}
	fmt.Fprintf(sb, `<p:txBody><a:bodyPr wrap="square" rtlCol="0" anchor="%s"><a:normAutofit/></a:bodyPr><a:lstStyle/>`, anchor)

	rPr := fmt.Sprintf(`<a:rPr lang="en-US" sz="%d" b="%d" dirty="0">`, b.SizePt*100, boolAttr(b.Bold))
	if b.Color != "" {
		rPr += `<a:solidFill><a:srgbClr val="` + b.Color + `"/></a:solidFill>`
	}
	rPr += `</a:rPr>`

	for _, line := range strings.Split(b.Text, "\n") {
		if line == "" {
			fmt.Fprintf(sb, `<a:p><a:endParaRPr lang="en-US" sz="%d" dirty="0"/></a:p>`, b.SizePt*100)
			continue
		}
		sb.WriteString(`<a:p><a:r>` + rPr + `<a:t>` + Escape(line) + `</a:t></a:r></a:p>`)
	}
	sb.WriteString(`</p:txBody></p:sp>`)
}

func boolAttr(v bool) int {
	if v {
		return 1
	}
	return 0
}

const spTreeHeader = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const masterXML = XMLHeader + `<p:sldMaster xmlns:a="` + NSDrawingML + `" xmlns:r="` + NSRelDoc + `" xmlns:p="` + NSPresentationML + `">` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg><p:spTree>` + spTreeHeader + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`<p:txStyles><p:titleStyle/><p:bodyStyle/><p:otherStyle/></p:txStyles>` +
	`</p:sldMaster>`

const layoutXML = XMLHeader + `<p:sldLayout xmlns:a="` + NSDrawingML + `" xmlns:r="` + NSRelDoc + `" xmlns:p="` + NSPresentationML + `" type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + spTreeHeader + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const themeXML = XMLHeader + `<a:theme xmlns:a="` + NSDrawingML + `" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1><a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="44546A"/></a:dk2><a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4472C4"/></a:accent1><a:accent2><a:srgbClr val="ED7D31"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3><a:accent4><a:srgbClr val="FFC000"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5><a:accent6><a:srgbClr val="70AD47"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0563C1"/></a:hlink><a:folHlink><a:srgbClr val="954F72"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri Light"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:fillStyleLst>` +
	`<a:lnStyleLst><a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln><a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln></a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:bgFillStyleLst>` +
	`</a:fmtScheme></a:themeElements></a:theme>`
