package fileconv

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/nicholasgasior/fileconv-go/internal/ooxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func convertAI(t *testing.T, c *Converter, data []byte, source, target Format) *Result {
	t.Helper()
	res, err := c.Convert(context.Background(), Request{Data: data, SourceType: source, TargetType: target})
	require.NoError(t, err)
	return res
}

func TestAIInlineImagePayload(t *testing.T) {
	r := &fakeReasoner{reply: "# Chart\n\nA red square."}
	img := pngBytes(t, 4, 4)

	res := convertAI(t, newTestConverter(r), img, FormatPNG, FormatMarkdown)
	assert.Equal(t, "# Chart\n\nA red square.", string(res.Data))

	req := r.last(t)
	require.Len(t, req.Parts, 2)
	assert.True(t, req.Parts[0].IsBinary())
	assert.Equal(t, "image/png", req.Parts[0].MIMEType)
	assert.Equal(t, img, req.Parts[0].Data)
	assert.Equal(t, inlineInstruction, req.Parts[1].Text)
	assert.False(t, req.JSON)
	assert.Equal(t, "You are a file converter. Output Markdown.", req.System)
}

func TestAIPDFInlineByDefault(t *testing.T) {
	doc, err := newPDFCodec().WriteText("Hello from a PDF")
	require.NoError(t, err)

	r := &fakeReasoner{reply: "ok"}
	convertAI(t, newTestConverter(r), doc, FormatPDF, FormatText)
	assert.Equal(t, "application/pdf", r.last(t).Parts[0].MIMEType)

	r = &fakeReasoner{reply: "ok"}
	convertAI(t, newTestConverter(r, WithPDFTextExtraction(true)), doc, FormatPDF, FormatText)
	req := r.last(t)
	require.Len(t, req.Parts, 1)
	assert.False(t, req.Parts[0].IsBinary())
	assert.True(t, strings.HasPrefix(req.Parts[0].Text, contentLabel))
	assert.Contains(t, req.Parts[0].Text, "Hello from a PDF")
}

func TestAIExtractedDocumentPayload(t *testing.T) {
	doc, err := ooxml.WriteDocument([]string{"Hello", "", "World"})
	require.NoError(t, err)

	r := &fakeReasoner{reply: "Hello\n\nWorld"}
	convertAI(t, newTestConverter(r), doc, FormatDOCX, FormatMarkdown)

	req := r.last(t)
	require.Len(t, req.Parts, 1)
	assert.Equal(t, "Content:\nHello\n\n\n\nWorld\n\n", req.Parts[0].Text)
}

func TestAIPromptTruncation(t *testing.T) {
	r := &fakeReasoner{reply: "short"}
	c := newTestConverter(r, WithMaxPromptChars(5))
	convertAI(t, c, []byte("ünïcode text that is long"), FormatText, FormatMarkdown)

	assert.Equal(t, "Content:\nünïco", r.last(t).Parts[0].Text)
}

func TestAISlidesFromValidReply(t *testing.T) {
	r := &fakeReasoner{reply: "```json\n" + `[{"title":"Intro","text":"Hello\nthere"},{"title":"","text":"Body"}]` + "\n```"}
	res := convertAI(t, newTestConverter(r), []byte("notes"), FormatText, FormatPPTX)

	req := r.last(t)
	assert.True(t, req.JSON)
	assert.Contains(t, req.System, "presentation")

	text, err := ooxml.PresentationText(res.Data)
	require.NoError(t, err)
	assert.Equal(t, "Intro\nHello\nthere\n\nUntitled Slide\nBody", text)
}

func TestAISlidesFallbackOnInvalidReply(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := &fakeReasoner{reply: "Sorry, here is a summary instead."}
	c := newTestConverter(r, WithLogger(zap.New(core)))

	res := convertAI(t, c, []byte("notes"), FormatText, FormatPPTX)

	text, err := ooxml.PresentationText(res.Data)
	require.NoError(t, err)
	assert.Contains(t, text, "Conversion Error")
	assert.Contains(t, text, "Could not structure content for slides.")
	assert.Contains(t, text, "Sorry, here is a summary instead.")
	assert.Equal(t, 1, logs.FilterMessage("slide reply not usable, writing error slide").Len())
}

func TestAISlidesEmptyPlan(t *testing.T) {
	r := &fakeReasoner{reply: "[]"}
	res := convertAI(t, newTestConverter(r), []byte("notes"), FormatText, FormatPPTX)

	text, err := ooxml.PresentationText(res.Data)
	require.NoError(t, err)
	assert.Equal(t, placeholderTitle, text)
}

func TestAITableFromReply(t *testing.T) {
	r := &fakeReasoner{reply: `[["Name","Age"],["Alice",30]]`}
	res := convertAI(t, newTestConverter(r), []byte("Alice is 30"), FormatText, FormatXLSX)
	assert.True(t, r.last(t).JSON)

	f, err := excelize.OpenReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Age"}, {"Alice", "30"}}, rows)
}

func TestAITableFallbackOnNon2DReply(t *testing.T) {
	r := &fakeReasoner{reply: "Name,Age\nAlice,30"}
	res := convertAI(t, newTestConverter(r), []byte("Alice is 30"), FormatText, FormatXLSX)

	f, err := excelize.OpenReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name", "Age"}, {"Alice", "30"}}, rows)
}

func TestAIDocxTarget(t *testing.T) {
	r := &fakeReasoner{reply: "First paragraph\r\nSecond <b>&</b>"}
	res := convertAI(t, newTestConverter(r), []byte("x"), FormatText, FormatDOCX)

	text, err := ooxml.DocumentText(res.Data)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph\n\nSecond <b>&</b>\n\n", text)
}

func TestAIPDFTarget(t *testing.T) {
	r := &fakeReasoner{reply: "Plain report"}
	res := convertAI(t, newTestConverter(r), []byte("x"), FormatText, FormatPDF)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF-")))
	assert.Equal(t, "You are a file converter. Output as plain text, maintaining layout.", r.last(t).System)
}

func TestAIImageTargetRendersText(t *testing.T) {
	r := &fakeReasoner{reply: "rendered"}
	res := convertAI(t, newTestConverter(r), []byte("x"), FormatText, FormatPNG)

	img, err := png.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, rasterWidth, img.Bounds().Dx())
	assert.Equal(t, rasterMinHeight, img.Bounds().Dy())
}

func TestAIReasonerCachedPerKey(t *testing.T) {
	var built atomic.Int32
	r := &fakeReasoner{reply: "ok"}
	creds := NewMapCredentials(map[string]string{CredentialKey: "one"})
	c := New(
		WithCredentials(creds),
		WithReasonerFactory(func(_ context.Context, cfg ReasonerConfig) (Reasoner, error) {
			built.Add(1)
			return r, nil
		}),
	)

	convertAI(t, c, []byte("a"), FormatText, FormatMarkdown)
	convertAI(t, c, []byte("b"), FormatText, FormatMarkdown)
	assert.EqualValues(t, 1, built.Load())

	creds.Set(CredentialKey, "two")
	convertAI(t, c, []byte("c"), FormatText, FormatMarkdown)
	assert.EqualValues(t, 2, built.Load())
}

func TestAIFactoryFailure(t *testing.T) {
	c := New(
		WithCredentials(NewMapCredentials(map[string]string{CredentialKey: "k"})),
		WithReasonerFactory(func(context.Context, ReasonerConfig) (Reasoner, error) {
			return nil, errors.New("bad model")
		}),
	)
	_, err := c.Convert(context.Background(), Request{Data: []byte("x"), SourceType: FormatText, TargetType: FormatMarkdown})
	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.EqualError(t, serr.Err, "bad model")
}

func TestAIExtractionFailureSkipsReasoner(t *testing.T) {
	r := &fakeReasoner{reply: "unused"}
	_, err := newTestConverter(r).Convert(context.Background(), Request{
		Data:       []byte("not a zip"),
		SourceType: FormatDOCX,
		TargetType: FormatMarkdown,
	})
	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, FormatDOCX, xerr.Format)
	assert.Empty(t, r.requests)
}
