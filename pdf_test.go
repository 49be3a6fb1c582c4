package fileconv

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFWriteTextPaginates(t *testing.T) {
	words := make([]string, 500)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i)
	}

	out, err := newPDFCodec().WriteText(strings.Join(words, " "))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	r, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	assert.Greater(t, r.NumPage(), 1)
}

func TestPDFRoundTrip(t *testing.T) {
	codec := newPDFCodec()
	out, err := codec.WriteText("Quarterly report\n\nRevenue grew\tsteadily.")
	require.NoError(t, err)

	text, err := codec.ExtractText(out)
	require.NoError(t, err)
	assert.Contains(t, text, "Quarterly report")
	assert.Contains(t, text, "Revenue grew")
	for _, r := range text {
		assert.True(t, r == '\n' || (r >= 0x20 && r <= 0x7E), "unexpected rune %q", r)
	}
}

func TestPDFWriteTextDropsUnprintable(t *testing.T) {
	out, err := newPDFCodec().WriteText("naïve café ☃ ok")
	require.NoError(t, err)

	text, err := newPDFCodec().ExtractText(out)
	require.NoError(t, err)
	assert.NotContains(t, text, "ï")
	assert.Contains(t, text, "ok")
}

func TestPDFExtractCorrupt(t *testing.T) {
	_, err := newPDFCodec().ExtractText([]byte("%PDF-1.4 garbage"))
	assert.Error(t, err)
}

func TestPDFEmptyText(t *testing.T) {
	out, err := newPDFCodec().WriteText("")
	require.NoError(t, err)

	r, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumPage())
}
