package fileconv

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func convertData(t *testing.T, data []byte, source, target Format) ([]byte, error) {
	t.Helper()
	res, err := New().Convert(context.Background(), Request{
		Data:       data,
		SourceType: source,
		TargetType: target,
	})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func TestJSONObjectToCSV(t *testing.T) {
	out, err := convertData(t, []byte(`{"name":"Alice","age":30}`), FormatJSON, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "name,age\nAlice,30\n", string(out))
}

func TestJSONHeterogeneousToCSV(t *testing.T) {
	out, err := convertData(t, []byte(`[{"a":1,"b":"x"},{"c":true},{"a":2.5,"c":false}]`), FormatJSON, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,x,\n,,TRUE\n2.5,,FALSE\n", string(out))
}

func TestJSONToXLSXToJSONRoundTrip(t *testing.T) {
	in := `[{"name":"Alice","age":30,"member":true},{"name":"Bob","age":null,"member":false},{"name":"","age":41.5,"member":null}]`

	xlsx, err := convertData(t, []byte(in), FormatJSON, FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(xlsx))
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "30", v)

	out, err := convertData(t, xlsx, FormatXLSX, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"name":"Alice","age":30,"member":true},
		{"name":"Bob","age":null,"member":false},
		{"name":null,"age":41.5,"member":null}
	]`, string(out))
}

func TestCSVToXLSXKeepsTypes(t *testing.T) {
	xlsx, err := convertData(t, []byte("sku,qty,note\nA-1,3,\"x, y\"\nB-2,,z\n"), FormatCSV, FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(xlsx))
	require.NoError(t, err)
	defer f.Close()

	typ, err := f.GetCellType("Sheet1", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
	assert.NotEqual(t, excelize.CellTypeInlineString, typ)

	note, err := f.GetCellValue("Sheet1", "C2")
	require.NoError(t, err)
	assert.Equal(t, "x, y", note)
}

func TestCSVToJSON(t *testing.T) {
	out, err := convertData(t, []byte("id,label,,label\n1,one,extra,dup\n\n2,two\n"), FormatCSV, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"label":"one","__EMPTY":"extra","label_1":"dup"},
		{"id":2,"label":"two","__EMPTY":null,"label_1":null}
	]`, string(out))
}

func TestCSVToCSVNormalisesQuoting(t *testing.T) {
	out, err := convertData(t, []byte("a;b,\"c\"\n\"q\"\"uote\",2\n"), FormatCSV, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "a;b,c\n\"q\"\"uote\",2\n", string(out))
}

func TestXLSXToCSVUsesFormattedText(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "price"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 0.5))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	csvOut, err := convertData(t, buf.Bytes(), FormatXLSX, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "price\n50.00%\n", string(csvOut))

	jsonOut, err := convertData(t, buf.Bytes(), FormatXLSX, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"price":0.5}]`, string(jsonOut))
}

func TestXLSXToXLSXRewrites(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Second")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Second", "A1", "kept"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, err := convertData(t, buf.Bytes(), FormatXLSX, FormatXLSX)
	require.NoError(t, err)

	g, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, []string{"Sheet1", "Second"}, g.GetSheetList())
}

func TestDataUnsupportedPairs(t *testing.T) {
	tests := []struct {
		source, target Format
	}{
		{FormatJSON, FormatJSON},
		{FormatCSV, FormatXLS},
		{FormatJSON, FormatXLS},
	}
	for _, tt := range tests {
		_, err := convertData(t, []byte(`[]`), tt.source, tt.target)
		assert.True(t, IsUnsupportedPath(err), "%s -> %s: %v", tt.source, tt.target, err)
	}
}

func TestDataParseErrors(t *testing.T) {
	_, err := convertData(t, []byte(`{"a":`), FormatJSON, FormatCSV)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, FormatJSON, perr.Format)

	_, err = convertData(t, []byte("not a workbook"), FormatXLSX, FormatJSON)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, FormatXLSX, perr.Format)

	_, err = convertData(t, []byte("not a workbook"), FormatXLS, FormatCSV)
	require.ErrorAs(t, err, &perr)
}
