package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	fileconv "github.com/nicholasgasior/fileconv-go"
)

func TestResolveFormat(t *testing.T) {
	reg := fileconv.DefaultRegistry()
	tests := map[string]fileconv.Format{
		"pdf":             fileconv.FormatPDF,
		".DOCX":           fileconv.FormatDOCX,
		"application/csv": fileconv.FormatCSV,
		"image/jpg":       fileconv.FormatJPEG,
		"text/plain":      fileconv.FormatText,
	}
	for in, want := range tests {
		got, err := resolveFormat(reg, in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := resolveFormat(reg, "exe")
	assert.ErrorContains(t, err, `unknown format "exe"`)
}

func TestSettingsValidate(t *testing.T) {
	valid := settings{Provider: fileconv.ProviderGoogleAI, CredentialsDB: "creds.db"}
	assert.NoError(t, valid.validate())

	bad := valid
	bad.Provider = "openai"
	assert.Error(t, bad.validate())

	bad = valid
	bad.CredentialsDB = ""
	assert.Error(t, bad.validate())

	bad = valid
	bad.MaxInputBytes = -1
	assert.Error(t, bad.validate())
}

func TestSettingsModel(t *testing.T) {
	assert.Equal(t, fileconv.DefaultModel, settings{Provider: fileconv.ProviderGoogleAI}.model())
	assert.Equal(t, "claude-sonnet-4-5", settings{Provider: fileconv.ProviderAnthropic}.model())
	assert.Equal(t, "custom", settings{Provider: fileconv.ProviderAnthropic, Model: "custom"}.model())
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o600))

	name, data, err := readInput(path)
	require.NoError(t, err)
	assert.Equal(t, "people.csv", name)
	assert.Equal(t, "a,b\n", string(data))

	_, _, err = readInput(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "people.csv")
	cmd := &cobra.Command{}
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	res := &fileconv.Result{Data: []byte("[]"), MIMEType: fileconv.FormatJSON, Filename: "people.json"}
	require.NoError(t, writeOutput(cmd, input, "", res))
	got, err := os.ReadFile(filepath.Join(dir, "people.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
	assert.Contains(t, stderr.String(), "wrote ")

	require.NoError(t, writeOutput(cmd, input, "-", res))
	assert.Equal(t, "[]", stdout.String())

	nested := filepath.Join(dir, "out", "x.json")
	require.NoError(t, writeOutput(cmd, input, nested, res))
	assert.FileExists(t, nested)

	same := &fileconv.Result{Data: []byte("x"), Filename: "people.csv"}
	assert.ErrorContains(t, writeOutput(cmd, input, "", same), "refusing to overwrite")
}

func TestNewConverter(t *testing.T) {
	t.Setenv("FILECONV_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	s := settings{
		Provider:      fileconv.ProviderGoogleAI,
		CredentialsDB: filepath.Join(t.TempDir(), "creds.db"),
		MaxInputBytes: 1 << 20,
	}
	conv, closeConv, err := newConverter(s, zap.NewNop())
	require.NoError(t, err)
	defer closeConv()

	res, err := conv.Convert(context.Background(), fileconv.Request{
		Data:       []byte("a,b\n1,2\n"),
		SourceType: fileconv.FormatCSV,
		TargetType: fileconv.FormatJSON,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"a":1,"b":2}]`, string(res.Data))

	_, err = conv.Convert(context.Background(), fileconv.Request{
		Data:       []byte("hello"),
		SourceType: fileconv.FormatText,
		TargetType: fileconv.FormatPDF,
	})
	assert.True(t, fileconv.IsAuth(err))
}
