package main

import (
	"fmt"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	fileconv "github.com/nicholasgasior/fileconv-go"
	"github.com/nicholasgasior/fileconv-go/internal/credstore"
)

// settings is the resolved CLI configuration.
type settings struct {
	Provider      string
	Model         string
	APIKey        string
	CredentialsDB string
	MaxInputBytes int64
	PDFText       bool
	Verbose       bool
}

func setDefaults() {
	viper.SetDefault("provider", fileconv.DefaultProvider)
	viper.SetDefault("model", "")
	viper.SetDefault("max_input_bytes", int64(fileconv.DefaultMaxInputSize))
	viper.SetDefault("pdf_text", false)
	if dir, err := configDir(); err == nil {
		viper.SetDefault("credentials_db", filepath.Join(dir, "credentials.db"))
	}
}

func loadSettings() (settings, error) {
	s := settings{
		Provider:      viper.GetString("provider"),
		Model:         viper.GetString("model"),
		APIKey:        viper.GetString("api_key"),
		CredentialsDB: viper.GetString("credentials_db"),
		MaxInputBytes: viper.GetInt64("max_input_bytes"),
		PDFText:       viper.GetBool("pdf_text"),
		Verbose:       viper.GetBool("verbose"),
	}
	if err := s.validate(); err != nil {
		return settings{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func (s settings) validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Provider, validation.Required,
			validation.In(fileconv.ProviderGoogleAI, fileconv.ProviderAnthropic)),
		validation.Field(&s.CredentialsDB, validation.Required),
		validation.Field(&s.MaxInputBytes, validation.Min(int64(0))),
	)
}

// model returns the configured model, or the provider's default.
func (s settings) model() string {
	if s.Model != "" {
		return s.Model
	}
	if s.Provider == fileconv.ProviderAnthropic {
		return "claude-sonnet-4-5"
	}
	return fileconv.DefaultModel
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newConverter builds a converter from settings. The returned close func
// releases the credential database.
func newConverter(s settings, log *zap.Logger) (*fileconv.Converter, func(), error) {
	store, err := credstore.Open(s.CredentialsDB)
	if err != nil {
		return nil, nil, err
	}

	creds := fileconv.ChainCredentials{
		fileconv.NewMapCredentials(map[string]string{fileconv.CredentialKey: s.APIKey}),
		store,
		fileconv.DefaultCredentials(),
	}

	conv := fileconv.New(
		fileconv.WithLogger(log),
		fileconv.WithCredentials(creds),
		fileconv.WithProvider(s.Provider),
		fileconv.WithModel(s.model()),
		fileconv.WithMaxInputSize(s.MaxInputBytes),
		fileconv.WithPDFTextExtraction(s.PDFText),
	)
	return conv, func() { store.Close() }, nil
}
