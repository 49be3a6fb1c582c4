package fileconv

import "go.uber.org/zap"

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry replaces the built-in format registry.
func WithRegistry(r *Registry) Option {
	return func(c *Converter) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithMaxInputSize sets the largest accepted input in bytes (default 100 MiB).
// Zero or a negative value disables the check.
func WithMaxInputSize(n int64) Option {
	return func(c *Converter) {
		c.maxInputSize = n
	}
}

// WithCredentials sets where the reasoning service API key is read from.
func WithCredentials(s CredentialStore) Option {
	return func(c *Converter) {
		if s != nil {
			c.credentials = s
		}
	}
}

// WithProvider selects the reasoning service provider ("googleai" or "anthropic").
func WithProvider(name string) Option {
	return func(c *Converter) {
		if name != "" {
			c.provider = name
		}
	}
}

// WithModel selects the model used by the reasoning service.
func WithModel(model string) Option {
	return func(c *Converter) {
		if model != "" {
			c.model = model
		}
	}
}

// WithReasonerFactory replaces how reasoning clients are built from a credential.
func WithReasonerFactory(f ReasonerFactory) Option {
	return func(c *Converter) {
		if f != nil {
			c.newReasoner = f
		}
	}
}

// WithMaxPromptChars bounds the extracted text sent to the reasoning service
// (default 30000 characters).
func WithMaxPromptChars(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.maxPromptChars = n
		}
	}
}

// WithPDFTextExtraction makes PDF sources go through local text extraction
// instead of being uploaded inline. Use it with text-only models.
func WithPDFTextExtraction(enabled bool) Option {
	return func(c *Converter) {
		c.pdfAsText = enabled
	}
}

// WithImageCodec replaces the raster image codec.
func WithImageCodec(codec ImageCodec) Option {
	return func(c *Converter) {
		c.caps.image = func() ImageCodec { return codec }
	}
}

// WithSpreadsheetCodec replaces the workbook codec.
func WithSpreadsheetCodec(codec SpreadsheetCodec) Option {
	return func(c *Converter) {
		c.caps.spreadsheet = func() SpreadsheetCodec { return codec }
	}
}

// WithPDFCodec replaces the PDF writer and reader.
func WithPDFCodec(codec PDFCodec) Option {
	return func(c *Converter) {
		c.caps.pdf = func() PDFCodec { return codec }
	}
}

// WithDocumentCodec replaces the word-processing document codec.
func WithDocumentCodec(codec DocumentCodec) Option {
	return func(c *Converter) {
		c.caps.document = func() DocumentCodec { return codec }
	}
}

// WithSlideCodec replaces the slide deck codec.
func WithSlideCodec(codec SlideCodec) Option {
	return func(c *Converter) {
		c.caps.slides = func() SlideCodec { return codec }
	}
}
