package fileconv

// extractText pulls plain text out of a source the reasoning service does not
// take as inline binary. Anything without a dedicated reader is decoded as
// text.
func (c *Converter) extractText(req Request) (string, error) {
	var (
		text string
		err  error
	)
	switch req.SourceType {
	case FormatDOCX:
		text, err = c.caps.document().ExtractText(req.Data)
	case FormatPPTX:
		text, err = c.caps.slides().ExtractText(req.Data)
	case FormatXLSX, FormatXLS:
		var t Table
		if t, err = c.caps.spreadsheet().ReadFirstSheet(req.Data, req.SourceType, false); err == nil {
			var out []byte
			out, err = t.CSV()
			text = string(out)
		}
	case FormatPDF:
		text, err = c.caps.pdf().ExtractText(req.Data)
	case FormatHTML:
		text, err = htmlText(decodeText(req.Data))
	default:
		text = decodeText(req.Data)
	}
	if err != nil {
		return "", &ExtractionError{Format: req.SourceType, Err: err}
	}
	return text, nil
}
