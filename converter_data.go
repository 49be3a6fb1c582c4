package fileconv

import (
	"context"

	"go.uber.org/zap"
)

// DataStrategy converts among CSV, JSON and spreadsheet workbooks without any
// remote call.
type DataStrategy struct {
	conv *Converter
}

func newDataStrategy(c *Converter) *DataStrategy {
	return &DataStrategy{conv: c}
}

func (s *DataStrategy) Accepts(source, target Format) bool {
	r := s.conv.registry
	return r.IsFamily(source, FamilyData) && r.IsFamily(target, FamilyData)
}

func (s *DataStrategy) Convert(ctx context.Context, req Request) ([]byte, error) {
	src, dst := req.SourceType, req.TargetType
	log := loggerFrom(ctx)

	if src == FormatJSON {
		if dst == FormatJSON {
			return nil, &UnsupportedPathError{Source: src, Target: dst}
		}
		t, err := parseJSONTable(req.Data)
		if err != nil {
			return nil, &ParseError{Format: src, Err: err}
		}
		log.Debug("json table parsed", zap.Int("rows", len(t)-1), zap.Int("columns", t.Width()))
		return s.emit(t, src, dst)
	}

	codec := s.conv.caps.spreadsheet()
	switch dst {
	case FormatJSON:
		t, err := codec.ReadFirstSheet(req.Data, src, true)
		if err != nil {
			return nil, &ParseError{Format: src, Err: err}
		}
		return s.emit(t, src, dst)

	case FormatCSV:
		t, err := codec.ReadFirstSheet(req.Data, src, false)
		if err != nil {
			return nil, &ParseError{Format: src, Err: err}
		}
		return s.emit(t, src, dst)

	case FormatXLSX:
		if src == FormatXLSX || src == FormatXLS {
			out, err := codec.Rewrite(req.Data, src)
			if err != nil {
				return nil, &ParseError{Format: src, Err: err}
			}
			return out, nil
		}
		t, err := codec.ReadFirstSheet(req.Data, src, true)
		if err != nil {
			return nil, &ParseError{Format: src, Err: err}
		}
		return s.emit(t, src, dst)
	}
	return nil, &UnsupportedPathError{Source: src, Target: dst}
}

// emit serialises a table as dst.
func (s *DataStrategy) emit(t Table, src, dst Format) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch dst {
	case FormatCSV:
		out, err = t.CSV()
	case FormatJSON:
		out, err = marshalRecords(t)
	case FormatXLSX:
		out, err = s.conv.caps.spreadsheet().Write(t)
	default:
		return nil, &UnsupportedPathError{Source: src, Target: dst}
	}
	if err != nil {
		return nil, &EncodeError{Format: dst, Err: err}
	}
	return out, nil
}
