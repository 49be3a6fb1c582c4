package fileconv

import (
	_ "embed"
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed formats.yaml
var formatsYAML []byte

// Family groups formats that share a conversion strategy.
type Family string

const (
	FamilyText     Family = "text"
	FamilyData     Family = "data"
	FamilyDocument Family = "document"
	FamilyImage    Family = "image"
)

// FormatInfo describes one registered format.
type FormatInfo struct {
	Type       Format   `yaml:"type"`
	Name       string   `yaml:"name"`
	Extension  string   `yaml:"extension"`
	Family     Family   `yaml:"family"`
	Aliases    []Format `yaml:"aliases"`
	Extensions []string `yaml:"extensions"`
	Targets    []Format `yaml:"targets"`
}

// Registry maps formats to their display data and allowed conversion targets.
// A Registry is immutable once loaded and safe for concurrent use.
type Registry struct {
	formats []FormatInfo
	byType  map[Format]int
	aliases map[Format]Format
	byExt   map[string]Format
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := ParseRegistry(formatsYAML)
	if err != nil {
		panic(fmt.Sprintf("fileconv: embedded formats.yaml: %v", err))
	}
	return r
})

// DefaultRegistry returns the built-in registry.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// ParseRegistry loads a registry from YAML and validates it: every target must
// itself be a registered format, and type, extension and alias keys must be unique.
func ParseRegistry(data []byte) (*Registry, error) {
	var doc struct {
		Formats []FormatInfo `yaml:"formats"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal formats: %w", err)
	}

	r := &Registry{
		byType:  make(map[Format]int, len(doc.Formats)),
		aliases: make(map[Format]Format),
		byExt:   make(map[string]Format),
	}
	for i, f := range doc.Formats {
		f.Type = Format(strings.ToLower(string(f.Type)))
		if f.Type == "" {
			return nil, fmt.Errorf("format %d has no type", i)
		}
		if _, dup := r.byType[f.Type]; dup {
			return nil, fmt.Errorf("duplicate format %q", f.Type)
		}
		r.byType[f.Type] = len(r.formats)
		r.formats = append(r.formats, f)

		for _, a := range f.Aliases {
			r.aliases[Format(strings.ToLower(string(a)))] = f.Type
		}
		for _, ext := range append([]string{f.Extension}, f.Extensions...) {
			ext = strings.ToLower(ext)
			if ext == "" {
				continue
			}
			if prev, dup := r.byExt[ext]; dup {
				return nil, fmt.Errorf("extension %q claimed by %q and %q", ext, prev, f.Type)
			}
			r.byExt[ext] = f.Type
		}
	}

	for _, f := range r.formats {
		for _, t := range f.Targets {
			if _, ok := r.byType[t]; !ok {
				return nil, fmt.Errorf("format %q lists unknown target %q", f.Type, t)
			}
		}
	}
	return r, nil
}

// Canonical lowercases a media type, strips parameters and resolves aliases.
func (r *Registry) Canonical(mediaType string) Format {
	mt := strings.TrimSpace(mediaType)
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	} else if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	f := Format(strings.ToLower(mt))
	if canonical, ok := r.aliases[f]; ok {
		return canonical
	}
	return f
}

// Lookup returns the registration for f.
func (r *Registry) Lookup(f Format) (FormatInfo, bool) {
	i, ok := r.byType[r.Canonical(string(f))]
	if !ok {
		return FormatInfo{}, false
	}
	return r.formats[i], true
}

// Known reports whether f is a registered format.
func (r *Registry) Known(f Format) bool {
	_, ok := r.Lookup(f)
	return ok
}

// Targets returns the formats f may be converted to. Unknown formats yield nil.
func (r *Registry) Targets(f Format) []Format {
	info, ok := r.Lookup(f)
	if !ok {
		return nil
	}
	return append([]Format(nil), info.Targets...)
}

// Sources returns every format that has at least one target, sorted.
func (r *Registry) Sources() []Format {
	var out []Format
	for _, f := range r.formats {
		if len(f.Targets) > 0 {
			out = append(out, f.Type)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supports reports whether target is listed for source.
func (r *Registry) Supports(source, target Format) bool {
	target = r.Canonical(string(target))
	for _, t := range r.Targets(source) {
		if t == target {
			return true
		}
	}
	return false
}

// Name returns the display name of f, or the media type itself when unknown.
func (r *Registry) Name(f Format) string {
	if info, ok := r.Lookup(f); ok {
		return info.Name
	}
	return string(f)
}

// Extension returns the preferred file extension of f, including the dot.
func (r *Registry) Extension(f Format) string {
	if info, ok := r.Lookup(f); ok {
		return info.Extension
	}
	return ""
}

// ByExtension resolves a file extension (with or without the dot) to a format.
func (r *Registry) ByExtension(ext string) (Format, bool) {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	f, ok := r.byExt[ext]
	return f, ok
}

// IsFamily reports whether f is registered under family.
func (r *Registry) IsFamily(f Format, family Family) bool {
	info, ok := r.Lookup(f)
	return ok && info.Family == family
}
