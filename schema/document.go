package schema

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/dyntype/dyn"
	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/target"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks a format from a file extension. Anything but .json is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Named is a declared type.
type Named struct {
	Type dyn.Type
	Name string
}

// Document is a parsed schema document.
type Document struct {
	byName map[string]dyn.Type
	types  []Named
	values []rawValue
	Target target.Target
}

// Option adjusts how a document is parsed.
type Option func(*options)

type options struct {
	target *target.Target
}

// WithTarget builds every type against tgt, ignoring the document's target key.
func WithTarget(tgt target.Target) Option {
	return func(o *options) { o.target = &tgt }
}

// Parse reads a document and builds every declared type.
func Parse(data []byte, format Format, opts ...Option) (*Document, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var raw rawDocument
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "invalid JSON document")
		}
		for i := range raw.Values {
			raw.Values[i].Value = normalize(raw.Values[i].Value)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "invalid YAML document")
		}
	default:
		return nil, errors.Unsupported(errors.PhaseSchema, "document format "+string(format))
	}

	tgt, err := target.Parse(raw.Target)
	if err != nil {
		return nil, errors.New(errors.PhaseSchema, errors.KindInvalidInput).
			Path("target").
			Cause(err).
			Detail("invalid target %q", raw.Target).
			Build()
	}
	if o.target != nil {
		tgt = *o.target
	}
	if err := tgt.Validate(); err != nil {
		return nil, errors.New(errors.PhaseSchema, errors.KindInvalidInput).
			Path("target").
			Cause(err).
			Detail("invalid target %s", tgt).
			Build()
	}

	doc := &Document{
		Target: tgt,
		byName: make(map[string]dyn.Type),
		values: raw.Values,
	}
	p := &parser{doc: doc}
	for _, e := range raw.Types {
		if err := doc.declare(p, e); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *Document) declare(p *parser, e entry) error {
	path := []string{"types", e.Key}
	if !identRe.MatchString(e.Key) {
		return errors.New(errors.PhaseSchema, errors.KindInvalidInput).
			Path(path...).
			Detail("type name %q is not an identifier", e.Key).
			Build()
	}
	if _, dup := d.byName[e.Key]; dup {
		return errors.New(errors.PhaseSchema, errors.KindDuplicate).
			Path(path...).
			Detail("type %q declared twice", e.Key).
			Build()
	}
	if _, err := dyn.ParseLeaf(e.Key, d.Target); err == nil {
		return errors.New(errors.PhaseSchema, errors.KindDuplicate).
			Path(path...).
			Detail("type %q shadows a built-in type", e.Key).
			Build()
	}
	t, err := p.parse(e.Value, path)
	if err != nil {
		return err
	}
	d.byName[e.Key] = t
	d.types = append(d.types, Named{Name: e.Key, Type: t})
	return nil
}

// LoadFile reads and parses a document; the format follows the extension.
func LoadFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindNotFound, err, "read "+path)
	}
	doc, err := Parse(data, FormatOf(path), opts...)
	if err != nil {
		return nil, err
	}
	Logger().Debug("schema loaded",
		zap.String("path", path),
		zap.String("target", doc.Target.String()),
		zap.Int("types", len(doc.types)),
		zap.Int("values", len(doc.values)),
	)
	return doc, nil
}

// Types returns the declared types in declaration order.
func (d *Document) Types() []Named {
	out := make([]Named, len(d.types))
	copy(out, d.types)
	return out
}

// Lookup returns a declared type by name.
func (d *Document) Lookup(name string) (dyn.Type, bool) {
	t, ok := d.byName[name]
	return t, ok
}
