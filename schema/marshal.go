package schema

import (
	"bytes"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/dyntype/errors"
	"github.com/wippyai/dyntype/target"
)

// Marshal writes a document declaring types in order. Later types refer to
// earlier ones by name where they are structurally equal.
func Marshal(tgt target.Target, types []Named, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return marshalJSON(tgt, types)
	case FormatYAML, "":
		return marshalYAML(tgt, types)
	default:
		return nil, errors.Unsupported(errors.PhaseSchema, "document format "+string(format))
	}
}

func marshalYAML(tgt target.Target, types []Named) ([]byte, error) {
	typesNode := &yaml.Node{Kind: yaml.MappingNode}
	for i, n := range types {
		var value yaml.Node
		if err := value.Encode(Expr(n.Type, types[:i])); err != nil {
			return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "encode "+n.Name)
		}
		typesNode.Content = append(typesNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: n.Name},
			&value,
		)
	}
	root := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Value: "target"},
			{Kind: yaml.ScalarNode, Value: tgt.String()},
			{Kind: yaml.ScalarNode, Value: "types"},
			typesNode,
		},
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "encode document")
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalJSON(tgt target.Target, types []Named) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n  \"target\": ")
	t, _ := json.Marshal(tgt.String())
	buf.Write(t)
	buf.WriteString(",\n  \"types\": {")
	for i, n := range types {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    ")
		key, _ := json.Marshal(n.Name)
		buf.Write(key)
		buf.WriteString(": ")
		expr, err := json.Marshal(Expr(n.Type, types[:i]))
		if err != nil {
			return nil, errors.Wrap(errors.PhaseSchema, errors.KindInvalidData, err, "encode "+n.Name)
		}
		buf.Write(expr)
	}
	buf.WriteString("\n  }\n}\n")
	return buf.Bytes(), nil
}
