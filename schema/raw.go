package schema

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type rawDocument struct {
	Target string     `yaml:"target" json:"target"`
	Types  orderedMap `yaml:"types" json:"types"`
	Values []rawValue `yaml:"values" json:"values"`
}

type rawValue struct {
	Index *int   `yaml:"index" json:"index"`
	Value any    `yaml:"value" json:"value"`
	Type  string `yaml:"type" json:"type"`
}

type entry struct {
	Value any
	Key   string
}

// orderedMap keeps mapping keys in document order.
type orderedMap []entry

func (m *orderedMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: types must be a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v any
		if err := node.Content[i+1].Decode(&v); err != nil {
			return err
		}
		*m = append(*m, entry{Key: node.Content[i].Value, Value: v})
	}
	return nil
}

func (m *orderedMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("types must be an object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		*m = append(*m, entry{Key: key, Value: normalize(v)})
	}
	_, err = dec.Token()
	return err
}

// number matches the decoder's number type when UseNumber is set.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// normalize replaces decoded JSON numbers with int64, uint64 or float64.
func normalize(v any) any {
	switch x := v.(type) {
	case number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(x.String(), 10, 64); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return math.NaN()
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = normalize(x[k])
		}
		return x
	default:
		return v
	}
}
