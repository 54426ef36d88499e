package value

import (
	"bytes"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FromYAML decodes a single YAML document from data into a Value. Mapping
// keys are preserved in file order by walking the yaml.Node tree directly
// rather than decoding into a Go map, giving YAML-sourced fixtures the same
// insertion-order guarantee JSON-sourced documents get from FromJSON.
//
// This is primarily used to author the engine's own test fixtures (see
// internal/fixtures), but is exported because it is a legitimate second
// document source for any caller that wants YAML input without losing
// object order.
func FromYAML(data []byte) (Value, error) {
	return FromYAMLReader(bytes.NewReader(data))
}

// FromYAMLReader is the streaming form of FromYAML.
func FromYAMLReader(r io.Reader) (Value, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return Value{}, errors.Wrap(err, "value: decode yaml")
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NullValue, nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.ScalarNode:
		return scalarFromYAML(n)
	case yaml.SequenceNode:
		elems := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAMLNode(c)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, v)
		}
		return ArrayValue(elems), nil
	case yaml.MappingNode:
		o := NewObj()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			key, err := scalarFromYAML(keyNode)
			if err != nil {
				return Value{}, err
			}
			ks, ok := key.Str()
			if !ok {
				return Value{}, errors.Errorf("value: yaml mapping key at line %d is not a scalar string", keyNode.Line)
			}
			v, err := fromYAMLNode(valNode)
			if err != nil {
				return Value{}, err
			}
			o.Set(ks, v)
		}
		return ObjectValue(o), nil
	default:
		return Value{}, errors.Errorf("value: unsupported yaml node kind %v", n.Kind)
	}
}

func scalarFromYAML(n *yaml.Node) (Value, error) {
	switch n.Tag {
	case "!!null":
		return NullValue, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return Value{}, errors.Wrap(err, "value: yaml bool")
		}
		return BoolValue(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(n.Value, 64)
			if ferr != nil {
				return Value{}, errors.Wrap(err, "value: yaml int")
			}
			return FloatValue(f), nil
		}
		return IntValue(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return Value{}, errors.Wrap(err, "value: yaml float")
		}
		return FloatValue(f), nil
	default:
		return StringValue(n.Value), nil
	}
}
