package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeKind identifies the type of a document node.
type NodeKind int

const (
	NullNode NodeKind = iota
	BoolNode
	NumberNode
	StringNode
	ListNode
	MapNode
)

func (k NodeKind) String() string {
	switch k {
	case NullNode:
		return "null"
	case BoolNode:
		return "boolean"
	case NumberNode:
		return "number"
	case StringNode:
		return "string"
	case ListNode:
		return "list"
	case MapNode:
		return "object"
	default:
		return "unknown"
	}
}

// Field is one key/value pair of a mapping node.
type Field struct {
	Key   string
	Value *Node
}

// Node is a decoded template document. Unlike map[string]any it keeps mapping
// keys in document order, which decides the order folders are planned in.
type Node struct {
	Kind NodeKind

	// Scalar holds the string value of a StringNode and the literal text of
	// number and boolean nodes.
	Scalar string

	// Items holds the elements of a ListNode.
	Items []*Node

	// Fields holds the entries of a MapNode in document order.
	Fields []Field
}

// Get returns the value stored under key in a mapping node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != MapNode {
		return nil, false
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Str returns the value of a string node.
func (n *Node) Str() (string, bool) {
	if n == nil || n.Kind != StringNode {
		return "", false
	}
	return n.Scalar, true
}

// set inserts or replaces key, keeping the position of the first occurrence.
func (n *Node) set(key string, value *Node) {
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			n.Fields[i].Value = value
			return
		}
	}
	n.Fields = append(n.Fields, Field{Key: key, Value: value})
}

// MarshalJSON encodes the node preserving mapping order.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) writeJSON(buf *bytes.Buffer) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case NullNode:
		buf.WriteString("null")
	case BoolNode, NumberNode:
		buf.WriteString(n.Scalar)
	case StringNode:
		b, err := json.Marshal(n.Scalar)
		if err != nil {
			return err
		}
		buf.Write(b)
	case ListNode:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case MapNode:
		buf.WriteByte('{')
		for i, f := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(f.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := f.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode node kind %d", n.Kind)
	}
	return nil
}

// DecodeJSON parses a JSON document into an ordered node tree.
func DecodeJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := decodeJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("invalid JSON: empty document")
		}
		return nil, describeJSONError(data, dec, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, describeJSONError(data, dec, fmt.Errorf("unexpected data after top-level value"))
	}
	return node, nil
}

func decodeJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			node := &Node{Kind: MapNode}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				node.set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return node, nil
		case '[':
			node := &Node{Kind: ListNode, Items: []*Node{}}
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, unexpectedEOF(err)
				}
				node.Items = append(node.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, unexpectedEOF(err)
			}
			return node, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return &Node{Kind: StringNode, Scalar: t}, nil
	case json.Number:
		return &Node{Kind: NumberNode, Scalar: t.String()}, nil
	case bool:
		return &Node{Kind: BoolNode, Scalar: fmt.Sprintf("%t", t)}, nil
	case nil:
		return &Node{Kind: NullNode}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

// unexpectedEOF turns a mid-document EOF into a syntax error so callers can tell
// a truncated document from an empty one.
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func describeJSONError(data []byte, dec *json.Decoder, err error) error {
	offset := dec.InputOffset()
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
	}
	line, col := lineCol(data, offset)
	msg := err.Error()
	if errors.Is(err, io.ErrUnexpectedEOF) {
		msg = "unexpected end of document"
	}
	return fmt.Errorf("invalid JSON (line %d, col %d): %s", line, col, msg)
}

func lineCol(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// DecodeYAML parses a YAML document into an ordered node tree.
func DecodeYAML(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, fmt.Errorf("invalid YAML: empty document")
	}
	return convertYAML(&root, 0)
}

const maxYAMLDepth = 64

func convertYAML(y *yaml.Node, depth int) (*Node, error) {
	if depth > maxYAMLDepth {
		return nil, fmt.Errorf("invalid YAML: nesting deeper than %d levels (line %d)", maxYAMLDepth, y.Line)
	}

	switch y.Kind {
	case yaml.DocumentNode:
		return convertYAML(y.Content[0], depth)
	case yaml.AliasNode:
		return convertYAML(y.Alias, depth+1)
	case yaml.ScalarNode:
		switch y.ShortTag() {
		case "!!null":
			return &Node{Kind: NullNode}, nil
		case "!!bool":
			return &Node{Kind: BoolNode, Scalar: strings.ToLower(y.Value)}, nil
		case "!!int", "!!float":
			return &Node{Kind: NumberNode, Scalar: y.Value}, nil
		default:
			return &Node{Kind: StringNode, Scalar: y.Value}, nil
		}
	case yaml.SequenceNode:
		node := &Node{Kind: ListNode, Items: make([]*Node, 0, len(y.Content))}
		for _, c := range y.Content {
			item, err := convertYAML(c, depth+1)
			if err != nil {
				return nil, err
			}
			node.Items = append(node.Items, item)
		}
		return node, nil
	case yaml.MappingNode:
		node := &Node{Kind: MapNode}
		for i := 0; i+1 < len(y.Content); i += 2 {
			k, v := y.Content[i], y.Content[i+1]
			key := ""
			if k.Kind == yaml.ScalarNode {
				key = k.Value
			}
			value, err := convertYAML(v, depth+1)
			if err != nil {
				return nil, err
			}
			node.set(key, value)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("invalid YAML: unsupported node at line %d", y.Line)
	}
}
