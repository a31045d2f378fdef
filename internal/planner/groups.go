package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Group is a named list of items: a sequence and its shots, or an asset
// category and its assets.
type Group struct {
	Name  string
	Items []string
}

// Groups is an ordered mapping of group name to items. Order is significant and
// survives JSON encoding, where Groups is written as an object. A nil Groups
// encodes as null.
type Groups []Group

// Get returns the items of the named group.
func (g Groups) Get(name string) ([]string, bool) {
	for _, group := range g {
		if group.Name == name {
			return group.Items, true
		}
	}
	return nil, false
}

// Names returns the group names in order.
func (g Groups) Names() []string {
	names := make([]string, 0, len(g))
	for _, group := range g {
		names = append(names, group.Name)
	}
	return names
}

// ItemCount returns the total number of items across all groups.
func (g Groups) ItemCount() int {
	n := 0
	for _, group := range g {
		n += len(group.Items)
	}
	return n
}

// Empty returns true if there are no items in any group.
func (g Groups) Empty() bool {
	return g.ItemCount() == 0
}

// MarshalJSON encodes the groups as an object preserving group order.
func (g Groups) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, group := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(group.Name)
		if err != nil {
			return nil, err
		}
		items := group.Items
		if items == nil {
			items = []string{}
		}
		value, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of string lists, keeping key order. A repeated
// key replaces the earlier items in place.
func (g *Groups) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*g = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode groups: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("failed to decode groups: expected an object")
	}

	out := Groups{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode groups: %w", err)
		}
		name, _ := keyTok.(string)

		var items []string
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("failed to decode group %q: %w", name, err)
		}
		if items == nil {
			items = []string{}
		}

		replaced := false
		for i := range out {
			if out[i].Name == name {
				out[i].Items = items
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, Group{Name: name, Items: items})
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode groups: %w", err)
	}

	*g = out
	return nil
}
