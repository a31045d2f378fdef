package template

import "strings"

// Branch is one folder of a two-level tree and the entries created inside it.
type Branch struct {
	Folder   string
	Children []string

	// Malformed marks a branch whose value was not a list. Its folder is still
	// planned but its children are skipped.
	Malformed bool

	// Dropped counts children that were not non-empty strings.
	Dropped int
}

// Tree is an ordered folder -> children mapping such as shot_tree.
type Tree []Branch

// CategoryShape describes how an asset_tree category is laid out.
type CategoryShape int

const (
	// ShapeList categories create one entry per item directly under the asset.
	ShapeList CategoryShape = iota
	// ShapeTree categories expand a nested two-level tree under the asset.
	ShapeTree
	// ShapeInvalid categories have neither shape.
	ShapeInvalid
)

// Category is one asset_tree entry.
type Category struct {
	Name  string
	Shape CategoryShape
	Items []string
	Tree  Tree

	// Dropped counts list items that were not non-empty strings.
	Dropped int
}

// Template is the typed view of a template document used for planning.
type Template struct {
	Name           string
	Version        string
	ProjectFolders []string
	DroppedFolders int
	ShotTree       Tree
	AssetTree      []Category
}

// Category returns the asset_tree entry for name.
func (t *Template) Category(name string) (Category, bool) {
	for _, c := range t.AssetTree {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// FromDocument converts a document into a Template. Conversion never fails:
// entries of the wrong type are dropped and counted, and malformed branches
// are flagged, so the planner can report them. Documents should pass Validate first.
func FromDocument(doc *Node) *Template {
	t := &Template{}
	if doc == nil || doc.Kind != MapNode {
		return t
	}

	if v, ok := doc.Get("name"); ok {
		t.Name, _ = v.Str()
	}
	if v, ok := doc.Get("version"); ok {
		t.Version, _ = v.Str()
	}
	if v, ok := doc.Get("project_folders"); ok && v.Kind == ListNode {
		t.ProjectFolders, t.DroppedFolders = stringItems(v)
	}
	if v, ok := doc.Get("shot_tree"); ok {
		t.ShotTree = treeFromNode(v)
	}
	if v, ok := doc.Get("asset_tree"); ok && v.Kind == MapNode {
		for _, f := range v.Fields {
			c := Category{Name: f.Key}
			switch f.Value.Kind {
			case ListNode:
				c.Shape = ShapeList
				c.Items, c.Dropped = stringItems(f.Value)
			case MapNode:
				c.Shape = ShapeTree
				c.Tree = treeFromNode(f.Value)
			default:
				c.Shape = ShapeInvalid
			}
			t.AssetTree = append(t.AssetTree, c)
		}
	}
	return t
}

func treeFromNode(n *Node) Tree {
	if n == nil || n.Kind != MapNode {
		return nil
	}
	tree := make(Tree, 0, len(n.Fields))
	for _, f := range n.Fields {
		b := Branch{Folder: f.Key}
		if f.Value.Kind == ListNode {
			b.Children, b.Dropped = stringItems(f.Value)
		} else {
			b.Malformed = true
		}
		tree = append(tree, b)
	}
	return tree
}

// stringItems keeps the non-blank string elements of a list as written and
// reports how many other elements it dropped.
func stringItems(list *Node) ([]string, int) {
	var (
		out     []string
		dropped int
	)
	for _, item := range list.Items {
		if s, ok := item.Str(); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		} else {
			dropped++
		}
	}
	return out, dropped
}
