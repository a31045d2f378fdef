package template

import (
	"strings"
)

// Preview renders a human-readable outline of a template document.
func Preview(doc *Node) string {
	var b strings.Builder

	name := "Unnamed Template"
	if v, ok := doc.Get("name"); ok {
		name = scalarText(v)
	}
	version := "0.0"
	if v, ok := doc.Get("version"); ok {
		version = scalarText(v)
	}
	b.WriteString(name + " (v" + version + ")\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")

	b.WriteString("Project folders:\n")
	folders, _ := doc.Get("project_folders")
	if folders != nil && folders.Kind == ListNode && len(folders.Items) > 0 {
		for _, item := range folders.Items {
			b.WriteString("  - " + scalarText(item) + "\n")
		}
	} else {
		b.WriteString("  (none)\n")
	}
	b.WriteString("\n")

	b.WriteString("Shot tree:\n")
	shotTree, _ := doc.Get("shot_tree")
	if shotTree != nil && shotTree.Kind == MapNode && len(shotTree.Fields) > 0 {
		writeTree(&b, shotTree, "  ")
	} else {
		b.WriteString("  (none)\n")
	}
	b.WriteString("\n")

	b.WriteString("Asset tree:\n")
	assetTree, _ := doc.Get("asset_tree")
	if assetTree != nil && assetTree.Kind == MapNode && len(assetTree.Fields) > 0 {
		for _, f := range assetTree.Fields {
			b.WriteString("  " + f.Key + "/\n")
			switch f.Value.Kind {
			case ListNode:
				for _, child := range f.Value.Items {
					b.WriteString("    - " + scalarText(child) + "\n")
				}
			case MapNode:
				writeTree(&b, f.Value, "    ")
			default:
				b.WriteString("    (invalid)\n")
			}
		}
	} else {
		b.WriteString("  (none)\n")
	}

	return strings.TrimSpace(b.String())
}

func writeTree(b *strings.Builder, tree *Node, indent string) {
	for _, f := range tree.Fields {
		b.WriteString(indent + f.Key + "/\n")
		if f.Value.Kind == ListNode && len(f.Value.Items) > 0 {
			for _, child := range f.Value.Items {
				b.WriteString(indent + "  - " + scalarText(child) + "\n")
			}
		} else {
			b.WriteString(indent + "  (empty)\n")
		}
	}
}

// scalarText renders a node for display. Strings print bare, everything else
// prints as JSON.
func scalarText(n *Node) string {
	if s, ok := n.Str(); ok {
		return s
	}
	data, err := n.MarshalJSON()
	if err != nil {
		return "?"
	}
	return string(data)
}
