package template

import (
	"fmt"
	"strings"
)

// Validate checks a decoded template document against the template schema.
//
// Missing required keys are reported alone, since every later check depends on
// them. Otherwise all findings are collected in check order, then document
// order. A non-mapping root is an error rather than an issue.
func Validate(doc *Node) ([]Issue, error) {
	if doc == nil || doc.Kind != MapNode {
		return nil, ErrNotObject
	}

	var issues []Issue
	for _, key := range RequiredKeys {
		if _, ok := doc.Get(key); !ok {
			issues = append(issues, Issue{
				Code:    CodeMissingKey,
				Message: fmt.Sprintf("missing required key '%s'", key),
				Path:    key,
			})
		}
	}
	if len(issues) > 0 {
		return issues, nil
	}

	for _, key := range []string{"name", "version"} {
		if v, _ := doc.Get(key); !isNonEmptyString(v) {
			issues = append(issues, Issue{
				Code:    CodeBadType,
				Message: fmt.Sprintf("'%s' must be a non-empty string", key),
				Path:    key,
			})
		}
	}

	folders, _ := doc.Get("project_folders")
	if folders.Kind != ListNode {
		issues = append(issues, Issue{Code: CodeBadType, Message: "'project_folders' must be a list", Path: "project_folders"})
	} else {
		for i, item := range folders.Items {
			path := fmt.Sprintf("project_folders[%d]", i)
			switch {
			case !isNonEmptyString(item):
				issues = append(issues, Issue{Code: CodeBadItem, Message: "project_folders items must be non-empty strings", Path: path})
			case IsStarterFile(item.Scalar):
				issues = append(issues, Issue{Code: CodeBadItem, Message: "project_folders cannot contain starter files (.md/.json/.txt)", Path: path})
			}
		}
	}

	shotTree, _ := doc.Get("shot_tree")
	if shotTree.Kind != MapNode {
		issues = append(issues, Issue{Code: CodeBadType, Message: "'shot_tree' must be an object", Path: "shot_tree"})
	} else {
		issues = append(issues, validateTree(shotTree, "shot_tree")...)
	}

	assetTree, _ := doc.Get("asset_tree")
	if assetTree.Kind != MapNode {
		issues = append(issues, Issue{Code: CodeBadType, Message: "'asset_tree' must be an object", Path: "asset_tree"})
	} else {
		issues = append(issues, validateAssetTree(assetTree)...)
	}

	return issues, nil
}

// validateTree checks a folder -> children mapping. Starter files are allowed as
// children.
func validateTree(tree *Node, base string) []Issue {
	var issues []Issue
	for _, f := range tree.Fields {
		if !validKey(f.Key) {
			issues = append(issues, Issue{Code: CodeBadKey, Message: "tree keys must be non-empty strings", Path: base})
			continue
		}
		path := base + "." + f.Key
		if f.Value.Kind != ListNode {
			issues = append(issues, Issue{Code: CodeBadType, Message: "tree values must be lists", Path: path})
			continue
		}
		issues = append(issues, validateItems(f.Value, path, "tree list items must be non-empty strings")...)
	}
	return issues
}

func validateAssetTree(tree *Node) []Issue {
	var issues []Issue
	for _, f := range tree.Fields {
		if !validKey(f.Key) {
			issues = append(issues, Issue{Code: CodeBadKey, Message: "asset_tree keys must be non-empty strings", Path: "asset_tree"})
			continue
		}
		path := "asset_tree." + f.Key
		switch f.Value.Kind {
		case ListNode:
			issues = append(issues, validateItems(f.Value, path, "asset_tree list items must be non-empty strings")...)
		case MapNode:
			issues = append(issues, validateTree(f.Value, path)...)
		default:
			issues = append(issues, Issue{Code: CodeBadType, Message: "asset_tree values must be a list or an object", Path: path})
		}
	}
	return issues
}

func validateItems(list *Node, base, message string) []Issue {
	var issues []Issue
	for i, item := range list.Items {
		if !isNonEmptyString(item) {
			issues = append(issues, Issue{Code: CodeBadItem, Message: message, Path: fmt.Sprintf("%s[%d]", base, i)})
		}
	}
	return issues
}

func validKey(key string) bool {
	return strings.TrimSpace(key) != ""
}
