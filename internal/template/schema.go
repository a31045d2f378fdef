package template

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes reported by Validate and the Loader.
const (
	CodeLoadFail   = "LOAD_FAIL"
	CodeMissingKey = "MISSING_KEY"
	CodeBadType    = "BAD_TYPE"
	CodeBadKey     = "BAD_KEY"
	CodeBadItem    = "BAD_ITEM"
)

// ErrNotObject is returned when a document root is not a mapping.
var ErrNotObject = errors.New("template root must be an object")

// RequiredKeys lists the top-level keys every template declares, in check order.
var RequiredKeys = []string{"name", "version", "project_folders", "shot_tree", "asset_tree"}

// Issue is a single validation finding. Issues are data, not errors.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// String renders the issue as "[CODE] (path) message".
func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("[%s] %s", i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] (%s) %s", i.Code, i.Path, i.Message)
}

var starterSuffixes = []string{".md", ".json", ".txt"}

// IsStarterFile reports whether a tree entry names a file to create rather than
// a directory.
func IsStarterFile(name string) bool {
	lowered := strings.ToLower(name)
	for _, suffix := range starterSuffixes {
		if strings.HasSuffix(lowered, suffix) {
			return true
		}
	}
	return false
}

func isNonEmptyString(n *Node) bool {
	s, ok := n.Str()
	return ok && strings.TrimSpace(s) != ""
}
