// Package template loads and validates studiofold templates.
//
// A template declares the folders created for a project: top-level
// project_folders, a shot_tree expanded under every shot, and an asset_tree
// keyed by asset category. Documents are JSON or YAML and are decoded into an
// ordered Node tree so that folder order follows the document.
//
// Validation findings are returned as Issue values rather than errors so the
// loader can report every problem in a file and keep loading the rest of the
// directory.
package template
