// Package planner turns a template and user input into a creation plan.
//
// A plan is a flat list of directory and file actions under a project root.
// Planning is pure: it never touches the filesystem, and identical inputs
// always produce identical plans. Two layouts are supported:
//
//   - shots:  <project>/sequences/<seq>/<shot>/<shot_tree...>
//   - assets: <project>/assets/<category>/<asset>/<asset_tree[category]...>
//
// Both layouts also create the template's project_folders. Every plan is
// passed through DedupeSort before it is returned.
//
// Preflight is the only filesystem-aware part of the package; it inspects an
// existing tree to report which actions would be skipped or would fail.
package planner
