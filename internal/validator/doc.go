// Package validator holds the result types of a frontmatter validation run
// and the console reporter that renders them.
//
// # Core Concepts
//
//   - [Issue]: a single schema violation, located by JSON Pointer.
//   - [Result]: the ordered issues found in one file.
//   - [Reporter]: writes run progress as text, NDJSON, or GitHub workflow
//     commands.
//
// # Basic Usage
//
//	result := &validator.Result{File: "content/a/post.md"}
//	result.AddError("/title", "expected string, but got number")
//
//	if result.HasErrors() {
//		reporter.FileFailed(result)
//	}
package validator
