// Package frontmatter provides parsing of the metadata header of Markdown
// files checked by fmcheck.
//
// Two header styles are recognized:
//
//   - YAML between lines containing only "---"
//   - TOML between lines containing only "+++"
//
// Delimiter detection is done by github.com/adrg/frontmatter; YAML is decoded
// with gopkg.in/yaml.v3 and TOML with github.com/pelletier/go-toml/v2.
//
// # Basic Usage
//
//	rec, body, err := frontmatter.ParseFile(afero.NewOsFs(), "content/post.md")
//	if err != nil {
//		return err
//	}
//	fmt.Println(rec["title"])
//
// A document without a header is not an error: the record is empty and the
// whole document is returned as body.
//
// # Value Model
//
// A [Record] holds only JSON data model values so it can be handed to a JSON
// Schema validator as-is. Numbers are [encoding/json.Number], timestamps are
// RFC 3339 strings, and nested mappings are map[string]any.
//
// # Error Handling
//
// A header that exists but does not decode into a mapping yields an error
// matching [ErrInvalidFrontmatter]:
//
//	if errors.Is(err, frontmatter.ErrInvalidFrontmatter) {
//		// report the broken header
//	}
package frontmatter
