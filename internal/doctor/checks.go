package doctor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/thoreinstein/fmcheck/internal/config"
	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/schema"
	"github.com/thoreinstein/fmcheck/internal/walker"
)

// Categories.
const (
	CategoryConfig  = "config"
	CategoryContent = "content"
	CategorySchema  = "schema"
)

// ConfigCheck reports invalid configuration values.
type ConfigCheck struct {
	Config *config.Config
}

var _ Check = (*ConfigCheck)(nil)

func (c *ConfigCheck) Name() string     { return "config-values" }
func (c *ConfigCheck) Category() string { return CategoryConfig }

// Run validates the configuration.
func (c *ConfigCheck) Run() *CheckResult {
	errs := config.Validate(c.Config)
	if len(errs) == 0 {
		return &CheckResult{Status: SeverityPass, Message: "configuration is valid"}
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return &CheckResult{
		Status:  SeverityError,
		Message: strings.Join(msgs, "; "),
		Details: map[string]any{"file": config.Used()},
		FixHint: "Run: fmcheck config",
	}
}

// ContentRootCheck verifies the content directory exists.
type ContentRootCheck struct {
	Fs   afero.Fs
	Root string
}

var _ Check = (*ContentRootCheck)(nil)

func (c *ContentRootCheck) Name() string     { return "content-directory" }
func (c *ContentRootCheck) Category() string { return CategoryContent }

// Run stats the content directory.
func (c *ContentRootCheck) Run() *CheckResult {
	if err := walker.CheckRoot(c.Fs, c.Root); err != nil {
		return &CheckResult{
			Status:  SeverityError,
			Message: err.Error(),
			FixHint: "Create the directory or set content_directory",
		}
	}
	return &CheckResult{Status: SeverityPass, Message: fmt.Sprintf("%s is a directory", c.Root)}
}

// SchemaCheck verifies that one directory's schema.json parses and compiles.
type SchemaCheck struct {
	Resolver *schema.Resolver
	Dir      string
}

var _ Check = (*SchemaCheck)(nil)

func (c *SchemaCheck) Name() string     { return filepath.Join(c.Dir, schema.FileName) }
func (c *SchemaCheck) Category() string { return CategorySchema }

// Run loads and compiles the schema.
func (c *SchemaCheck) Run() *CheckResult {
	desc, err := c.Resolver.ResolveDir(c.Dir)
	if err == nil && desc == nil {
		return &CheckResult{Status: SeverityWarning, Message: "schema file disappeared during the check"}
	}
	if err == nil {
		_, err = desc.Compile()
	}

	switch {
	case err == nil:
		result := &CheckResult{Status: SeverityPass, Message: "schema compiles"}
		if doc, ok := desc.Doc.(map[string]any); ok {
			if draft, ok := doc["$schema"].(string); ok {
				result.Details = map[string]any{"$schema": draft}
			}
		}
		return result
	case errors.Is(err, errors.ErrSchemaParse):
		return &CheckResult{Status: SeverityError, Message: err.Error(), FixHint: "Fix the JSON syntax"}
	case errors.Is(err, errors.ErrSchemaCompile):
		return &CheckResult{Status: SeverityError, Message: err.Error(),
			FixHint: "Check keywords against the declared $schema draft; external $ref is not supported"}
	default:
		return &CheckResult{Status: SeverityError, Message: err.Error()}
	}
}

// CoverageCheck reports Markdown files that a run would skip because their
// directory has no schema.json.
type CoverageCheck struct {
	Files      []string
	SchemaDirs map[string]bool
}

var _ Check = (*CoverageCheck)(nil)

func (c *CoverageCheck) Name() string     { return "schema-coverage" }
func (c *CoverageCheck) Category() string { return CategoryContent }

// Run counts files without a schema.
func (c *CoverageCheck) Run() *CheckResult {
	if len(c.Files) == 0 {
		return &CheckResult{Status: SeverityInfo, Message: "no Markdown files found"}
	}

	skipped := 0
	dirs := map[string]bool{}
	for _, f := range c.Files {
		dir := filepath.Dir(f)
		if !c.SchemaDirs[dir] {
			skipped++
			dirs[dir] = true
		}
	}

	switch {
	case skipped == 0:
		return &CheckResult{
			Status:  SeverityPass,
			Message: fmt.Sprintf("all %d Markdown file(s) have a schema", len(c.Files)),
		}
	case skipped == len(c.Files):
		return &CheckResult{
			Status:  SeverityWarning,
			Message: fmt.Sprintf("none of %d Markdown file(s) have a schema; nothing would be validated", len(c.Files)),
			Details: map[string]any{"directories": sortedKeys(dirs)},
			FixHint: "Add a schema.json next to the files it should govern",
		}
	default:
		return &CheckResult{
			Status:  SeverityInfo,
			Message: fmt.Sprintf("%d of %d Markdown file(s) would be skipped", skipped, len(c.Files)),
			Details: map[string]any{"directories": sortedKeys(dirs)},
		}
	}
}

// UnusedSchemaCheck reports schema.json files whose directory holds no
// Markdown files. Schemas never apply to subdirectories.
type UnusedSchemaCheck struct {
	Files      []string
	SchemaDirs map[string]bool
}

var _ Check = (*UnusedSchemaCheck)(nil)

func (c *UnusedSchemaCheck) Name() string     { return "unused-schemas" }
func (c *UnusedSchemaCheck) Category() string { return CategorySchema }

// Run lists schema directories without Markdown files.
func (c *UnusedSchemaCheck) Run() *CheckResult {
	used := map[string]bool{}
	for _, f := range c.Files {
		used[filepath.Dir(f)] = true
	}

	unused := map[string]bool{}
	for dir := range c.SchemaDirs {
		if !used[dir] {
			unused[dir] = true
		}
	}

	if len(unused) == 0 {
		return &CheckResult{Status: SeverityPass, Message: "every schema governs at least one file"}
	}
	return &CheckResult{
		Status:  SeverityInfo,
		Message: fmt.Sprintf("%d schema(s) govern no Markdown files", len(unused)),
		Details: map[string]any{"directories": sortedKeys(unused)},
		FixHint: "Schemas apply only to files in their own directory",
	}
}

// TreeChecks builds the content and schema checks for root. When root is
// not a directory only the content-directory check is returned.
func TreeChecks(fsys afero.Fs, root string) ([]Check, error) {
	rootCheck := &ContentRootCheck{Fs: fsys, Root: root}
	if walker.CheckRoot(fsys, root) != nil {
		return []Check{rootCheck}, nil
	}

	files, err := walker.Walk(fsys, root)
	if err != nil {
		return nil, err
	}
	schemaFiles, err := walker.Find(fsys, root, func(p string) bool {
		return filepath.Base(p) == schema.FileName
	})
	if err != nil {
		return nil, err
	}

	resolver := schema.NewResolver(fsys)
	schemaDirs := make(map[string]bool, len(schemaFiles))
	checks := []Check{rootCheck}
	for _, path := range schemaFiles {
		dir := filepath.Dir(path)
		schemaDirs[dir] = true
		checks = append(checks, &SchemaCheck{Resolver: resolver, Dir: dir})
	}

	checks = append(checks,
		&CoverageCheck{Files: files, SchemaDirs: schemaDirs},
		&UnusedSchemaCheck{Files: files, SchemaDirs: schemaDirs},
	)
	return checks, nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
