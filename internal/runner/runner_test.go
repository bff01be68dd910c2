package runner

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/fmcheck/internal/errors"
	"github.com/thoreinstein/fmcheck/internal/validator"
)

const titleSchema = `{
  "type": "object",
  "required": ["title"],
  "properties": {"title": {"type": "string"}}
}`

type recorder struct {
	events []string
	failed *validator.Result
	warned []*validator.Result
	sum    *validator.Summary
}

func (r *recorder) ScanStarted(root string) { r.events = append(r.events, "scan "+root) }
func (r *recorder) NoFiles(root string)     { r.events = append(r.events, "empty "+root) }
func (r *recorder) SchemaMissing(dir, file string) {
	r.events = append(r.events, "skip "+dir+" "+file)
}
func (r *recorder) FilePassed(file string) { r.events = append(r.events, "pass "+file) }
func (r *recorder) FileWarned(res *validator.Result) {
	r.warned = append(r.warned, res)
	r.events = append(r.events, "warn "+res.File)
}
func (r *recorder) FileFailed(res *validator.Result) {
	r.failed = res
	r.events = append(r.events, "fail "+res.File)
}
func (r *recorder) Finished(s validator.Summary) {
	r.sum = &s
	r.events = append(r.events, "done")
}

func memFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(content), 0o644))
	}
	return fsys
}

func TestRun_AllPassed(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/blog/schema.json": titleSchema,
		"content/blog/a.md":        "---\ntitle: Hello\n---\nbody\n",
		"content/blog/b.mdx":       "---\ntitle: World\n---\n",
	})
	rec := &recorder{}

	out, err := Run(fsys, "content", Options{Observer: rec})
	require.NoError(t, err)

	assert.Equal(t, StateAllPassed, out.State)
	assert.Equal(t, 2, out.Summary.Files)
	assert.Equal(t, 2, out.Passed)
	assert.Equal(t, []string{
		"scan content",
		"pass content/blog/a.md",
		"pass content/blog/b.mdx",
		"done",
	}, rec.events)
	require.NotNil(t, rec.sum)
	assert.Equal(t, validator.Summary{Files: 2, Passed: 2}, *rec.sum)
}

func TestRun_MissingRequiredField(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json": titleSchema,
		"content/post.md":     "---\nauthor: sam\n---\n",
	})
	rec := &recorder{}

	out, err := Run(fsys, "content", Options{Observer: rec})
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrValidationFailed))
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "content/post.md", verr.Result.File)

	assert.Equal(t, StateValidationFailed, out.State)
	require.NotNil(t, out.Failure)
	require.NotNil(t, rec.failed)
	require.Len(t, rec.failed.Issues, 1)
	assert.Equal(t, "", rec.failed.Issues[0].Field)
	assert.Contains(t, rec.failed.Issues[0].Message, "title")
	assert.Nil(t, rec.sum, "Finished must not be reported on failure")
}

func TestRun_NoFiles(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json": titleSchema,
		"content/notes.txt":   "hi",
	})
	rec := &recorder{}

	out, err := Run(fsys, "content", Options{Observer: rec})
	require.NoError(t, err)

	assert.Equal(t, StateNoFilesFound, out.State)
	assert.Empty(t, out.Files)
	assert.Equal(t, []string{"scan content", "empty content"}, rec.events)
}

func TestRun_MissingDirectory(t *testing.T) {
	out, err := Run(afero.NewMemMapFs(), "nope", Options{})
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrDirectoryNotFound))
	assert.Equal(t, StateStart, out.State)
	assert.Equal(t, errors.ExitUser, errors.CodeFor(err))
}

func TestRun_BrokenSchemaHalts(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		target error
	}{
		{"unparseable", `{"type": "object",`, errors.ErrSchemaParse},
		{"uncompilable", `{"type": 12}`, errors.ErrSchemaCompile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := memFs(t, map[string]string{
				"content/a/schema.json": tt.schema,
				"content/a/post.md":     "---\ntitle: x\n---\n",
				"content/b/schema.json": titleSchema,
				"content/b/post.md":     "---\ntitle: y\n---\n",
			})
			rec := &recorder{}

			out, err := Run(fsys, "content", Options{Observer: rec})
			require.Error(t, err)

			assert.True(t, errors.Is(err, tt.target))
			assert.Equal(t, StateValidating, out.State)
			assert.Equal(t, []string{"scan content"}, rec.events)
			assert.Zero(t, out.Passed)
		})
	}
}

func TestRun_SkipsWithoutSchema(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json":      titleSchema,
		"content/index.md":         "---\ntitle: Home\n---\n",
		"content/drafts/idea.md":   "no frontmatter here",
		"content/drafts/notes.txt": "ignored",
	})
	rec := &recorder{}

	out, err := Run(fsys, "content", Options{Observer: rec})
	require.NoError(t, err)

	assert.Equal(t, StateAllPassed, out.State)
	assert.Equal(t, 1, out.Passed)
	assert.Equal(t, 1, out.Skipped)
	assert.Contains(t, rec.events, "skip content/drafts content/drafts/idea.md")
}

func TestRun_FailFast(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json": titleSchema,
		"content/a.md":        "---\ntitle: ok\n---\n",
		"content/b.md":        "---\ntitle: 5\n---\n",
		"content/c.md":        "---\nnope: true\n---\n",
		"content/d.md":        "---\ntitle: fine\n---\n",
	})
	rec := &recorder{}

	out, err := Run(fsys, "content", Options{Observer: rec})
	require.Error(t, err)

	assert.Equal(t, StateValidationFailed, out.State)
	assert.Equal(t, []string{
		"scan content",
		"pass content/a.md",
		"fail content/b.md",
	}, rec.events)
	require.Len(t, rec.failed.Issues, 1)
	assert.Equal(t, "/title", rec.failed.Issues[0].Field)
}

func TestRun_WarnMode(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json": titleSchema,
		"content/a.md":        "---\nauthor: x\n---\n",
		"content/b.md":        "---\ntitle: ok\n---\n",
	})
	rec := &recorder{}

	out, err := Run(fsys, "content", Options{Observer: rec, Mode: ModeWarn})
	require.NoError(t, err)

	assert.Equal(t, StateAllPassed, out.State)
	assert.Equal(t, 1, out.Warned)
	assert.Equal(t, 1, out.Passed)
	require.Len(t, rec.warned, 1)
	for _, issue := range rec.warned[0].Issues {
		assert.Equal(t, validator.SeverityWarning, issue.Severity)
	}
	assert.Equal(t, "done", rec.events[len(rec.events)-1])
}

func TestRun_InvalidFrontmatterIsFatal(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json": titleSchema,
		"content/bad.md":      "---\ntitle: [unclosed\n---\n",
	})

	out, err := Run(fsys, "content", Options{})
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrInvalidFrontmatter))
	assert.Contains(t, err.Error(), "content/bad.md")
	assert.Equal(t, StateValidating, out.State)
}

func TestRun_ManyFilesOneSchema(t *testing.T) {
	files := map[string]string{"content/schema.json": titleSchema}
	for i := range 5 {
		files[fmt.Sprintf("content/p%d.md", i)] = "---\ntitle: t\n---\n"
	}
	fsys := memFs(t, files)

	out, err := Run(fsys, "content", Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Passed)
}

func TestRun_WithReporter(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json": titleSchema,
		"content/a.md":        "---\ntitle: ok\n---\n",
	})
	var buf bytes.Buffer

	_, err := Run(fsys, "content", Options{Observer: validator.NewReporter(&buf, validator.FormatJSON)})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"event":"scan"`)
	assert.Contains(t, buf.String(), `"event":"pass"`)
	assert.Contains(t, buf.String(), `"event":"done"`)
}

func TestRun_DateFormat(t *testing.T) {
	fsys := memFs(t, map[string]string{
		"content/schema.json": `{"type":"object","properties":{"date":{"type":"string","format":"date"}}}`,
		"content/good.md":     "---\ndate: 2024-01-02\n---\n",
		"content/late.md":     "---\ndate: 2024-13-40\n---\n",
	})

	out, err := Run(fsys, "content", Options{Mode: ModeWarn})
	require.NoError(t, err)
	assert.Equal(t, StateAllPassed, out.State)
	assert.Equal(t, 1, out.Passed)
	assert.Equal(t, 1, out.Warned)
}

func TestRun_SymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	fsys := afero.NewOsFs()
	target := filepath.Join(dir, "real")
	require.NoError(t, fsys.MkdirAll(filepath.Join(target, "a"), 0o755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(target, "a", "schema.json"), []byte(titleSchema), 0o644))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(target, "a", "post.md"), []byte("---\ndraft: true\n---\n"), 0o644))

	link := filepath.Join(dir, "content")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	out, err := Run(fsys, link, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidationFailed))
	assert.Equal(t, StateValidationFailed, out.State)
	assert.Equal(t, []string{filepath.Join(link, "a", "post.md")}, out.Files)
	require.NotNil(t, out.Failure)
	assert.Equal(t, filepath.Join(link, "a", "post.md"), out.Failure.File)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "all-passed", StateAllPassed.String())
	assert.Equal(t, "unknown", State(42).String())
	assert.True(t, StateNoFilesFound.Terminal())
	assert.False(t, StateValidating.Terminal())
	assert.True(t, ValidMode("warn"))
	assert.False(t, ValidMode("strict"))
}
