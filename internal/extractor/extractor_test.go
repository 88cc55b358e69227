package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/corex/internal/grammar"
)

// Test Plan for Extractor:
// - Function docstring and comment share the same single-frame context
// - A module docstring has module context
// - A comment in a method yields a class/function chain, outermost first
// - Only the first non-comment statement of a body is a docstring
// - Unknown languages fail before any file is touched
// - A directory with an unreadable file still yields the readable one
// - Extraction is deterministic and independent of the worker count
// - Adding a trailing comment leaves earlier records untouched
// - Malformed source is extracted in degraded mode
// - The cache returns stored extractions for unchanged content
// - Lines are 1-indexed and end_line >= start_line everywhere

func newTestExtractor(opts ...Option) *Extractor {
	return New(grammar.DefaultRegistry(), opts...)
}

func extractPython(t *testing.T, source string) *FileExtraction {
	t.Helper()
	extraction, err := newTestExtractor().ExtractSource(context.Background(), "test.py", "python", []byte(source))
	require.NoError(t, err)
	return extraction
}

func fixturePath(parts ...string) string {
	return filepath.Join(append([]string{"..", "..", "testdata", "code"}, parts...)...)
}

func TestExtract_FunctionDocstringAndComment(t *testing.T) {
	t.Parallel()

	src := "def f(x, y=2):\n    \"\"\"doc\"\"\"\n    # note\n    return x+y"
	got := extractPython(t, src)

	require.Equal(t, 2, got.TotalComments)
	require.Len(t, got.Comments, 2)

	doc := got.Comments[0]
	assert.Equal(t, DocString, doc.Kind)
	assert.Equal(t, `"""doc"""`, doc.Text)
	assert.Equal(t, 2, doc.StartLine)
	assert.Equal(t, 2, doc.EndLine)
	require.Equal(t, ShapeSingle, doc.Context.Shape())

	frame := doc.Context.Frames[0]
	assert.Equal(t, FunctionFrame, frame.Kind)
	require.NotNil(t, frame.Name)
	assert.Equal(t, "f", *frame.Name)
	assert.Equal(t, []string{"x", "y"}, frame.Parameters)
	assert.Equal(t, 1, frame.StartLine)
	assert.Equal(t, 4, frame.EndLine)
	assert.Equal(t, src, frame.Code)

	note := got.Comments[1]
	assert.Equal(t, LineComment, note.Kind)
	assert.Equal(t, "# note", note.Text)
	assert.Equal(t, 3, note.StartLine)
	assert.Equal(t, 3, note.EndLine)
	assert.Equal(t, doc.Context, note.Context)
}

func TestExtract_ModuleDocstring(t *testing.T) {
	t.Parallel()

	got := extractPython(t, "\"\"\"Module doc.\"\"\"\n")

	require.Len(t, got.Comments, 1)
	assert.Equal(t, DocString, got.Comments[0].Kind)
	assert.Equal(t, `"""Module doc."""`, got.Comments[0].Text)
	assert.Equal(t, ShapeModule, got.Comments[0].Context.Shape())
	assert.Nil(t, got.Comments[0].Context.Innermost())
}

func TestExtract_MethodCommentChain(t *testing.T) {
	t.Parallel()

	got := extractPython(t, "class C:\n    def m(self):\n        # x\n        pass\n")

	require.Len(t, got.Comments, 1)
	scope := got.Comments[0].Context
	require.Equal(t, ShapeChain, scope.Shape())
	require.Equal(t, 2, scope.Depth())

	outer, inner := scope.Frames[0], scope.Frames[1]
	assert.Equal(t, ClassFrame, outer.Kind)
	assert.Equal(t, "C", *outer.Name)
	assert.Empty(t, outer.Parameters)

	assert.Equal(t, FunctionFrame, inner.Kind)
	assert.Equal(t, "m", *inner.Name)
	assert.Equal(t, []string{"self"}, inner.Parameters)
	assert.Equal(t, &scope.Frames[1], scope.Innermost())
}

func TestExtract_NestedFunctionsOuterFirst(t *testing.T) {
	t.Parallel()

	got := extractPython(t, "def outer():\n    def inner():\n        # c\n        pass\n    return inner\n")

	require.Len(t, got.Comments, 1)
	scope := got.Comments[0].Context
	require.Equal(t, ShapeChain, scope.Shape())
	assert.Equal(t, "outer", *scope.Frames[0].Name)
	assert.Equal(t, "inner", *scope.Frames[1].Name)
}

func TestExtract_DocstringPredicate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		source    string
		wantKinds []CommentKind
	}{
		{
			name:      "comment before module docstring is skipped",
			source:    "# header\n\"\"\"Module doc.\"\"\"\n",
			wantKinds: []CommentKind{LineComment, DocString},
		},
		{
			name:      "string after a statement is not a docstring",
			source:    "def g():\n    x = 1\n    \"\"\"not doc\"\"\"\n",
			wantKinds: nil,
		},
		{
			name:      "second string in a body is not a docstring",
			source:    "def g():\n    \"\"\"doc\"\"\"\n    \"\"\"not doc\"\"\"\n",
			wantKinds: []CommentKind{DocString},
		},
		{
			name:      "string in a non-definition block is not a docstring",
			source:    "if True:\n    \"\"\"not doc\"\"\"\n",
			wantKinds: nil,
		},
		{
			name:      "module string after import is not a docstring",
			source:    "import os\n\"\"\"late\"\"\"\n",
			wantKinds: nil,
		},
		{
			name:      "class docstring",
			source:    "class K:\n    \"\"\"Class doc.\"\"\"\n",
			wantKinds: []CommentKind{DocString},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extractPython(t, tt.source)

			var kinds []CommentKind
			for _, c := range got.Comments {
				kinds = append(kinds, c.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestExtract_UnsupportedLanguageBeforeRead(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "does-not-exist")

	result, err := newTestExtractor().Extract(context.Background(), missing, "cobol")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, grammar.ErrUnsupportedLanguage)
}

func TestExtract_UnreadableFileDoesNotAbort(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_valid.py"), []byte("# ok\n"), 0o644))
	// A dangling symlink is enumerated but cannot be read, even by root.
	require.NoError(t, os.Symlink(filepath.Join(dir, "missing.py"), filepath.Join(dir, "b_broken.py")))

	result, err := newTestExtractor().Extract(context.Background(), dir, "python")
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(dir, "a_valid.py"), result.Files[0].File)
	assert.Equal(t, 1, result.Files[0].TotalComments)

	require.Len(t, result.Failures, 1)
	failure := result.Failures[0]
	assert.Equal(t, filepath.Join(dir, "b_broken.py"), failure.File)
	assert.Equal(t, FailureRead, failure.Kind)
	assert.ErrorIs(t, failure, ErrFileRead)

	joined := result.Err()
	require.Error(t, joined)
	assert.ErrorIs(t, joined, ErrFileRead)
	assert.True(t, IsFileFailure(joined))
}

func TestExtract_PythonFixture(t *testing.T) {
	t.Parallel()

	result, err := newTestExtractor().Extract(context.Background(), fixturePath("python", "sample.py"), "python")
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	require.Empty(t, result.Failures)

	file := result.Files[0]
	assert.Equal(t, "python", file.Language)
	assert.False(t, file.Degraded)
	require.Equal(t, 7, file.TotalComments)

	type summary struct {
		kind   CommentKind
		line   int
		shape  ContextShape
		scopes []string
	}
	var got []summary
	for _, c := range file.Comments {
		var scopes []string
		for _, f := range c.Context.Frames {
			scopes = append(scopes, f.DisplayName())
		}
		got = append(got, summary{c.Kind, c.StartLine, c.Context.Shape(), scopes})
	}

	assert.Equal(t, []summary{
		{DocString, 1, ShapeModule, nil},
		{LineComment, 3, ShapeModule, nil},
		{DocString, 8, ShapeSingle, []string{"Loader"}},
		{LineComment, 11, ShapeChain, []string{"Loader", "__init__"}},
		{DocString, 15, ShapeChain, []string{"Loader", "load"}},
		{LineComment, 19, ShapeChain, []string{"Loader", "load", "helper"}},
		{LineComment, 26, ShapeSingle, []string{"standalone"}},
	}, got)

	initFrame := file.Comments[3].Context.Innermost()
	assert.Equal(t, []string{"self", "root", "paths", "strict", "options"}, initFrame.Parameters)

	standalone := file.Comments[6].Context.Innermost()
	assert.Equal(t, []string{"a", "b"}, standalone.Parameters)
	assert.Equal(t, 25, standalone.StartLine)
	assert.Equal(t, 27, standalone.EndLine)
}

func TestExtract_DeterministicAcrossWorkers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"c.py", "a.py", "b.py", "d.py"} {
		content := "def " + name[:1] + "(v):\n    # in " + name + "\n    return v\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	sequential, err := newTestExtractor().Extract(context.Background(), dir, "python")
	require.NoError(t, err)
	again, err := newTestExtractor().Extract(context.Background(), dir, "python")
	require.NoError(t, err)
	parallel, err := newTestExtractor(WithWorkers(4)).Extract(context.Background(), dir, "python")
	require.NoError(t, err)

	first, err := json.Marshal(sequential)
	require.NoError(t, err)
	second, err := json.Marshal(again)
	require.NoError(t, err)
	third, err := json.Marshal(parallel)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, string(first), string(third))

	var names []string
	for _, f := range parallel.Files {
		names = append(names, filepath.Base(f.File))
	}
	assert.Equal(t, []string{"a.py", "b.py", "c.py", "d.py"}, names)
}

func TestExtract_TrailingCommentKeepsEarlierRecords(t *testing.T) {
	t.Parallel()

	base := "def f(x):\n    # first\n    return x\n"
	before := extractPython(t, base)
	after := extractPython(t, base+"\n\ndef g():\n    # appended\n    pass\n")

	require.Len(t, before.Comments, 1)
	require.Len(t, after.Comments, 2)
	assert.Equal(t, before.Comments[0], after.Comments[0])
	assert.Equal(t, "g", after.Comments[1].Context.Innermost().DisplayName())
}

func TestExtract_DegradedSource(t *testing.T) {
	t.Parallel()

	got := extractPython(t, "def broken(:\n    # still here\n    return )\n")

	assert.True(t, got.Degraded)
	assert.Greater(t, got.ErrorNodes, 0)
	require.NotEmpty(t, got.Comments)
	assert.Equal(t, "# still here", got.Comments[0].Text)
}

func TestExtract_LinesAreOneIndexed(t *testing.T) {
	t.Parallel()

	result, err := newTestExtractor().Extract(context.Background(), fixturePath("python"), "python")
	require.NoError(t, err)
	require.NotEmpty(t, result.Files)

	for _, file := range result.Files {
		for _, c := range file.Comments {
			assert.GreaterOrEqual(t, c.StartLine, 1)
			assert.GreaterOrEqual(t, c.EndLine, c.StartLine)
			for _, frame := range c.Context.Frames {
				assert.GreaterOrEqual(t, frame.StartLine, 1)
				assert.GreaterOrEqual(t, frame.EndLine, frame.StartLine)
			}
		}
	}
}

func TestExtract_MultilineComment(t *testing.T) {
	t.Parallel()

	extraction, err := newTestExtractor().ExtractSource(context.Background(), "x.c", "c",
		[]byte("/* one\n   two\n   three */\nint x;\n"))
	require.NoError(t, err)

	require.Len(t, extraction.Comments, 1)
	assert.Equal(t, 1, extraction.Comments[0].StartLine)
	assert.Equal(t, 3, extraction.Comments[0].EndLine)
}

func TestExtract_Cache(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(16)
	require.NoError(t, err)

	ex := newTestExtractor(WithCache(cache))
	src := []byte("# cached\n")

	first, err := ex.ExtractSource(context.Background(), "c.py", "python", src)
	require.NoError(t, err)

	stored, ok := cache.Get("python", "c.py", src)
	require.True(t, ok)
	assert.Equal(t, *first, stored)

	second, err := ex.ExtractSource(context.Background(), "c.py", "python", src)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, ok = cache.Get("python", "c.py", []byte("# changed\n"))
	assert.False(t, ok)
	assert.Equal(t, 1, cache.size())

	_, err = NewCache(0)
	assert.Error(t, err)
}

func TestExtract_CacheEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	cache, err := NewCache(1)
	require.NoError(t, err)
	ex := newTestExtractor(WithCache(cache))

	_, err = ex.ExtractSource(context.Background(), "a.py", "python", []byte("# a\n"))
	require.NoError(t, err)
	_, err = ex.ExtractSource(context.Background(), "b.py", "python", []byte("# b\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, cache.size())
	_, ok := cache.Get("python", "a.py", []byte("# a\n"))
	assert.False(t, ok)
	_, ok = cache.Get("python", "b.py", []byte("# b\n"))
	assert.True(t, ok)
}

func TestExtract_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExtractor().Extract(ctx, fixturePath("python"), "python")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractFile_Errors(t *testing.T) {
	t.Parallel()

	ex := newTestExtractor()

	_, err := ex.ExtractFile(context.Background(), filepath.Join(t.TempDir(), "nope.py"), "python")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileRead)

	_, err = ex.ExtractFile(context.Background(), "x.py", "klingon")
	assert.ErrorIs(t, err, grammar.ErrUnsupportedLanguage)
}
