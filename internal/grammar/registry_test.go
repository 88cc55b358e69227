package grammar

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/corex/internal/syntax"
)

// Test Plan for Registry:
// - Resolve finds languages by ID and alias, case-insensitively
// - Resolve fails with ErrUnsupportedLanguage for unknown identifiers
// - Suffix table matches the documented mapping
// - ForPath picks a language by file extension
// - NewRegistry rejects duplicate names and empty IDs
// - Languages() is sorted by ID
//
// Test Plan for Parse:
// - Python source becomes an arena with profile kinds assigned
// - Keyword tokens are not mistaken for scope nodes
// - Malformed source still yields a tree containing error nodes
// - A cancelled context stops parsing before it starts

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()

	tests := []struct {
		name   string
		id     string
		wantID string
	}{
		{"canonical python", "python", "python"},
		{"python alias", "py", "python"},
		{"upper case", "PYTHON", "python"},
		{"c maps to cpp entry", "c", "cpp"},
		{"c++ alias", "c++", "cpp"},
		{"cuda", "cuda", "cuda"},
		{"objective-c alias", "objective-c", "objc"},
		{"golang alias", "golang", "go"},
		{"surrounding space", "  ruby ", "ruby"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lang, err := registry.Resolve(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, lang.ID)
		})
	}
}

func TestRegistry_ResolveUnsupported(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()

	lang, err := registry.Resolve("cobol")
	assert.Nil(t, lang)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedLanguage))
	assert.Contains(t, err.Error(), "cobol")
}

func TestRegistry_ResolveEmptySuffixSet(t *testing.T) {
	t.Parallel()

	registry, err := NewRegistry(NewLanguage("bare", nil, nil, nil, Profile{}))
	require.NoError(t, err)

	_, err = registry.Resolve("bare")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestRegistry_SuffixTable(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()

	expected := map[string][]string{
		"python": {".py"},
		"cpp":    {".cpp", ".c", ".h", ".hpp", ".cc", ".cxx"},
		"cuda":   {".cu", ".cuh"},
		"objc":   {".m", ".mm"},
		"go":     {".go"},
	}
	for id, suffixes := range expected {
		lang, err := registry.Resolve(id)
		require.NoError(t, err, id)
		assert.Equal(t, suffixes, lang.Suffixes, id)
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()

	lang, err := registry.ForPath("/src/pkg/module.py")
	require.NoError(t, err)
	assert.Equal(t, "python", lang.ID)

	lang, err = registry.ForPath("kernel.CU")
	require.NoError(t, err)
	assert.Equal(t, "cuda", lang.ID)

	_, err = registry.ForPath("README.md")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(
		NewLanguage("one", []string{"shared"}, []string{".a"}, nil, Profile{}),
		NewLanguage("two", []string{"SHARED"}, []string{".b"}, nil, Profile{}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	_, err = NewRegistry(NewLanguage("", nil, nil, nil, Profile{}))
	require.Error(t, err)
}

func TestRegistry_LanguagesSorted(t *testing.T) {
	t.Parallel()

	langs := DefaultRegistry().Languages()
	require.NotEmpty(t, langs)
	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1].ID, langs[i].ID)
	}
}

func TestParse_PythonArena(t *testing.T) {
	t.Parallel()

	lang, err := DefaultRegistry().Resolve("python")
	require.NoError(t, err)

	tree, err := lang.Parse(context.Background(), []byte("class C:\n    def m(self):\n        # x\n        pass\n"))
	require.NoError(t, err)
	require.NotNil(t, tree)

	root := tree.Root()
	assert.Equal(t, syntax.KindModule, tree.Kind(root))

	counts := map[syntax.NodeKind]int{}
	tree.Walk(root, func(id syntax.NodeID) bool {
		counts[tree.Kind(id)]++
		return true
	})

	// The "class" and "def" keyword tokens are anonymous and stay KindOther.
	assert.Equal(t, 1, counts[syntax.KindClass])
	assert.Equal(t, 1, counts[syntax.KindFunction])
	assert.Equal(t, 1, counts[syntax.KindComment])
	assert.Equal(t, 1, counts[syntax.KindParameterList])
	assert.Equal(t, 0, counts[syntax.KindError])
}

func TestParse_MalformedSourceKeepsTree(t *testing.T) {
	t.Parallel()

	lang, err := DefaultRegistry().Resolve("python")
	require.NoError(t, err)

	tree, err := lang.Parse(context.Background(), []byte("def broken(:\n    # still here\n    return )\n"))
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Greater(t, tree.ErrorCount(), 0)
}

func TestParse_CancelledContext(t *testing.T) {
	t.Parallel()

	lang, err := DefaultRegistry().Resolve("python")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = lang.Parse(ctx, []byte("x = 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}
