package grammar

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ErrUnsupportedLanguage is returned when no grammar or suffix mapping exists
// for a language identifier.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language is one registry entry: a grammar handle, the node-kind profile used
// to build arenas from it, and the file suffixes recognised for it.
type Language struct {
	ID       string
	Aliases  []string
	Suffixes []string

	handle  *sitter.Language
	profile Profile
}

// HasSuffix reports whether path carries one of the language's suffixes.
func (l *Language) HasSuffix(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, suffix := range l.Suffixes {
		if ext == suffix {
			return true
		}
	}
	return false
}

// Registry maps language identifiers to grammars. It is immutable once built
// and safe for concurrent use.
type Registry struct {
	languages []*Language
	byName    map[string]*Language
}

// NewRegistry builds a registry from the given languages. IDs and aliases are
// matched case-insensitively; a duplicate name is an error.
func NewRegistry(languages ...*Language) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Language),
	}

	for _, lang := range languages {
		if lang == nil || lang.ID == "" {
			return nil, errors.New("language must have an ID")
		}
		for _, name := range append([]string{lang.ID}, lang.Aliases...) {
			key := strings.ToLower(name)
			if _, exists := r.byName[key]; exists {
				return nil, fmt.Errorf("duplicate language name: %s", name)
			}
			r.byName[key] = lang
		}
		r.languages = append(r.languages, lang)
	}

	sort.Slice(r.languages, func(i, j int) bool {
		return r.languages[i].ID < r.languages[j].ID
	})

	return r, nil
}

// Resolve returns the language registered under id or one of its aliases.
func (r *Registry) Resolve(id string) (*Language, error) {
	lang, ok := r.byName[strings.ToLower(strings.TrimSpace(id))]
	if !ok || len(lang.Suffixes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, id)
	}
	return lang, nil
}

// Languages returns the registered languages sorted by ID.
func (r *Registry) Languages() []*Language {
	out := make([]*Language, len(r.languages))
	copy(out, r.languages)
	return out
}

// ForPath returns the first language (by ID order) whose suffix set matches path.
func (r *Registry) ForPath(path string) (*Language, error) {
	for _, lang := range r.languages {
		if lang.HasSuffix(path) {
			return lang, nil
		}
	}
	return nil, fmt.Errorf("%w: no grammar for %s", ErrUnsupportedLanguage, filepath.Base(path))
}
