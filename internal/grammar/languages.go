package grammar

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
)

// NewLanguage wraps a grammar handle with its profile and suffix set.
func NewLanguage(id string, aliases, suffixes []string, handle *sitter.Language, profile Profile) *Language {
	return &Language{
		ID:       id,
		Aliases:  aliases,
		Suffixes: suffixes,
		handle:   handle,
		profile:  profile,
	}
}

// DefaultLanguages returns the built-in grammar table. C, C++, CUDA and
// Objective-C share the C++ grammar; constructs it does not know come back as
// error nodes and are still searched for comments.
func DefaultLanguages() []*Language {
	cppLang := sitter.NewLanguage(cpp.Language())

	return []*Language{
		NewLanguage("python", []string{"py"}, []string{".py"},
			sitter.NewLanguage(python.Language()), pythonProfile),
		NewLanguage("cpp", []string{"c", "c++", "cxx"}, []string{".cpp", ".c", ".h", ".hpp", ".cc", ".cxx"},
			cppLang, cFamilyProfile),
		NewLanguage("cuda", []string{"cu"}, []string{".cu", ".cuh"},
			cppLang, cFamilyProfile),
		NewLanguage("objc", []string{"objective-c", "objectivec"}, []string{".m", ".mm"},
			cppLang, cFamilyProfile),
		NewLanguage("java", nil, []string{".java"},
			sitter.NewLanguage(java.Language()), javaProfile),
		NewLanguage("ruby", []string{"rb"}, []string{".rb"},
			sitter.NewLanguage(ruby.Language()), rubyProfile),
		NewLanguage("php", nil, []string{".php"},
			sitter.NewLanguage(php.LanguagePHP()), phpProfile),
		NewLanguage("go", []string{"golang"}, []string{".go"},
			sitter.NewLanguage(golang.Language()), goProfile),
	}
}

// DefaultRegistry returns a registry over DefaultLanguages.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultLanguages()...)
	if err != nil {
		// The built-in table has no duplicate names.
		panic(err)
	}
	return r
}
