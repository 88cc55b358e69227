package grammar

import "github.com/mvp-joe/corex/internal/syntax"

// Profile maps a grammar's raw node types onto the closed syntax.NodeKind set.
// Types missing from the map become syntax.KindOther.
type Profile map[string]syntax.NodeKind

// Kind returns the kind for a raw node type.
func (p Profile) Kind(nodeType string) syntax.NodeKind {
	if kind, ok := p[nodeType]; ok {
		return kind
	}
	return syntax.KindOther
}

// pythonProfile is the only profile with docstring support: module, block,
// expression_statement and string are mapped so the classifier can test the
// first-statement rule.
var pythonProfile = Profile{
	"module":                   syntax.KindModule,
	"comment":                  syntax.KindComment,
	"string":                   syntax.KindString,
	"expression_statement":     syntax.KindExpressionStatement,
	"block":                    syntax.KindBlock,
	"function_definition":      syntax.KindFunction,
	"class_definition":         syntax.KindClass,
	"parameters":               syntax.KindParameterList,
	"identifier":               syntax.KindIdentifier,
	"typed_parameter":          syntax.KindParameter,
	"default_parameter":        syntax.KindParameter,
	"typed_default_parameter":  syntax.KindParameter,
	"list_splat_pattern":       syntax.KindParameter,
	"dictionary_splat_pattern": syntax.KindParameter,
	"type":                     syntax.KindTypeAnnotation,
}

// cFamilyProfile covers C, C++, CUDA and Objective-C sources, all parsed with
// the C++ grammar. Function names and parameter lists sit under declarator
// nodes; a qualified name such as A::m is descended like a declarator.
var cFamilyProfile = Profile{
	"translation_unit":               syntax.KindModule,
	"comment":                        syntax.KindComment,
	"function_definition":            syntax.KindFunction,
	"class_specifier":                syntax.KindClass,
	"struct_specifier":               syntax.KindClass,
	"function_declarator":            syntax.KindDeclarator,
	"pointer_declarator":             syntax.KindDeclarator,
	"reference_declarator":           syntax.KindDeclarator,
	"parenthesized_declarator":       syntax.KindDeclarator,
	"qualified_identifier":           syntax.KindDeclarator,
	"parameter_list":                 syntax.KindParameterList,
	"parameter_declaration":          syntax.KindParameter,
	"optional_parameter_declaration": syntax.KindParameter,
	"variadic_parameter_declaration": syntax.KindParameter,
	"identifier":                     syntax.KindIdentifier,
	"field_identifier":               syntax.KindIdentifier,
}

var javaProfile = Profile{
	"program":                 syntax.KindModule,
	"line_comment":            syntax.KindComment,
	"block_comment":           syntax.KindComment,
	"method_declaration":      syntax.KindFunction,
	"constructor_declaration": syntax.KindFunction,
	"class_declaration":       syntax.KindClass,
	"interface_declaration":   syntax.KindClass,
	"enum_declaration":        syntax.KindClass,
	"record_declaration":      syntax.KindClass,
	"formal_parameters":       syntax.KindParameterList,
	"formal_parameter":        syntax.KindParameter,
	"spread_parameter":        syntax.KindParameter,
	"identifier":              syntax.KindIdentifier,
	// Annotations live under modifiers and carry identifiers of their own.
	"modifiers": syntax.KindTypeAnnotation,
}

var rubyProfile = Profile{
	"program":              syntax.KindModule,
	"comment":              syntax.KindComment,
	"method":               syntax.KindFunction,
	"singleton_method":     syntax.KindFunction,
	"class":                syntax.KindClass,
	"module":               syntax.KindClass,
	"singleton_class":      syntax.KindClass,
	"method_parameters":    syntax.KindParameterList,
	"optional_parameter":   syntax.KindParameter,
	"keyword_parameter":    syntax.KindParameter,
	"splat_parameter":      syntax.KindParameter,
	"hash_splat_parameter": syntax.KindParameter,
	"block_parameter":      syntax.KindParameter,
	"identifier":           syntax.KindIdentifier,
	"constant":             syntax.KindIdentifier,
}

// phpProfile skips type nodes inside parameters so "Foo $x" yields "x": the
// parameter name is the `name` inside variable_name.
var phpProfile = Profile{
	"program":                      syntax.KindModule,
	"comment":                      syntax.KindComment,
	"function_definition":          syntax.KindFunction,
	"method_declaration":           syntax.KindFunction,
	"anonymous_function":           syntax.KindFunction,
	"class_declaration":            syntax.KindClass,
	"interface_declaration":        syntax.KindClass,
	"trait_declaration":            syntax.KindClass,
	"enum_declaration":             syntax.KindClass,
	"formal_parameters":            syntax.KindParameterList,
	"simple_parameter":             syntax.KindParameter,
	"variadic_parameter":           syntax.KindParameter,
	"property_promotion_parameter": syntax.KindParameter,
	"name":                         syntax.KindIdentifier,
	"named_type":                   syntax.KindTypeAnnotation,
	"optional_type":                syntax.KindTypeAnnotation,
	"union_type":                   syntax.KindTypeAnnotation,
	"intersection_type":            syntax.KindTypeAnnotation,
	"primitive_type":               syntax.KindTypeAnnotation,
	"attribute_list":               syntax.KindTypeAnnotation,
}

// goProfile treats type specs as classes so comments inside struct and
// interface bodies carry the type name. Method receivers are not parameters:
// the resolver reads the list stored under the "parameters" field.
var goProfile = Profile{
	"source_file":                    syntax.KindModule,
	"comment":                        syntax.KindComment,
	"function_declaration":           syntax.KindFunction,
	"method_declaration":             syntax.KindFunction,
	"func_literal":                   syntax.KindFunction,
	"type_spec":                      syntax.KindClass,
	"parameter_list":                 syntax.KindParameterList,
	"parameter_declaration":          syntax.KindParameter,
	"variadic_parameter_declaration": syntax.KindParameter,
	"identifier":                     syntax.KindIdentifier,
}
