package compress

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// languageSpec is the small per-language table the generic tree-sitter
// engine needs: which node kinds are declarations worth keeping a signature
// for, which child of a declaration is its elidable body, which of those
// declarations are containers (class/struct/impl/namespace/module) whose
// body gets walked recursively instead of collapsed — so nested method
// signatures and field declarations survive — what placeholder replaces a
// non-container (leaf) body, and which node kinds are comments (kept when
// they sit at file scope or immediately precede a retained declaration).
type languageSpec struct {
	name         string
	extensions   []string
	language     func() *sitter.Language
	declarations map[string]bool
	bodyKinds    map[string]bool
	containers   map[string]bool
	commentKinds map[string]bool
	placeholder  string
}

var languageSpecs = []languageSpec{
	{
		name:       "rust",
		extensions: []string{".rs"},
		language:   func() *sitter.Language { return rust.GetLanguage() },
		declarations: map[string]bool{
			"function_item": true, "impl_item": true, "trait_item": true,
			"struct_item": true, "enum_item": true, "mod_item": true,
		},
		bodyKinds: map[string]bool{
			"block": true, "declaration_list": true,
			"field_declaration_list": true, "enum_variant_list": true,
		},
		containers: map[string]bool{
			"impl_item": true, "trait_item": true, "mod_item": true,
			"struct_item": true, "enum_item": true,
		},
		commentKinds: map[string]bool{"line_comment": true, "block_comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "typescript",
		extensions: []string{".ts"},
		language:   func() *sitter.Language { return typescript.GetLanguage() },
		declarations: map[string]bool{
			"function_declaration": true, "class_declaration": true,
			"interface_declaration": true, "method_definition": true,
			"module": true,
		},
		bodyKinds:    map[string]bool{"statement_block": true, "class_body": true, "interface_body": true},
		containers:   map[string]bool{"class_declaration": true, "interface_declaration": true, "module": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "tsx",
		extensions: []string{".tsx"},
		language:   func() *sitter.Language { return tsx.GetLanguage() },
		declarations: map[string]bool{
			"function_declaration": true, "class_declaration": true,
			"interface_declaration": true, "method_definition": true,
		},
		bodyKinds:    map[string]bool{"statement_block": true, "class_body": true, "interface_body": true},
		containers:   map[string]bool{"class_declaration": true, "interface_declaration": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "javascript",
		extensions: []string{".js", ".jsx"},
		language:   func() *sitter.Language { return javascript.GetLanguage() },
		declarations: map[string]bool{
			"function_declaration": true, "class_declaration": true,
			"method_definition": true,
		},
		bodyKinds:    map[string]bool{"statement_block": true, "class_body": true},
		containers:   map[string]bool{"class_declaration": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "python",
		extensions: []string{".py"},
		language:   func() *sitter.Language { return python.GetLanguage() },
		declarations: map[string]bool{
			"function_definition": true, "class_definition": true,
		},
		bodyKinds:    map[string]bool{"block": true},
		containers:   map[string]bool{"class_definition": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "...",
	},
	{
		name:       "java",
		extensions: []string{".java"},
		language:   func() *sitter.Language { return java.GetLanguage() },
		declarations: map[string]bool{
			"class_declaration": true, "interface_declaration": true,
			"method_declaration": true, "constructor_declaration": true,
			"enum_declaration": true,
		},
		bodyKinds:    map[string]bool{"block": true, "constructor_body": true, "class_body": true, "interface_body": true, "enum_body": true},
		containers:   map[string]bool{"class_declaration": true, "interface_declaration": true, "enum_declaration": true},
		commentKinds: map[string]bool{"comment": true, "line_comment": true, "block_comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "csharp",
		extensions: []string{".cs"},
		language:   func() *sitter.Language { return csharp.GetLanguage() },
		declarations: map[string]bool{
			"class_declaration": true, "interface_declaration": true,
			"method_declaration": true, "constructor_declaration": true,
			"struct_declaration": true,
		},
		bodyKinds:    map[string]bool{"block": true, "declaration_list": true},
		containers:   map[string]bool{"class_declaration": true, "interface_declaration": true, "struct_declaration": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "c",
		extensions: []string{".c", ".h"},
		language:   func() *sitter.Language { return c.GetLanguage() },
		declarations: map[string]bool{
			"function_definition": true, "struct_specifier": true,
		},
		bodyKinds:    map[string]bool{"compound_statement": true, "field_declaration_list": true},
		containers:   map[string]bool{"struct_specifier": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "cpp",
		extensions: []string{".cc", ".cpp", ".cxx", ".hpp", ".hh"},
		language:   func() *sitter.Language { return cpp.GetLanguage() },
		declarations: map[string]bool{
			"function_definition": true, "class_specifier": true,
			"struct_specifier": true, "namespace_definition": true,
		},
		bodyKinds:    map[string]bool{"compound_statement": true, "field_declaration_list": true, "declaration_list": true},
		containers:   map[string]bool{"class_specifier": true, "struct_specifier": true, "namespace_definition": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "{ ... }",
	},
	{
		name:       "ruby",
		extensions: []string{".rb"},
		language:   func() *sitter.Language { return ruby.GetLanguage() },
		declarations: map[string]bool{
			"method": true, "class": true, "module": true,
		},
		bodyKinds:    map[string]bool{"body_statement": true},
		containers:   map[string]bool{"class": true, "module": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "...\nend",
	},
	{
		name:       "php",
		extensions: []string{".php"},
		language:   func() *sitter.Language { return php.GetLanguage() },
		declarations: map[string]bool{
			"function_definition": true, "method_declaration": true,
			"class_declaration": true, "interface_declaration": true,
		},
		bodyKinds:    map[string]bool{"compound_statement": true, "declaration_list": true},
		containers:   map[string]bool{"class_declaration": true, "interface_declaration": true},
		commentKinds: map[string]bool{"comment": true},
		placeholder:  "{ ... }",
	},
}

// ExtensionsCovered returns every extension the tree-sitter-backed languages
// recognize, for building the dispatcher registry.
func ExtensionsCovered() []string {
	var out []string
	for _, spec := range languageSpecs {
		out = append(out, spec.extensions...)
	}
	return out
}
