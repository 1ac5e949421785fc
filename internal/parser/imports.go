package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// ImportKind describes the syntax an import was written with
type ImportKind string

const (
	ImportKindStatic   ImportKind = "static"
	ImportKindReexport ImportKind = "reexport"
	ImportKindDynamic  ImportKind = "dynamic"
	ImportKindRequire  ImportKind = "require"
)

// ModuleType classifies where a specifier points
type ModuleType string

const (
	ModuleTypeRelative ModuleType = "relative"
	ModuleTypeAbsolute ModuleType = "absolute"
	ModuleTypeAlias    ModuleType = "alias"
	ModuleTypeBuiltin  ModuleType = "builtin"
	ModuleTypePackage  ModuleType = "package"
)

// Import is one module reference found in a source file
type Import struct {
	Source     string
	Kind       ImportKind
	TypeOnly   bool
	Line       int
	SourceType ModuleType
}

var nodeBuiltins = map[string]bool{
	"assert":         true,
	"buffer":         true,
	"child_process":  true,
	"cluster":        true,
	"console":        true,
	"constants":      true,
	"crypto":         true,
	"dgram":          true,
	"dns":            true,
	"domain":         true,
	"events":         true,
	"fs":             true,
	"http":           true,
	"http2":          true,
	"https":          true,
	"module":         true,
	"net":            true,
	"os":             true,
	"path":           true,
	"perf_hooks":     true,
	"process":        true,
	"punycode":       true,
	"querystring":    true,
	"readline":       true,
	"repl":           true,
	"stream":         true,
	"string_decoder": true,
	"sys":            true,
	"timers":         true,
	"tls":            true,
	"tty":            true,
	"url":            true,
	"util":           true,
	"v8":             true,
	"vm":             true,
	"wasi":           true,
	"worker_threads": true,
	"zlib":           true,
}

// collectImports walks the syntax tree with an explicit stack
func collectImports(root *sitter.Node, source []byte) []Import {
	if root == nil {
		return nil
	}
	var imports []Import
	stack := []*sitter.Node{root}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch node.Type() {
		case "import_statement":
			if src := stringValue(node.ChildByFieldName("source"), source); src != "" {
				imports = append(imports, Import{
					Source:   src,
					Kind:     ImportKindStatic,
					TypeOnly: isTypeOnly(node),
					Line:     int(node.StartPoint().Row) + 1,
				})
			}
			continue

		case "export_statement":
			if src := stringValue(node.ChildByFieldName("source"), source); src != "" {
				imports = append(imports, Import{
					Source:   src,
					Kind:     ImportKindReexport,
					TypeOnly: isTypeOnly(node),
					Line:     int(node.StartPoint().Row) + 1,
				})
				continue
			}

		case "call_expression":
			if imp, ok := callImport(node, source); ok {
				imports = append(imports, imp)
			}
		}

		// push in reverse so children are visited in source order
		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.NamedChild(i))
		}
	}

	for i := range imports {
		imports[i].SourceType = ClassifySource(imports[i].Source, nil)
	}
	return imports
}

// callImport recognizes require('x') and import('x')
func callImport(node *sitter.Node, source []byte) (Import, bool) {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")
	if fn == nil || args == nil || args.NamedChildCount() == 0 {
		return Import{}, false
	}

	var kind ImportKind
	switch {
	case fn.Type() == "import":
		kind = ImportKindDynamic
	case fn.Type() == "identifier" && fn.Content(source) == "require":
		kind = ImportKindRequire
	default:
		return Import{}, false
	}

	src := stringValue(args.NamedChild(0), source)
	if src == "" {
		return Import{}, false
	}
	return Import{
		Source: src,
		Kind:   kind,
		Line:   int(node.StartPoint().Row) + 1,
	}, true
}

// isTypeOnly detects `import type ...` and `export type ... from`
func isTypeOnly(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "type" {
			return true
		}
		if child.IsNamed() {
			return false
		}
	}
	return false
}

// stringValue returns the unquoted value of a string or substitution-free
// template literal
func stringValue(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "string":
	case "template_string":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if node.NamedChild(i).Type() == "template_substitution" {
				return ""
			}
		}
	default:
		return ""
	}
	return strings.Trim(node.Content(source), "'\"`")
}

// ClassifySource determines the type of module source
func ClassifySource(source string, aliasPrefixes []string) ModuleType {
	if source == "" {
		return ModuleTypePackage
	}
	if strings.HasPrefix(source, "node:") {
		return ModuleTypeBuiltin
	}
	if strings.HasPrefix(source, ".") {
		return ModuleTypeRelative
	}
	if strings.HasPrefix(source, "/") {
		return ModuleTypeAbsolute
	}
	for _, prefix := range aliasPrefixes {
		if prefix != "" && strings.HasPrefix(source, prefix) {
			return ModuleTypeAlias
		}
	}
	if nodeBuiltins[PackageName(source)] {
		return ModuleTypeBuiltin
	}
	return ModuleTypePackage
}

// PackageName reduces a bare specifier to its package: "lodash/fp" is
// "lodash" and "@scope/pkg/sub" is "@scope/pkg"
func PackageName(source string) string {
	parts := strings.Split(source, "/")
	if strings.HasPrefix(source, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// Split partitions imports into local specifiers (relative, absolute or
// aliased) and external package names. Type-only imports are dropped unless
// includeTypes is set.
func Split(imports []Import, aliasPrefixes []string, includeTypes bool) (local, external []string) {
	local = []string{}
	external = []string{}
	for _, imp := range imports {
		if imp.TypeOnly && !includeTypes {
			continue
		}
		switch ClassifySource(imp.Source, aliasPrefixes) {
		case ModuleTypeRelative, ModuleTypeAbsolute, ModuleTypeAlias:
			local = append(local, imp.Source)
		case ModuleTypeBuiltin:
			external = append(external, PackageName(strings.TrimPrefix(imp.Source, "node:")))
		default:
			external = append(external, PackageName(imp.Source))
		}
	}
	return local, external
}
