package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Grammar is the tree-sitter language a file is parsed with
type Grammar int

const (
	GrammarJavaScript Grammar = iota
	// GrammarTSX also accepts plain .ts sources
	GrammarTSX
)

func (g Grammar) String() string {
	if g == GrammarTSX {
		return "tsx"
	}
	return "javascript"
}

func (g Grammar) language() *sitter.Language {
	if g == GrammarTSX {
		return tsx.GetLanguage()
	}
	return javascript.GetLanguage()
}

// GrammarFor picks the grammar from the file extension
func GrammarFor(filename string) Grammar {
	if IsTypeScriptFile(filename) {
		return GrammarTSX
	}
	return GrammarJavaScript
}

// Parser extracts imports with one tree-sitter parser. It is not safe for
// concurrent use.
type Parser struct {
	ts      *sitter.Parser
	grammar Grammar
}

// New creates a parser for g. Call Close when done.
func New(g Grammar) *Parser {
	ts := sitter.NewParser()
	ts.SetLanguage(g.language())
	return &Parser{ts: ts, grammar: g}
}

func (p *Parser) Grammar() Grammar { return p.grammar }

func (p *Parser) Close() {
	if p.ts != nil {
		p.ts.Close()
		p.ts = nil
	}
}

// ExtractImports parses source and returns every module specifier it
// references, in source order
func (p *Parser) ExtractImports(ctx context.Context, filename string, source []byte) ([]Import, error) {
	if p.ts == nil {
		return nil, fmt.Errorf("parse %s: parser closed", filename)
	}
	tree, err := p.ts.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree", filename)
	}
	defer tree.Close()

	return collectImports(tree.RootNode(), source), nil
}

// ExtractImports parses filename with the grammar its extension selects
func ExtractImports(ctx context.Context, filename string, source []byte) ([]Import, error) {
	p := New(GrammarFor(filename))
	defer p.Close()
	return p.ExtractImports(ctx, filename, source)
}

// IsTypeScriptFile reports whether the extension selects the TSX grammar
func IsTypeScriptFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return true
	}
	return false
}

// IsSourceFile reports whether the file is JavaScript or TypeScript source.
// Declaration files (.d.ts) count.
func IsSourceFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts":
		return true
	}
	return false
}
