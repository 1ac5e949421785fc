package analyzer

import (
	"regexp"
	"strings"
)

// SourceExtensions are the extensions tried when matching a specifier suffix
var SourceExtensions = []string{".tsx", ".ts", ".jsx", ".js"}

var sourceExtPattern = regexp.MustCompile(`\.(tsx?|jsx?)$`)

// Candidate is a file an import specifier may resolve to
type Candidate struct {
	Path string
	Name string
}

// Specifier is an import specifier in the two forms the predicates use
type Specifier struct {
	// Raw is the specifier with surrounding quotes removed
	Raw string
	// Cleaned also drops relative markers and a source extension
	Cleaned string
}

// Tail is the last segment of the cleaned specifier
func (s Specifier) Tail() string {
	if i := strings.LastIndex(s.Cleaned, "/"); i >= 0 {
		return s.Cleaned[i+1:]
	}
	return s.Cleaned
}

// MatchPredicate decides whether a candidate satisfies a specifier
type MatchPredicate struct {
	Name  string
	Match func(spec Specifier, c Candidate) bool
}

// ImportResolver performs best-effort specifier to file matching.
// Predicates are evaluated per candidate in order; the first candidate
// satisfying any predicate wins.
type ImportResolver struct {
	predicates []MatchPredicate
}

// NewImportResolver returns a resolver with the default predicate chain:
// name match on the cleaned tail, then path contains and extension suffix on
// the raw specifier. Relative markers stay in the raw form so that a short
// specifier such as ./a is not found inside unrelated paths.
func NewImportResolver() *ImportResolver {
	return &ImportResolver{
		predicates: []MatchPredicate{
			{Name: "nameMatch", Match: matchName},
			{Name: "pathContains", Match: matchPathContains},
			{Name: "extensionSuffix", Match: matchExtensionSuffix},
		},
	}
}

// Resolve returns the index of the first matching candidate, or -1.
func (r *ImportResolver) Resolve(spec string, candidates []Candidate) int {
	idx, _ := r.ResolveWith(spec, candidates)
	return idx
}

// ResolveWith is Resolve that also reports which predicate matched
func (r *ImportResolver) ResolveWith(spec string, candidates []Candidate) (int, string) {
	sp := Specifier{Raw: trimQuotes(spec), Cleaned: CleanSpecifier(spec)}
	if sp.Cleaned == "" {
		return -1, ""
	}
	for i, c := range candidates {
		for _, p := range r.predicates {
			if p.Match(sp, c) {
				return i, p.Name
			}
		}
	}
	return -1, ""
}

// CleanSpecifier strips surrounding quotes, leading relative markers and a
// trailing source extension from an import specifier.
func CleanSpecifier(spec string) string {
	s := trimQuotes(spec)
	for {
		switch {
		case strings.HasPrefix(s, "./"):
			s = s[2:]
		case strings.HasPrefix(s, "../"):
			s = s[3:]
		default:
			return sourceExtPattern.ReplaceAllString(s, "")
		}
	}
}

func trimQuotes(spec string) string {
	return strings.Trim(strings.TrimSpace(spec), "'\"`")
}

func stripSourceExt(name string) string {
	return sourceExtPattern.ReplaceAllString(name, "")
}

func matchName(spec Specifier, c Candidate) bool {
	tail := spec.Tail()
	return tail != "" && stripSourceExt(c.Name) == tail
}

func matchPathContains(spec Specifier, c Candidate) bool {
	return strings.Contains(c.Path, spec.Raw)
}

func matchExtensionSuffix(spec Specifier, c Candidate) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(c.Path, spec.Raw+ext) {
			return true
		}
	}
	return false
}
