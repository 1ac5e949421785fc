// Package reporter renders analysis insights as Markdown, prompt and JSON text.
package reporter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ludo-technologies/depscope/domain"
)

// NodeLookup gives read access to the analyzed graph
type NodeLookup interface {
	Node(path string) (domain.GraphNode, bool)
	Nodes() []domain.GraphNode
}

// Reporter renders reports over one insight and its graph
type Reporter struct {
	nodes NodeLookup
	now   func() time.Time
}

// Option configures a Reporter
type Option func(*Reporter)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Reporter. A nil lookup behaves like an empty graph.
func New(nodes NodeLookup, opts ...Option) *Reporter {
	if nodes == nil {
		nodes = NewSnapshot(nil)
	}
	r := &Reporter{nodes: nodes, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reporter) timestamp() string {
	return r.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// Snapshot is a NodeLookup over a fixed list of nodes
type Snapshot struct {
	order []domain.GraphNode
	index map[string]int
}

// NewSnapshot indexes nodes by path, keeping their order
func NewSnapshot(nodes []domain.GraphNode) *Snapshot {
	s := &Snapshot{order: nodes, index: make(map[string]int, len(nodes))}
	for i, n := range nodes {
		s.index[n.Path] = i
	}
	return s
}

func (s *Snapshot) Node(path string) (domain.GraphNode, bool) {
	i, ok := s.index[path]
	if !ok {
		return domain.GraphNode{}, false
	}
	return s.order[i], true
}

func (s *Snapshot) Nodes() []domain.GraphNode {
	return s.order
}

// HealthGrade maps a maintainability score to a letter grade
func HealthGrade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C+"
	case score >= 40:
		return "C"
	default:
		return "D"
	}
}

// ScoreStatus labels a score for the Markdown metrics table
func ScoreStatus(score int) string {
	switch {
	case score >= 80:
		return "✅ Excellent"
	case score >= 60:
		return "⚠️ Good"
	case score >= 40:
		return "🔶 Fair"
	default:
		return "❌ Poor"
	}
}

// CharCount counts text length in UTF-16 code units, the unit the token
// estimate is defined over
func CharCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// EstimateTokens approximates tokens as ceil(chars/4)
func EstimateTokens(s string) int {
	return int(math.Ceil(float64(CharCount(s)) / 4))
}

// ShortName returns the last path segment
func ShortName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 && i < len(path)-1 {
		return path[i+1:]
	}
	return path
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func shortNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = ShortName(p)
	}
	return out
}
