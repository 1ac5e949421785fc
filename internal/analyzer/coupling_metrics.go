package analyzer

import (
	"math"
	"path"
	"sort"

	"github.com/ludo-technologies/depscope/domain"
)

// CouplingMetricsConfig holds the thresholds used to classify modules
type CouplingMetricsConfig struct {
	// Modules at or above this instability are listed as unstable
	InstabilityHighThreshold float64

	// Modules at or below this instability are listed as stable
	InstabilityLowThreshold float64

	// Distance from the main sequence tolerated before a module leaves it
	DistanceThreshold float64

	// Ca+Ce at which a module becomes high, resp. medium, risk
	CouplingHighThreshold   int
	CouplingMediumThreshold int
}

func DefaultCouplingMetricsConfig() *CouplingMetricsConfig {
	return &CouplingMetricsConfig{
		InstabilityHighThreshold: 0.8,
		InstabilityLowThreshold:  0.2,
		DistanceThreshold:        0.3,
		CouplingHighThreshold:    10,
		CouplingMediumThreshold:  5,
	}
}

// CouplingMetricsCalculator computes Martin's package metrics with every
// directory of the file graph treated as one module
type CouplingMetricsCalculator struct {
	config *CouplingMetricsConfig
}

// NewCouplingMetricsCalculator uses the default thresholds when config is nil
func NewCouplingMetricsCalculator(config *CouplingMetricsConfig) *CouplingMetricsCalculator {
	if config == nil {
		config = DefaultCouplingMetricsConfig()
	}
	return &CouplingMetricsCalculator{config: config}
}

// moduleOf returns the module (directory) of a node path
func moduleOf(p string) string {
	return path.Dir(p)
}

// Calculate returns the coupling analysis of g. Only edges that cross a
// directory boundary count; each outside file is counted once per module.
func (c *CouplingMetricsCalculator) Calculate(g *DependencyGraph) *domain.CouplingAnalysis {
	analysis := &domain.CouplingAnalysis{
		Modules:           []domain.ModuleCoupling{},
		StableModules:     []string{},
		UnstableModules:   []string{},
		ZoneOfPain:        []string{},
		ZoneOfUselessness: []string{},
	}
	if g.NodeCount() == 0 {
		return analysis
	}

	type moduleAcc struct {
		files    int
		types    int
		afferent map[int]struct{}
		efferent map[int]struct{}
	}
	modules := make(map[string]*moduleAcc)
	var order []string

	for _, n := range g.nodes {
		m := moduleOf(n.path)
		acc, ok := modules[m]
		if !ok {
			acc = &moduleAcc{afferent: map[int]struct{}{}, efferent: map[int]struct{}{}}
			modules[m] = acc
			order = append(order, m)
		}
		acc.files++
		if n.kind == domain.FileKindType {
			acc.types++
		}
	}

	for from, n := range g.nodes {
		fromModule := moduleOf(n.path)
		for _, to := range n.imports.order {
			toModule := moduleOf(g.nodes[to].path)
			if toModule == fromModule {
				continue
			}
			modules[fromModule].efferent[to] = struct{}{}
			modules[toModule].afferent[from] = struct{}{}
		}
	}

	var totalInstability, totalDistance float64
	for _, name := range order {
		acc := modules[name]
		ca, ce := len(acc.afferent), len(acc.efferent)

		instability := instabilityOf(ca, ce)
		abstractness := float64(acc.types) / float64(acc.files)
		distance := mainSequenceDistance(instability, abstractness)
		zone := c.zone(instability, abstractness, distance)

		analysis.Modules = append(analysis.Modules, domain.ModuleCoupling{
			Module:           name,
			Files:            acc.files,
			AfferentCoupling: ca,
			EfferentCoupling: ce,
			Instability:      round2(instability),
			Abstractness:     round2(abstractness),
			Distance:         round2(distance),
			Zone:             zone,
			Risk:             c.risk(ca+ce, distance),
		})

		totalInstability += instability
		totalDistance += distance

		switch {
		case instability <= c.config.InstabilityLowThreshold:
			analysis.StableModules = append(analysis.StableModules, name)
		case instability >= c.config.InstabilityHighThreshold:
			analysis.UnstableModules = append(analysis.UnstableModules, name)
		}
		switch zone {
		case domain.ZoneOfPain:
			analysis.ZoneOfPain = append(analysis.ZoneOfPain, name)
		case domain.ZoneOfUselessness:
			analysis.ZoneOfUselessness = append(analysis.ZoneOfUselessness, name)
		}
	}

	count := float64(len(order))
	analysis.AverageInstability = round2(totalInstability / count)
	analysis.MainSequenceDeviation = round2(totalDistance / count)

	sort.SliceStable(analysis.Modules, func(i, j int) bool {
		a, b := analysis.Modules[i], analysis.Modules[j]
		if a.Distance != b.Distance {
			return a.Distance > b.Distance
		}
		return a.Module < b.Module
	})
	sort.Strings(analysis.StableModules)
	sort.Strings(analysis.UnstableModules)
	sort.Strings(analysis.ZoneOfPain)
	sort.Strings(analysis.ZoneOfUselessness)

	return analysis
}

// instabilityOf is Ce / (Ca + Ce); an uncoupled module sits at 0.5
func instabilityOf(ca, ce int) float64 {
	if ca+ce == 0 {
		return 0.5
	}
	return float64(ce) / float64(ca+ce)
}

// mainSequenceDistance is |A + I - 1|
func mainSequenceDistance(instability, abstractness float64) float64 {
	return math.Abs(abstractness + instability - 1)
}

func (c *CouplingMetricsCalculator) zone(instability, abstractness, distance float64) domain.StabilityZone {
	switch {
	case distance < c.config.DistanceThreshold:
		return domain.ZoneMainSequence
	case instability < 0.5 && abstractness < 0.5:
		// concrete files many modules lean on
		return domain.ZoneOfPain
	case instability > 0.5 && abstractness > 0.5:
		// type-only modules nobody imports
		return domain.ZoneOfUselessness
	}
	return domain.ZoneMainSequence
}

// risk grades a module by its total coupling and its distance
func (c *CouplingMetricsCalculator) risk(coupling int, distance float64) domain.RiskLevel {
	switch {
	case coupling >= c.config.CouplingHighThreshold || distance > 0.5:
		return domain.RiskLevelHigh
	case coupling >= c.config.CouplingMediumThreshold || distance > c.config.DistanceThreshold:
		return domain.RiskLevelMedium
	}
	return domain.RiskLevelLow
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
