package domain

// StabilityZone places a module relative to the main sequence A + I = 1
type StabilityZone string

const (
	ZoneMainSequence  StabilityZone = "main_sequence"
	ZoneOfPain        StabilityZone = "zone_of_pain"
	ZoneOfUselessness StabilityZone = "zone_of_uselessness"
)

// ModuleCoupling holds the coupling metrics of one directory
type ModuleCoupling struct {
	Module string `json:"module" yaml:"module"`
	Files  int    `json:"files" yaml:"files"`

	// AfferentCoupling counts files outside the module importing into it
	AfferentCoupling int `json:"afferentCoupling" yaml:"afferent_coupling"`

	// EfferentCoupling counts files outside the module it imports
	EfferentCoupling int `json:"efferentCoupling" yaml:"efferent_coupling"`

	// Instability is Ce / (Ca + Ce), 0.5 without any coupling
	Instability float64 `json:"instability" yaml:"instability"`

	// Abstractness is the share of type files in the module
	Abstractness float64 `json:"abstractness" yaml:"abstractness"`

	// Distance is |A + I - 1|
	Distance float64       `json:"distance" yaml:"distance"`
	Zone     StabilityZone `json:"zone" yaml:"zone"`
	Risk     RiskLevel     `json:"risk" yaml:"risk"`
}

// CouplingAnalysis aggregates module coupling over a project
type CouplingAnalysis struct {
	// Modules sorted by distance from the main sequence, farthest first
	Modules []ModuleCoupling `json:"modules" yaml:"modules"`

	AverageInstability    float64  `json:"averageInstability" yaml:"average_instability"`
	MainSequenceDeviation float64  `json:"mainSequenceDeviation" yaml:"main_sequence_deviation"`
	StableModules         []string `json:"stableModules" yaml:"stable_modules"`
	UnstableModules       []string `json:"unstableModules" yaml:"unstable_modules"`
	ZoneOfPain            []string `json:"zoneOfPain" yaml:"zone_of_pain"`
	ZoneOfUselessness     []string `json:"zoneOfUselessness" yaml:"zone_of_uselessness"`
}
