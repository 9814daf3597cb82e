package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Define struct for YAML
type ScenarioConfig struct {
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

// Scenario is a named preset of request parameters. Zero-valued fields leave
// the corresponding CLI flag untouched.
type Scenario struct {
	Algorithm       string    `yaml:"algorithm"`
	Model           string    `yaml:"model"`
	SampleSize      int       `yaml:"sample_size"`
	TreeSize        int       `yaml:"tree_size"`
	Threads         int       `yaml:"threads"`
	Rate            float64   `yaml:"rate"`
	NStar           int       `yaml:"nstar"`
	MStar           int       `yaml:"mstar"`
	SamplingProb    []float64 `yaml:"sampling_prob"`
	BirthRate       float64   `yaml:"birth_rate"`
	DeathRate       float64   `yaml:"death_rate"`
	TreeAge         float64   `yaml:"tree_age"`
	RootEdge        bool      `yaml:"root_edge"`
	CarryingK       float64   `yaml:"carrying_capacity"`
	RateSigma       float64   `yaml:"rate_sigma"`
	BetaA           float64   `yaml:"beta_a"`
	ShiftTimes      []float64 `yaml:"shift_times"`
	ShiftBirthRates []float64 `yaml:"shift_birth_rates"`
	ShiftDeathRates []float64 `yaml:"shift_death_rates"`
	PendantDist     string    `yaml:"pendant_dist"`
	PendantMean     float64   `yaml:"pendant_mean"`
}

// GetScenarioConfig loads the named scenario preset from a YAML file, or nil
// when the name is absent.
func GetScenarioConfig(scenarioFilePath string, name string) *Scenario {
	// Read YAML file
	data, err := os.ReadFile(scenarioFilePath)
	if err != nil {
		panic(err)
	}

	// Parse YAML
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(err)
	}

	if sc, exists := cfg.Scenarios[name]; exists {
		logrus.Infof("Using preset scenario %v\n", name)
		return &sc
	}
	return nil
}

// apply copies the preset's non-zero fields over the CLI flag variables.
func (sc *Scenario) apply() {
	if sc.Algorithm != "" {
		algorithm = sc.Algorithm
	}
	if sc.Model != "" {
		model = sc.Model
	}
	if sc.SampleSize > 0 {
		sampleSize = sc.SampleSize
	}
	if sc.TreeSize > 0 {
		treeSize = sc.TreeSize
	}
	if sc.Threads > 0 {
		threads = sc.Threads
	}
	if sc.Rate > 0 {
		rate = sc.Rate
	}
	if sc.NStar > 0 {
		nstar = sc.NStar
	}
	if sc.MStar > 0 {
		mstar = sc.MStar
	}
	if len(sc.SamplingProb) > 0 {
		samplingProb = sc.SamplingProb
	}
	if sc.BirthRate > 0 {
		birthRate = sc.BirthRate
	}
	if sc.DeathRate > 0 {
		deathRate = sc.DeathRate
	}
	if sc.TreeAge > 0 {
		treeAge = sc.TreeAge
	}
	if sc.RootEdge {
		rootEdge = true
	}
	if sc.CarryingK > 0 {
		carryingK = sc.CarryingK
	}
	if sc.RateSigma > 0 {
		rateSigma = sc.RateSigma
	}
	if sc.BetaA > 0 {
		betaA = sc.BetaA
	}
	if len(sc.ShiftTimes) > 0 {
		shiftTimes = sc.ShiftTimes
		shiftBirthRates = sc.ShiftBirthRates
		shiftDeathRates = sc.ShiftDeathRates
	}
	if sc.PendantDist != "" {
		pendantDist = sc.PendantDist
	}
	if sc.PendantMean > 0 {
		pendantMean = sc.PendantMean
	}
}
