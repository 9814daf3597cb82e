package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/treesim/treesim/sim"
	"github.com/treesim/treesim/sim/newick"
)

var (
	// CLI flags for the sampling request
	seed       int64  // Seed for random trajectory generation
	logLevel   string // Log verbosity level
	algorithm  string // Sampling algorithm name
	model      string // Branching process model name
	sampleSize int    // Number of trees to sample
	treeSize   int    // Target number of tips per sampled tree
	threads    int    // Parallel sampling workers
	output     string // Output file for Newick trees (empty = stdout)

	// CLI flags for algorithm options
	rate         float64   // Sampling intensity converting duration to expected yield
	nstar        int       // Simulator size cap for the birth-death algorithms
	mstar        int       // True-count bound for incomplete sampling expansion
	samplingProb []float64 // Sampling probability (one value = scalar per-species form)
	capExpected  bool      // Cap expected yield at the outstanding sample count
	pendantDist  string    // Pendant length distribution for memoryless_b
	pendantMean  float64   // Pendant distribution mean
	pendantStdev float64   // Pendant distribution standard deviation (gaussian)
	pendantMin   float64   // Pendant distribution minimum (uniform)
	pendantMax   float64   // Pendant distribution maximum (uniform)
	pendantValue float64   // Pendant distribution fixed value (constant)

	// CLI flags for model options
	birthRate       float64   // Birth (speciation) rate
	deathRate       float64   // Death (extinction) rate
	treeAge         float64   // Calendar age cap (0 = unset)
	rootEdge        bool      // Give the root lineage its own waiting time
	carryingK       float64   // Carrying capacity for diversity_dependent
	rateSigma       float64   // Evolution scale for evolving_rate
	betaA           float64   // Shape parameter a for beta_split
	shiftTimes      []float64 // Scheduled shift times for temporal_shift / clade_shift
	shiftBirthRates []float64 // Birth rates taking effect at each shift time
	shiftDeathRates []float64 // Death rates taking effect at each shift time

	// CLI flags for scenario presets
	scenarioFile string // YAML file of named scenario presets
	scenario     string // Scenario preset name
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "treesim",
	Short: "Unbiased phylogenetic tree sampling under branching-process models",
}

// runCmd executes one sampling request using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sample trees with a generalized sampling algorithm",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if scenarioFile != "" {
			if sc := GetScenarioConfig(scenarioFile, scenario); sc != nil {
				sc.apply()
			} else {
				logrus.Fatalf("Scenario %q not found in %s", scenario, scenarioFile)
			}
		}

		req, err := buildRequest()
		if err != nil {
			logrus.Fatalf("Invalid request: %v", err)
		}

		logrus.Infof("Sampling %d trees of size %d with algorithm=%s model=%s threads=%d seed=%d",
			req.SampleSize, req.TreeSize, algorithm, model, req.Threads, req.Seed)

		startTime := time.Now()

		// Interrupt cancels all outstanding workers at the next trajectory
		// boundary.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		res, err := sim.Sample(ctx, req)
		if err != nil {
			logrus.Fatalf("Sampling failed: %v", err)
		}

		if err := writeTrees(res); err != nil {
			logrus.Fatalf("Writing results failed: %v", err)
		}

		logrus.Infof("Sampling complete: %d trees from %d trajectories in %v",
			len(res.Trees), len(res.Expected), time.Since(startTime))
	},
}

// buildRequest resolves the string-named algorithm and model into core values
// and assembles the sampling request. Name resolution happens exactly once,
// here at the configuration boundary.
func buildRequest() (sim.SampleRequest, error) {
	alg, err := sim.ParseAlgorithm(algorithm)
	if err != nil {
		return sim.SampleRequest{}, err
	}

	req := sim.SampleRequest{
		SampleSize: sampleSize,
		TreeSize:   treeSize,
		Algorithm:  alg,
		ModelCfg:   sim.ModelConfig{TreeAge: treeAge, RootEdge: rootEdge},
		AlgCfg: sim.AlgorithmConfig{
			Rate:                rate,
			NStar:               nstar,
			MStar:               mstar,
			SamplingProbability: samplingProb,
			BirthRate:           birthRate,
			DeathRate:           deathRate,
			CapExpectedYield:    capExpected,
		},
		Threads: threads,
		Seed:    seed,
		Progress: func(accepted int) {
			logrus.Debugf("accepted sample %d/%d", accepted, sampleSize)
		},
	}

	if alg == sim.AlgorithmMemorylessB {
		dist, err := sim.NewPendantDist(pendantSpec())
		if err != nil {
			return sim.SampleRequest{}, err
		}
		req.AlgCfg.PendantDist = dist
	}

	if alg != sim.AlgorithmConstantRateBD {
		policy, err := buildModel()
		if err != nil {
			return sim.SampleRequest{}, err
		}
		req.Model = policy
	}
	return req, nil
}

// pendantSpec maps the pendant flags onto a distribution spec.
func pendantSpec() sim.DistSpec {
	switch pendantDist {
	case "gaussian":
		return sim.DistSpec{Type: "gaussian", Params: map[string]float64{"mean": pendantMean, "std_dev": pendantStdev}}
	case "uniform":
		return sim.DistSpec{Type: "uniform", Params: map[string]float64{"min": pendantMin, "max": pendantMax}}
	case "constant":
		return sim.DistSpec{Type: "constant", Params: map[string]float64{"value": pendantValue}}
	default:
		return sim.DistSpec{Type: pendantDist, Params: map[string]float64{"mean": pendantMean}}
	}
}

// buildModel resolves the model name plus its option flags into a RatePolicy.
func buildModel() (sim.RatePolicy, error) {
	switch model {
	case "constant_rate_birth":
		return sim.NewConstantRateBirth(birthRate), nil
	case "constant_rate_birth_death":
		return sim.NewConstantRateBirthDeath(birthRate, deathRate), nil
	case "diversity_dependent":
		return sim.NewDiversityDependent(birthRate, deathRate, carryingK), nil
	case "evolving_rate":
		return sim.NewEvolvingRate(birthRate, deathRate, rateSigma), nil
	case "beta_split":
		return sim.NewBetaSplit(birthRate, deathRate, betaA), nil
	case "temporal_shift":
		shifts, err := buildShifts()
		if err != nil {
			return nil, err
		}
		return sim.NewTemporalShift(sim.Rates{Birth: birthRate, Death: deathRate}, shifts), nil
	case "clade_shift":
		shifts, err := buildShifts()
		if err != nil {
			return nil, err
		}
		return sim.NewCladeShift(sim.Rates{Birth: birthRate, Death: deathRate}, shifts), nil
	default:
		return nil, fmt.Errorf("unsupported model %q: %w", model, sim.ErrInvalidConfiguration)
	}
}

// buildShifts zips the three shift flag slices into a schedule.
func buildShifts() ([]sim.RateShift, error) {
	if len(shiftTimes) != len(shiftBirthRates) || len(shiftTimes) != len(shiftDeathRates) {
		return nil, fmt.Errorf("shift flags must have equal lengths (times=%d, birth=%d, death=%d): %w",
			len(shiftTimes), len(shiftBirthRates), len(shiftDeathRates), sim.ErrInvalidConfiguration)
	}
	shifts := make([]sim.RateShift, len(shiftTimes))
	for i := range shiftTimes {
		shifts[i] = sim.RateShift{
			At: shiftTimes[i],
			To: sim.Rates{Birth: shiftBirthRates[i], Death: shiftDeathRates[i]},
		}
	}
	return shifts, nil
}

// writeTrees emits the sampled trees as Newick lines to stdout or --output.
func writeTrees(res *sim.SampleResult) error {
	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	for _, line := range newick.WriteAll(res) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {

	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random trajectory generation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Request shape
	runCmd.Flags().StringVar(&algorithm, "algorithm", "bd", "Sampling algorithm (b, bd, incomplete_sampling_bd, memoryless_b, constant_rate_bd)")
	runCmd.Flags().StringVar(&model, "model", "constant_rate_birth_death", "Branching process model (constant_rate_birth, constant_rate_birth_death, diversity_dependent, temporal_shift, evolving_rate, beta_split, clade_shift)")
	runCmd.Flags().IntVar(&sampleSize, "sample-size", 10, "Number of trees to sample")
	runCmd.Flags().IntVar(&treeSize, "tree-size", 10, "Target number of tips per sampled tree")
	runCmd.Flags().IntVar(&threads, "threads", 1, "Parallel sampling workers")
	runCmd.Flags().StringVar(&output, "output", "", "Output file for Newick trees (default stdout)")

	// Algorithm options
	runCmd.Flags().Float64Var(&rate, "rate", 1.0, "Sampling intensity converting time-at-target-size to expected yield")
	runCmd.Flags().IntVar(&nstar, "nstar", 0, "Simulator size cap for the birth-death algorithms")
	runCmd.Flags().IntVar(&mstar, "mstar", 0, "True-count bound for incomplete sampling probability expansion")
	runCmd.Flags().Float64SliceVar(&samplingProb, "sampling-prob", nil, "Sampling probability (single value = scalar per-species probability)")
	runCmd.Flags().BoolVar(&capExpected, "cap-expected-yield", false, "Cap expected yield at the outstanding sample count before rounding")
	runCmd.Flags().StringVar(&pendantDist, "pendant-dist", "exponential", "Pendant length distribution for memoryless_b (exponential, gaussian, uniform, constant)")
	runCmd.Flags().Float64Var(&pendantMean, "pendant-mean", 1.0, "Pendant distribution mean")
	runCmd.Flags().Float64Var(&pendantStdev, "pendant-stdev", 0.0, "Pendant distribution standard deviation (gaussian)")
	runCmd.Flags().Float64Var(&pendantMin, "pendant-min", 0.0, "Pendant distribution minimum (uniform)")
	runCmd.Flags().Float64Var(&pendantMax, "pendant-max", 1.0, "Pendant distribution maximum (uniform)")
	runCmd.Flags().Float64Var(&pendantValue, "pendant-value", 0.0, "Pendant distribution fixed value (constant)")

	// Model options
	runCmd.Flags().Float64Var(&birthRate, "birth-rate", 1.0, "Birth (speciation) rate")
	runCmd.Flags().Float64Var(&deathRate, "death-rate", 0.0, "Death (extinction) rate")
	runCmd.Flags().Float64Var(&treeAge, "tree-age", 0.0, "Calendar age cap for the simulator (0 = unset)")
	runCmd.Flags().BoolVar(&rootEdge, "root-edge", false, "Give the root lineage its own waiting time before the first split")
	runCmd.Flags().Float64Var(&carryingK, "carrying-capacity", 0.0, "Carrying capacity K for diversity_dependent")
	runCmd.Flags().Float64Var(&rateSigma, "rate-sigma", 0.0, "Evolution scale sigma for evolving_rate")
	runCmd.Flags().Float64Var(&betaA, "beta-a", 0.0, "Shape parameter a for beta_split (fraction ~ Beta(a+1, a+1))")
	runCmd.Flags().Float64SliceVar(&shiftTimes, "shift-times", nil, "Scheduled shift times for temporal_shift / clade_shift")
	runCmd.Flags().Float64SliceVar(&shiftBirthRates, "shift-birth-rates", nil, "Birth rates taking effect at each shift time")
	runCmd.Flags().Float64SliceVar(&shiftDeathRates, "shift-death-rates", nil, "Death rates taking effect at each shift time")

	// Scenario presets
	runCmd.Flags().StringVar(&scenarioFile, "scenario-file", "", "YAML file of named scenario presets")
	runCmd.Flags().StringVar(&scenario, "scenario", "", "Scenario preset name from --scenario-file")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
