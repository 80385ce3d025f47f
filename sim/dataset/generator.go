package dataset

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vehicle-sim/vehicle-sim/sim"
	"github.com/vehicle-sim/vehicle-sim/sim/kb"
)

// Generator produces labeled training samples by sampling run parameters
// per failure mode and driving the engine. Safe for concurrent use after
// construction.
type Generator struct {
	engine *sim.Engine
	kb     kb.KnowledgeBase
	cfg    GeneratorConfig
}

// NewGenerator validates the config and cross-checks the knowledge base
// against the registered simulators: every cataloged failure id must exist
// in the simulator's signature table. A catalog entry the simulator cannot
// produce would otherwise turn into silently mislabeled data.
func NewGenerator(engine *sim.Engine, catalog kb.KnowledgeBase, cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	for _, systemID := range engine.SystemIDs() {
		s, _ := engine.Lookup(systemID)
		sigs := s.Signatures()

		known := make(map[string]bool)
		for _, mode := range catalog.FailureModesForSystem(systemID) {
			known[mode.ID] = true
			if _, ok := sigs.Lookup(mode.ID); !ok {
				return nil, fmt.Errorf("knowledge base lists failure %q for system %q but the simulator has no signature for it",
					mode.ID, systemID)
			}
		}
		for _, id := range sigs.FailureIDs() {
			if !known[id] {
				logrus.Warnf("system %q: simulator failure %q is not cataloged in the knowledge base, skipping in generation",
					systemID, id)
			}
		}
	}

	return &Generator{engine: engine, kb: catalog, cfg: cfg}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() GeneratorConfig { return g.cfg }

// failureIDs returns the cataloged failure ids for a system, in catalog
// order. Catalog order is stable, which keeps task lists deterministic.
func (g *Generator) failureIDs(systemID string) []string {
	modes := g.kb.FailureModesForSystem(systemID)
	ids := make([]string, len(modes))
	for i, m := range modes {
		ids[i] = m.ID
	}
	return ids
}

// sampleConfig draws one run's parameters from the generator ranges using
// the sample's own seed. failureID empty means a normal run. The draw is a
// pure function of (seed, failureID), so a sample's parameters do not
// depend on any other sample.
func (g *Generator) sampleConfig(failureID string, seed int64) sim.SimulationConfig {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	samp := rng.ForSubsystem(sim.SubsystemSampling)

	pool := g.cfg.conditionPool()
	cfg := sim.SimulationConfig{
		DurationSeconds: distuv.Uniform{Min: g.cfg.Duration.Min, Max: g.cfg.Duration.Max, Src: samp}.Rand(),
		TimeStep:        g.cfg.TimeStep,
		Condition:       pool[samp.Intn(len(pool))],
		AmbientTempC:    distuv.Uniform{Min: g.cfg.AmbientTemp.Min, Max: g.cfg.AmbientTemp.Max, Src: samp}.Rand(),
		AddNoise:        g.cfg.AddNoise,
		NoiseLevel:      distuv.Uniform{Min: g.cfg.NoiseLevel.Min, Max: g.cfg.NoiseLevel.Max, Src: samp}.Rand(),
		Seed:            seed,
	}
	if failureID != "" {
		cfg.FailureID = failureID
		cfg.FailureSeverity = distuv.Uniform{Min: g.cfg.Severity.Min, Max: g.cfg.Severity.Max, Src: samp}.Rand()
		frac := distuv.Uniform{Min: g.cfg.OnsetFraction.Min, Max: g.cfg.OnsetFraction.Max, Src: samp}.Rand()
		cfg.FailureOnsetTime = frac * cfg.DurationSeconds
	}
	return cfg
}

// GenerateSample produces the index-th sample for (systemID, failureID).
// failureID empty generates a normal run. Fully deterministic: the sample
// seed is derived from the master seed and the triple's identity.
func (g *Generator) GenerateSample(systemID, failureID string, index int) (*sim.TrainingSample, error) {
	label := failureID
	if label == "" {
		label = sim.LabelNormal
	}
	seed := sim.DeriveSampleSeed(g.cfg.Seed, systemID, label, index)

	cfg := g.sampleConfig(failureID, seed)
	result, err := g.engine.Run(systemID, cfg)
	if err != nil {
		return nil, fmt.Errorf("sample %s/%s[%d]: %w", systemID, label, index, err)
	}
	return result.ToTrainingSample(), nil
}

// task identifies one sample to generate. slot is its position in the
// output slice, fixed before any worker runs.
type task struct {
	failureID string
	index     int
	slot      int
}

// GenerateForSystem generates the full sample set for one system:
// SamplesPerFailure per cataloged failure plus NormalSamples normal runs,
// in deterministic order. Individual sample failures are logged and
// skipped; the rest of the dataset still generates.
func (g *Generator) GenerateForSystem(systemID string) ([]*sim.TrainingSample, error) {
	if _, ok := g.engine.Lookup(systemID); !ok {
		return nil, fmt.Errorf("%w: %q", sim.ErrUnknownSystem, systemID)
	}

	var tasks []task
	for _, failureID := range g.failureIDs(systemID) {
		for i := 0; i < g.cfg.SamplesPerFailure; i++ {
			tasks = append(tasks, task{failureID: failureID, index: i, slot: len(tasks)})
		}
	}
	for i := 0; i < g.cfg.NormalSamples; i++ {
		tasks = append(tasks, task{index: i, slot: len(tasks)})
	}

	workers := g.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	// Each worker writes only its own slots, so the slice needs no lock;
	// per-sample seeds make the result independent of scheduling.
	slots := make([]*sim.TrainingSample, len(tasks))
	ch := make(chan task)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tk := range ch {
				sample, err := g.GenerateSample(systemID, tk.failureID, tk.index)
				if err != nil {
					logrus.Warnf("skipping failed sample: %v", err)
					continue
				}
				slots[tk.slot] = sample
			}
		}()
	}
	for _, tk := range tasks {
		ch <- tk
	}
	close(ch)
	wg.Wait()

	samples := make([]*sim.TrainingSample, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			samples = append(samples, s)
		}
	}
	logrus.Infof("generated %d/%d samples for system %q", len(samples), len(tasks), systemID)
	return samples, nil
}

// GenerateAll generates datasets for every registered system, keyed by
// system id.
func (g *Generator) GenerateAll() (map[string][]*sim.TrainingSample, error) {
	out := make(map[string][]*sim.TrainingSample)
	for _, systemID := range g.engine.SystemIDs() {
		samples, err := g.GenerateForSystem(systemID)
		if err != nil {
			return nil, err
		}
		out[systemID] = samples
	}
	return out, nil
}
