package dataset

import (
	"context"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

// StreamItem is one streamed sample or the error that replaced it.
type StreamItem struct {
	Sample *sim.TrainingSample
	Err    error
}

// StreamSamples generates n samples for a system lazily, delivering each on
// the returned channel as it completes. Labels are drawn uniformly at
// random across the cataloged failures plus normal, from a stream seeded by
// the master seed, so the class sequence is shuffled but replays
// identically when the stream is restarted. The channel closes after n
// items or when ctx is canceled.
//
// Streamed samples use the same per-sample seed derivation as batch
// generation, so a streamed sample is identical to its batch counterpart
// with the same (label, occurrence) position.
func (g *Generator) StreamSamples(ctx context.Context, systemID string, n int) <-chan StreamItem {
	ch := make(chan StreamItem)
	go func() {
		defer close(ch)

		if _, ok := g.engine.Lookup(systemID); !ok {
			select {
			case ch <- StreamItem{Err: sim.ErrUnknownSystem}:
			case <-ctx.Done():
			}
			return
		}

		// Index 0 is the normal class; failures follow in catalog order.
		labels := append([]string{""}, g.failureIDs(systemID)...)
		counts := make([]int, len(labels))

		// The label sequence gets its own derived seed so restarting the
		// stream replays it, independent of batch generation.
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(sim.DeriveSeed(g.cfg.Seed, "stream/"+systemID)))
		samp := rng.ForSubsystem(sim.SubsystemSampling)

		for i := 0; i < n; i++ {
			li := samp.Intn(len(labels))
			sample, err := g.GenerateSample(systemID, labels[li], counts[li])
			counts[li]++

			select {
			case ch <- StreamItem{Sample: sample, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
