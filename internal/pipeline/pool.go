package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/chefkjd/MixSplitR/internal/model"
)

// Run processes segments concurrently with at most p.Workers in flight and
// returns results in segment order. Individual segment outcomes never abort
// the pool; cancellation of ctx stops scheduling and in-flight provider
// calls, and the affected segments come back unidentified.
func (p *Pipeline) Run(ctx context.Context, segments []model.Segment) []model.TrackResult {
	results := make([]model.TrackResult, len(segments))

	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			results[i] = p.ProcessSegment(ctx, seg, i)
			if p.OnResult != nil {
				p.OnResult(results[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
