package batch

import "github.com/chefkjd/MixSplitR/internal/model"

// Batch is an ordered group of sources whose combined estimated footprint
// fits the memory budget. The single exception is a batch holding exactly
// one source whose own estimate exceeds the budget; it must still be
// processed, just alone.
type Batch struct {
	Sources []model.AudioSource
}

// EstimatedBytes returns the summed decompressed estimate of the batch.
func (b Batch) EstimatedBytes() int64 {
	var total int64
	for _, src := range b.Sources {
		total += src.EstimatedRAMBytes()
	}
	return total
}

// Partition groups sources into batches by greedy first-fit over input
// order. It never fails: the worst case is over-conservative batching.
//
// budgetBytes <= 0 means no RAM signal is available; every source then gets
// its own batch for maximum safety.
func Partition(sources []model.AudioSource, budgetBytes int64) []Batch {
	if budgetBytes <= 0 {
		batches := make([]Batch, 0, len(sources))
		for _, src := range sources {
			batches = append(batches, Batch{Sources: []model.AudioSource{src}})
		}
		return batches
	}

	var batches []Batch
	var current []model.AudioSource
	var currentSize int64

	flush := func() {
		if len(current) > 0 {
			batches = append(batches, Batch{Sources: current})
			current = nil
			currentSize = 0
		}
	}

	for _, src := range sources {
		estimate := src.EstimatedRAMBytes()

		// An oversized source is emitted alone rather than rejected.
		if estimate > budgetBytes {
			flush()
			batches = append(batches, Batch{Sources: []model.AudioSource{src}})
			continue
		}

		if currentSize+estimate > budgetBytes {
			flush()
		}
		current = append(current, src)
		currentSize += estimate
	}
	flush()

	return batches
}
