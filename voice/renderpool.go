// renderpool.go - concurrent per-voice update/render fan-out
//
// License: GPLv3 or later

package voice

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RenderPool advances and mixes a caller-owned slice of voices in
// parallel. It does not allocate, steal, or retire voices itself — voice
// allocation and scheduling happen upstream; RenderPool only spreads the
// per-tick DSP work for voices the caller already holds across up to
// maxWorkers goroutines (one goroutine per voice when unbounded).
type RenderPool struct {
	maxWorkers int
}

// NewRenderPool returns a RenderPool bounded to at most maxWorkers
// concurrent goroutines. maxWorkers <= 0 means unbounded.
func NewRenderPool(maxWorkers int) *RenderPool {
	return &RenderPool{maxWorkers: maxWorkers}
}

// UpdateAll calls Update on every voice concurrently and waits for all of
// them to finish.
func (p *RenderPool) UpdateAll(ctx context.Context, voices []*Voice) error {
	g, ctx := errgroup.WithContext(ctx)
	if p.maxWorkers > 0 {
		g.SetLimit(p.maxWorkers)
	}
	for _, v := range voices {
		v := v
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			v.Update()
			return nil
		})
	}
	return g.Wait()
}

// RenderMix renders every voice concurrently and sums the results into a
// single stereo frame. Per-voice render order does not affect the sum, so
// no mutex is needed on the accumulator beyond the final reduction.
func (p *RenderPool) RenderMix(ctx context.Context, voices []*Voice) (StereoValue, error) {
	frames := make([]StereoValue, len(voices))

	g, ctx := errgroup.WithContext(ctx)
	if p.maxWorkers > 0 {
		g.SetLimit(p.maxWorkers)
	}
	for i, v := range voices {
		i, v := i, v
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			frames[i] = v.Render()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return StereoValue{}, err
	}

	var mix StereoValue
	for _, f := range frames {
		mix.AddAssign(f)
	}
	return mix, nil
}
