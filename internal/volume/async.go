package volume

import "context"

// CreateResult is delivered by CreateAsync
type CreateResult struct {
	Volume Descriptor
	Err    error
}

// CreateAsync runs Create in the background. The channel receives exactly
// one result.
func (r *Registry) CreateAsync(ctx context.Context, d Descriptor) <-chan CreateResult {
	done := make(chan CreateResult, 1)
	go func() {
		v, err := r.Create(ctx, d)
		done <- CreateResult{Volume: v, Err: err}
	}()
	return done
}

// EjectAsync runs Eject in the background. The channel receives exactly
// one result.
func (r *Registry) EjectAsync(ctx context.Context, name string, opts EjectOptions) <-chan EjectResult {
	done := make(chan EjectResult, 1)
	go func() {
		outcome, err := r.Eject(ctx, name, opts)
		done <- EjectResult{Outcome: outcome, Err: err}
	}()
	return done
}
