package scenario

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/san-kum/spacecore/internal/config"
)

// RunBatch runs n copies of cfg in parallel, seeded cfg.Seed, cfg.Seed+1,
// and so on. Each run owns its own Space.
func RunBatch(ctx context.Context, cfg *config.Config, log zerolog.Logger, n int) ([]*Result, error) {
	results := make([]*Result, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *cfg
			cfgCopy.Seed = cfg.Seed + int64(idx)

			r, err := New(&cfgCopy, log.With().Int64("seed", cfgCopy.Seed).Logger())
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = r.Run(ctx)
		}(i)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
