package probe

import (
	"context"
	"fmt"
	"sync"

	"github.com/elC0mpa/spot-allocator/model"
	svc "github.com/elC0mpa/spot-allocator/service"
	"github.com/sirupsen/logrus"
)

const defaultWorkers = 10

func NewService(inventory svc.InventoryService, workers int) *service {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &service{
		inventory: inventory,
		workers:   workers,
	}
}

// FindRegionsWithImage asks every region in parallel whether at least one
// available image matches the pattern. A probe failure counts as "not found"
// for that region only; the probe as a whole fails only when no region has a
// match. Each region owns exactly one slot in the result slice, so the
// workers share no mutable state.
func (s *service) FindRegionsWithImage(ctx context.Context, regions []string, namePattern, arch string) ([]string, error) {
	found := make([]bool, len(regions))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, s.workers)

	for idx, region := range regions {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(idx int, region string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			exists, err := s.inventory.ArtifactExists(ctx, region, namePattern, arch)
			if err != nil {
				logrus.Warnf("image probe failed in %s, treating as not found: %v", region, err)
				return
			}

			found[idx] = exists
		}(idx, region)
	}

	wg.Wait()

	var matches []string
	for idx, ok := range found {
		if ok {
			matches = append(matches, regions[idx])
		}
	}

	if len(matches) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%q: %w", namePattern, model.ErrArtifactNotFound)
	}

	return matches, nil
}
