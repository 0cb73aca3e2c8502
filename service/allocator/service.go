package allocator

import (
	"context"
	"fmt"
	"sync"

	"github.com/elC0mpa/spot-allocator/model"
	svc "github.com/elC0mpa/spot-allocator/service"
	"github.com/sirupsen/logrus"
)

// NewService wires the optimizer. pricing may be nil, in which case the
// result carries no on-demand comparison. workers bounds concurrent region
// evaluations; placement and price APIs are rate limited far more tightly
// than DescribeImages, hence the low default.
func NewService(inventory svc.InventoryService, evaluator svc.EvaluatorService, prober svc.ProbeService, pricing svc.PricingService, workers int) *service {
	if workers <= 0 {
		workers = 1
	}

	return &service{
		inventory: inventory,
		evaluator: evaluator,
		prober:    prober,
		pricing:   pricing,
		workers:   workers,
	}
}

// FindBestAllocation runs the whole optimizer: resolve the instance type
// set, confirm the image exists somewhere (when requested), evaluate every
// region, and pick the candidate with the lowest max observed price.
func (s *service) FindBestAllocation(ctx context.Context, req model.AllocationRequest) (*model.AllocationResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	normalizeRequest(&req)

	if len(req.InstanceTypes) == 0 {
		resolved, err := s.inventory.ResolveInstanceTypes(ctx, req.Requirements)
		if err != nil {
			return nil, fmt.Errorf("resolving instance types: %w", err)
		}
		if len(resolved) == 0 {
			return nil, fmt.Errorf("no instance type satisfies %d vcpus / %d MiB", req.Requirements.VCpus, req.Requirements.MemoryMiB)
		}
		req.InstanceTypes = resolved
	}

	regions, err := s.inventory.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing regions: %w", err)
	}

	// When an image pattern is given, regions that cannot host it are
	// excluded from evaluation entirely: an allocation there could never
	// be provisioned.
	if req.AMIPattern != "" {
		regions, err = s.prober.FindRegionsWithImage(ctx, regions, req.AMIPattern, req.AMIArch)
		if err != nil {
			return nil, err
		}
	}

	candidates := s.evaluateRegions(ctx, regions, req)

	// An empty pool on a cancelled run says nothing about the regions;
	// only a completed search may report that no candidate exists.
	if len(candidates) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	best, top, err := selectBest(candidates)
	if err != nil {
		return nil, err
	}

	offered, err := s.inventory.OfferedInstanceTypes(ctx, best.Region, req.InstanceTypes)
	if err != nil {
		return nil, fmt.Errorf("instance type offerings in %s: %w", best.Region, err)
	}

	result := &model.AllocationResult{
		Region:        best.Region,
		ZoneName:      best.ZoneName,
		InstanceType:  best.InstanceType,
		BidPrice:      computeBid(best.MaxPrice, req.Rate),
		AvgPrice:      best.AvgPrice,
		MaxPrice:      best.MaxPrice,
		Score:         best.Score,
		OfferedTypes:  offered,
		TopCandidates: top,
	}

	s.attachOnDemand(ctx, result)

	return result, nil
}

// evaluateRegions fans evaluation out under the worker bound. A failed
// region contributes nothing and is logged; cancellation stops launching
// new workers and waits for the in-flight ones.
func (s *service) evaluateRegions(ctx context.Context, regions []string, req model.AllocationRequest) []model.Candidate {
	var candidates []model.Candidate
	var mu sync.Mutex
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, s.workers)

	for _, region := range regions {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(region string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if ctx.Err() != nil {
				return
			}

			contribution, err := s.evaluator.Evaluate(ctx, region, req)
			if err != nil {
				logrus.Warnf("region %s degraded to empty contribution: %v", region, err)
				return
			}

			mu.Lock()
			candidates = append(candidates, contribution...)
			mu.Unlock()
		}(region)
	}

	wg.Wait()

	return candidates
}

func (s *service) attachOnDemand(ctx context.Context, result *model.AllocationResult) {
	if s.pricing == nil {
		return
	}

	onDemand, err := s.pricing.GetOnDemandPrice(ctx, result.InstanceType, result.Region)
	if err != nil {
		logrus.Warnf("no on-demand price for %s in %s: %v", result.InstanceType, result.Region, err)
		return
	}

	if onDemand > 0 {
		result.OnDemandPrice = onDemand
		result.Savings = (onDemand - result.AvgPrice) / onDemand * 100
	}
}

func validateRequest(req model.AllocationRequest) error {
	if len(req.InstanceTypes) > 0 {
		return nil
	}
	if req.Requirements.VCpus > 0 && req.Requirements.MemoryMiB > 0 {
		return nil
	}

	return model.ErrInvalidInput
}

func normalizeRequest(req *model.AllocationRequest) {
	if req.Platform == "" {
		req.Platform = "Linux/UNIX"
	}
	if req.TargetCapacity <= 0 {
		req.TargetCapacity = 1
	}
}
