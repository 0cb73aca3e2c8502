package evaluator

import (
	"context"
	"fmt"

	"github.com/elC0mpa/spot-allocator/model"
	svc "github.com/elC0mpa/spot-allocator/service"
)

func NewService(inventory svc.InventoryService) *service {
	return &service{
		inventory: inventory,
	}
}

// Evaluate produces one region's contribution to the global candidate pool:
// placement scores above the tolerance, joined with the last hour of price
// history on zone name. An empty result is a normal outcome. Errors are for
// the caller to absorb; they must never abort sibling regions.
func (s *service) Evaluate(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error) {
	scores, err := s.inventory.GetPlacementScores(ctx, region, req.InstanceTypes, req.TargetCapacity)
	if err != nil {
		return nil, fmt.Errorf("placement scores for %s: %w", region, err)
	}

	scores = filterScores(scores, req.Tolerance)
	if len(scores) == 0 {
		return nil, nil
	}

	// Placement scores carry zone ids, price history carries zone names.
	// The region's own zone directory maps between the two.
	zones, err := s.inventory.ListZones(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("zone directory for %s: %w", region, err)
	}

	samples, err := s.inventory.GetPriceHistory(ctx, region, req.InstanceTypes, priceLookback, req.Platform)
	if err != nil {
		return nil, fmt.Errorf("price history for %s: %w", region, err)
	}

	aggregates := aggregateSamples(samples)

	return joinCandidates(region, scores, zoneDirectory(zones), aggregates), nil
}

// filterScores keeps only zones with score strictly above the tolerance
func filterScores(scores []model.PlacementScore, tolerance int32) []model.PlacementScore {
	filtered := make([]model.PlacementScore, 0, len(scores))
	for _, score := range scores {
		if score.Score > tolerance {
			filtered = append(filtered, score)
		}
	}

	return filtered
}

func zoneDirectory(zones []model.Zone) map[string]string {
	names := make(map[string]string, len(zones))
	for _, zone := range zones {
		names[zone.ID] = zone.Name
	}

	return names
}
