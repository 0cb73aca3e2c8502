package evaluator

import "github.com/elC0mpa/spot-allocator/model"

// joinCandidates inner-joins filtered placement scores with price aggregates
// on zone name, exact and case sensitive. A score whose zone id is missing
// from the directory, or whose zone has no price history, yields nothing;
// the same holds for priced zones without a surviving score.
func joinCandidates(region string, scores []model.PlacementScore, zoneNames map[string]string, aggregates []model.PriceAggregate) []model.Candidate {
	var candidates []model.Candidate

	for _, score := range scores {
		zoneName, ok := zoneNames[score.ZoneID]
		if !ok {
			continue
		}

		for _, aggregate := range aggregates {
			if aggregate.ZoneName != zoneName {
				continue
			}

			candidates = append(candidates, model.Candidate{
				Region:       region,
				ZoneName:     zoneName,
				InstanceType: aggregate.InstanceType,
				AvgPrice:     aggregate.AvgPrice,
				MaxPrice:     aggregate.MaxPrice,
				Score:        score.Score,
			})
		}
	}

	return candidates
}
