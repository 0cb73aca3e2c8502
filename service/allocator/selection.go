package allocator

import (
	"sort"

	"github.com/elC0mpa/spot-allocator/model"
)

// topCandidates is how many runners-up the result keeps for reporting
const topCandidates = 10

// selectBest picks the candidate with the lowest max observed price. Ties
// break on average price, then region, zone and instance type, so the
// answer never depends on which region's worker finished first. The sorted
// head of the pool is returned alongside the winner for reporting.
func selectBest(candidates []model.Candidate) (*model.Candidate, []model.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil, model.ErrNoCandidates
	}

	sorted := make([]model.Candidate, len(candidates))
	copy(sorted, candidates)

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.MaxPrice != b.MaxPrice {
			return a.MaxPrice < b.MaxPrice
		}
		if a.AvgPrice != b.AvgPrice {
			return a.AvgPrice < b.AvgPrice
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.ZoneName != b.ZoneName {
			return a.ZoneName < b.ZoneName
		}
		return a.InstanceType < b.InstanceType
	})

	head := sorted
	if len(head) > topCandidates {
		head = head[:topCandidates]
	}

	return &sorted[0], head, nil
}

// computeBid inflates the max observed price by the caller's buffer
// percentage. A zero or negative rate bids the max price itself.
func computeBid(maxPrice, rate float64) float64 {
	if rate <= 0 {
		return maxPrice
	}

	return maxPrice * (1 + rate/100)
}
