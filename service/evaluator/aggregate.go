package evaluator

import (
	"sort"

	"github.com/elC0mpa/spot-allocator/model"
)

// aggregateSamples reduces raw price samples into per (zone, instance type)
// statistics. Groups with zero samples cannot exist by construction, so
// every aggregate has well defined extrema. Output is sorted by zone then
// instance type to keep downstream behavior reproducible.
func aggregateSamples(samples []model.PriceSample) []model.PriceAggregate {
	type groupKey struct {
		zone         string
		instanceType string
	}

	groups := make(map[groupKey]*model.PriceAggregate)
	for _, sample := range samples {
		key := groupKey{zone: sample.ZoneName, instanceType: sample.InstanceType}

		aggregate, ok := groups[key]
		if !ok {
			groups[key] = &model.PriceAggregate{
				ZoneName:     sample.ZoneName,
				InstanceType: sample.InstanceType,
				AvgPrice:     sample.Price,
				MinPrice:     sample.Price,
				MaxPrice:     sample.Price,
				SampleCount:  1,
			}
			continue
		}

		if sample.Price < aggregate.MinPrice {
			aggregate.MinPrice = sample.Price
		}
		if sample.Price > aggregate.MaxPrice {
			aggregate.MaxPrice = sample.Price
		}
		// AvgPrice holds the running sum until the final pass
		aggregate.AvgPrice += sample.Price
		aggregate.SampleCount++
	}

	aggregates := make([]model.PriceAggregate, 0, len(groups))
	for _, aggregate := range groups {
		aggregate.AvgPrice /= float64(aggregate.SampleCount)
		aggregates = append(aggregates, *aggregate)
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].ZoneName != aggregates[j].ZoneName {
			return aggregates[i].ZoneName < aggregates[j].ZoneName
		}
		return aggregates[i].InstanceType < aggregates[j].InstanceType
	})

	return aggregates
}
