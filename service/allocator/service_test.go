package allocator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/elC0mpa/spot-allocator/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockInventory struct {
	mu sync.Mutex

	listRegionsFn func(ctx context.Context) ([]string, error)
	resolveFn     func(ctx context.Context, req model.InstanceRequirements) ([]string, error)
	offeredFn     func(ctx context.Context, region string, instanceTypes []string) ([]string, error)

	regionCalls  int
	resolveCalls int
	scoreCalls   int
	priceCalls   int
}

func (m *mockInventory) ListRegions(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	m.regionCalls++
	m.mu.Unlock()
	if m.listRegionsFn != nil {
		return m.listRegionsFn(ctx)
	}
	return nil, nil
}

func (m *mockInventory) ListZones(ctx context.Context, region string) ([]model.Zone, error) {
	return nil, nil
}

func (m *mockInventory) ResolveInstanceTypes(ctx context.Context, req model.InstanceRequirements) ([]string, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()
	if m.resolveFn != nil {
		return m.resolveFn(ctx, req)
	}
	return nil, nil
}

func (m *mockInventory) GetPlacementScores(ctx context.Context, region string, instanceTypes []string, targetCapacity int32) ([]model.PlacementScore, error) {
	m.mu.Lock()
	m.scoreCalls++
	m.mu.Unlock()
	return nil, nil
}

func (m *mockInventory) GetPriceHistory(ctx context.Context, region string, instanceTypes []string, window time.Duration, platform string) ([]model.PriceSample, error) {
	m.mu.Lock()
	m.priceCalls++
	m.mu.Unlock()
	return nil, nil
}

func (m *mockInventory) ArtifactExists(ctx context.Context, region, namePattern, arch string) (bool, error) {
	return false, nil
}

func (m *mockInventory) OfferedInstanceTypes(ctx context.Context, region string, instanceTypes []string) ([]string, error) {
	if m.offeredFn != nil {
		return m.offeredFn(ctx, region, instanceTypes)
	}
	return instanceTypes, nil
}

type mockEvaluator struct {
	mu         sync.Mutex
	evaluateFn func(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error)
	regions    []string
}

func (m *mockEvaluator) Evaluate(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error) {
	m.mu.Lock()
	m.regions = append(m.regions, region)
	m.mu.Unlock()
	if m.evaluateFn != nil {
		return m.evaluateFn(ctx, region, req)
	}
	return nil, nil
}

type mockProbe struct {
	findFn func(ctx context.Context, regions []string, namePattern, arch string) ([]string, error)
	calls  int
}

func (m *mockProbe) FindRegionsWithImage(ctx context.Context, regions []string, namePattern, arch string) ([]string, error) {
	m.calls++
	if m.findFn != nil {
		return m.findFn(ctx, regions, namePattern, arch)
	}
	return regions, nil
}

type mockPricing struct {
	priceFn func(ctx context.Context, instanceType, region string) (float64, error)
}

func (m *mockPricing) GetOnDemandPrice(ctx context.Context, instanceType, region string) (float64, error) {
	if m.priceFn != nil {
		return m.priceFn(ctx, instanceType, region)
	}
	return 0, errors.New("no price")
}

func TestFindBestAllocation_InvalidInputBeforeAnyRemoteCall(t *testing.T) {
	inventory := &mockInventory{}
	s := NewService(inventory, &mockEvaluator{}, &mockProbe{}, nil, 1)

	_, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		Requirements: model.InstanceRequirements{VCpus: 4}, // memory missing
	})

	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Zero(t, inventory.regionCalls)
	assert.Zero(t, inventory.resolveCalls)
}

func TestFindBestAllocation_ArtifactNotFoundShortCircuits(t *testing.T) {
	inventory := &mockInventory{
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1", "us-west-2", "eu-west-1"}, nil
		},
	}
	evaluator := &mockEvaluator{}
	prober := &mockProbe{
		findFn: func(ctx context.Context, regions []string, namePattern, arch string) ([]string, error) {
			return nil, model.ErrArtifactNotFound
		},
	}

	s := NewService(inventory, evaluator, prober, nil, 1)
	_, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
		AMIPattern:    "my-image-*",
	})

	assert.ErrorIs(t, err, model.ErrArtifactNotFound)
	assert.Empty(t, evaluator.regions, "no region evaluation after a failed probe")
	assert.Zero(t, inventory.scoreCalls)
	assert.Zero(t, inventory.priceCalls)
}

func TestFindBestAllocation_SingleCandidate(t *testing.T) {
	inventory := &mockInventory{
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1"}, nil
		},
		offeredFn: func(ctx context.Context, region string, instanceTypes []string) ([]string, error) {
			assert.Equal(t, "us-east-1", region)
			return []string{"m5.large"}, nil
		},
	}
	evaluator := &mockEvaluator{
		evaluateFn: func(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error) {
			return []model.Candidate{{
				Region:       region,
				ZoneName:     "us-east-1a",
				InstanceType: "m5.large",
				AvgPrice:     0.18,
				MaxPrice:     0.20,
				Score:        7,
			}}, nil
		},
	}

	s := NewService(inventory, evaluator, &mockProbe{}, nil, 1)
	result, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
		Rate:          10,
	})

	require.NoError(t, err)
	assert.Equal(t, "us-east-1", result.Region)
	assert.Equal(t, "us-east-1a", result.ZoneName)
	assert.Equal(t, "m5.large", result.InstanceType)
	assert.InDelta(t, 0.22, result.BidPrice, 1e-9)
	assert.LessOrEqual(t, result.AvgPrice, 0.20)
	assert.Equal(t, int32(7), result.Score)
	assert.Equal(t, []string{"m5.large"}, result.OfferedTypes)
}

func TestFindBestAllocation_DegradedRegionIsAbsorbed(t *testing.T) {
	inventory := &mockInventory{
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1", "us-west-2"}, nil
		},
	}
	evaluator := &mockEvaluator{
		evaluateFn: func(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error) {
			if region == "us-east-1" {
				return nil, errors.New("api unavailable")
			}
			return []model.Candidate{{
				Region:       region,
				ZoneName:     "us-west-2a",
				InstanceType: "m5.large",
				MaxPrice:     0.10,
			}}, nil
		},
	}

	s := NewService(inventory, evaluator, &mockProbe{}, nil, 2)
	result, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
	})

	require.NoError(t, err)
	assert.Equal(t, "us-west-2", result.Region)
}

func TestFindBestAllocation_EveryRegionEmptyMeansNoCandidates(t *testing.T) {
	inventory := &mockInventory{
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1", "us-west-2"}, nil
		},
	}

	s := NewService(inventory, &mockEvaluator{}, &mockProbe{}, nil, 1)
	_, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
	})

	assert.ErrorIs(t, err, model.ErrNoCandidates)
}

func TestFindBestAllocation_ProbeRestrictsEvaluatedRegions(t *testing.T) {
	inventory := &mockInventory{
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1", "us-west-2", "eu-west-1"}, nil
		},
	}
	evaluator := &mockEvaluator{
		evaluateFn: func(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error) {
			return []model.Candidate{{Region: region, ZoneName: region + "a", InstanceType: "m5.large", MaxPrice: 0.10}}, nil
		},
	}
	prober := &mockProbe{
		findFn: func(ctx context.Context, regions []string, namePattern, arch string) ([]string, error) {
			return []string{"us-west-2"}, nil
		},
	}

	s := NewService(inventory, evaluator, prober, nil, 1)
	result, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
		AMIPattern:    "my-image-*",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, prober.calls)
	assert.Equal(t, []string{"us-west-2"}, evaluator.regions)
	assert.Equal(t, "us-west-2", result.Region)
}

func TestFindBestAllocation_ResolvesRequirements(t *testing.T) {
	inventory := &mockInventory{
		resolveFn: func(ctx context.Context, req model.InstanceRequirements) ([]string, error) {
			assert.Equal(t, int32(4), req.VCpus)
			assert.Equal(t, int32(8192), req.MemoryMiB)
			return []string{"m5.xlarge", "m5a.xlarge"}, nil
		},
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1"}, nil
		},
	}
	evaluator := &mockEvaluator{
		evaluateFn: func(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error) {
			assert.Equal(t, []string{"m5.xlarge", "m5a.xlarge"}, req.InstanceTypes)
			return []model.Candidate{{Region: region, ZoneName: "us-east-1a", InstanceType: "m5a.xlarge", MaxPrice: 0.15}}, nil
		},
	}

	s := NewService(inventory, evaluator, &mockProbe{}, nil, 1)
	result, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		Requirements: model.InstanceRequirements{VCpus: 4, MemoryMiB: 8192},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, inventory.resolveCalls)
	assert.Equal(t, "m5a.xlarge", result.InstanceType)
}

func TestFindBestAllocation_OnDemandEnrichmentIsBestEffort(t *testing.T) {
	inventory := &mockInventory{
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1"}, nil
		},
	}
	evaluator := &mockEvaluator{
		evaluateFn: func(ctx context.Context, region string, req model.AllocationRequest) ([]model.Candidate, error) {
			return []model.Candidate{{Region: region, ZoneName: "us-east-1a", InstanceType: "m5.large", AvgPrice: 0.05, MaxPrice: 0.10}}, nil
		},
	}
	pricing := &mockPricing{
		priceFn: func(ctx context.Context, instanceType, region string) (float64, error) {
			return 0.096, nil
		},
	}

	s := NewService(inventory, evaluator, &mockProbe{}, pricing, 1)
	result, err := s.FindBestAllocation(context.Background(), model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
	})

	require.NoError(t, err)
	assert.InDelta(t, 0.096, result.OnDemandPrice, 1e-9)
	assert.InDelta(t, (0.096-0.05)/0.096*100, result.Savings, 1e-9)

	// A pricing failure must not fail the allocation
	s = NewService(inventory, evaluator, &mockProbe{}, &mockPricing{}, 1)
	result, err = s.FindBestAllocation(context.Background(), model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
	})
	require.NoError(t, err)
	assert.Zero(t, result.OnDemandPrice)
}

func TestFindBestAllocation_CancellationStopsNewWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inventory := &mockInventory{
		listRegionsFn: func(ctx context.Context) ([]string, error) {
			return []string{"us-east-1", "us-west-2"}, nil
		},
	}
	evaluator := &mockEvaluator{}

	s := NewService(inventory, evaluator, &mockProbe{}, nil, 1)
	_, err := s.FindBestAllocation(ctx, model.AllocationRequest{
		InstanceTypes: []string{"m5.large"},
	})

	require.Error(t, err)
	assert.Empty(t, evaluator.regions)

	// A search that never ran must not be reported as exhausted
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, model.ErrNoCandidates)
}
