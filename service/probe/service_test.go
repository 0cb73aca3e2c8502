package probe

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
	mu         sync.Mutex
	artifactFn func(ctx context.Context, region, namePattern, arch string) (bool, error)
	probed     []string
	inFlight   int
	maxFlight  int
}

func (m *mockInventory) ListRegions(ctx context.Context) ([]string, error) { return nil, nil }

func (m *mockInventory) ListZones(ctx context.Context, region string) ([]model.Zone, error) {
	return nil, nil
}

func (m *mockInventory) ResolveInstanceTypes(ctx context.Context, req model.InstanceRequirements) ([]string, error) {
	return nil, nil
}

func (m *mockInventory) GetPlacementScores(ctx context.Context, region string, instanceTypes []string, targetCapacity int32) ([]model.PlacementScore, error) {
	return nil, nil
}

func (m *mockInventory) GetPriceHistory(ctx context.Context, region string, instanceTypes []string, window time.Duration, platform string) ([]model.PriceSample, error) {
	return nil, nil
}

func (m *mockInventory) ArtifactExists(ctx context.Context, region, namePattern, arch string) (bool, error) {
	m.mu.Lock()
	m.probed = append(m.probed, region)
	m.inFlight++
	if m.inFlight > m.maxFlight {
		m.maxFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.artifactFn != nil {
		return m.artifactFn(ctx, region, namePattern, arch)
	}
	return false, nil
}

func (m *mockInventory) OfferedInstanceTypes(ctx context.Context, region string, instanceTypes []string) ([]string, error) {
	return nil, nil
}

func TestFindRegionsWithImage_ReturnsMatchingRegions(t *testing.T) {
	inventory := &mockInventory{
		artifactFn: func(ctx context.Context, region, namePattern, arch string) (bool, error) {
			return region == "us-east-1" || region == "eu-west-1", nil
		},
	}

	s := NewService(inventory, 10)
	matches, err := s.FindRegionsWithImage(context.Background(), []string{"us-east-1", "us-west-2", "eu-west-1"}, "my-image-*", "x86_64")

	require.NoError(t, err)
	// Slot order follows the input region order regardless of completion order
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, matches)
	assert.Len(t, inventory.probed, 3)
}

func TestFindRegionsWithImage_NoMatchAnywhere(t *testing.T) {
	inventory := &mockInventory{}

	s := NewService(inventory, 10)
	_, err := s.FindRegionsWithImage(context.Background(), []string{"us-east-1", "us-west-2"}, "missing-*", "")

	assert.ErrorIs(t, err, model.ErrArtifactNotFound)
}

func TestFindRegionsWithImage_ProbeErrorMeansNotFound(t *testing.T) {
	inventory := &mockInventory{
		artifactFn: func(ctx context.Context, region, namePattern, arch string) (bool, error) {
			if region == "us-west-2" {
				return false, errors.New("timeout")
			}
			return true, nil
		},
	}

	s := NewService(inventory, 10)
	matches, err := s.FindRegionsWithImage(context.Background(), []string{"us-east-1", "us-west-2"}, "my-image-*", "")

	require.NoError(t, err, "a single failed probe must not fail the run")
	assert.Equal(t, []string{"us-east-1"}, matches)
}

func TestFindRegionsWithImage_RespectsWorkerBound(t *testing.T) {
	inventory := &mockInventory{
		artifactFn: func(ctx context.Context, region, namePattern, arch string) (bool, error) {
			time.Sleep(5 * time.Millisecond)
			return true, nil
		},
	}

	regions := []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8"}

	s := NewService(inventory, 2)
	_, err := s.FindRegionsWithImage(context.Background(), regions, "img-*", "")

	require.NoError(t, err)
	assert.LessOrEqual(t, inventory.maxFlight, 2)
}

func TestFindRegionsWithImage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inventory := &mockInventory{}

	s := NewService(inventory, 10)
	_, err := s.FindRegionsWithImage(ctx, []string{"us-east-1"}, "img-*", "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrArtifactNotFound, "cancellation is not an absence of the image")
}
